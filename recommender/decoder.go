package recommender

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/imkonsowa/restaurants-recommender/models"
)

// DecodeRequest turns a raw payload into a request. It never fails: a field
// that cannot be decoded is left nil, and an empty or unreadable payload
// yields a request with every field nil.
//
// Strict JSON objects are decoded first. Anything else goes through a
// quote-aware scanner that accepts single or double quoted values.
func DecodeRequest(data []byte) models.RecommendationRequest {
	var req models.RecommendationRequest

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		slog.Debug("empty recommendation payload")
		return req
	}

	fields, ok := jsonFields(data)
	if !ok {
		fields = scanFields(string(data))
	}

	for key, raw := range fields {
		switch key {
		case "userPreference":
			req.UserPreference = stringField(key, raw)
		case "location":
			req.Location = stringField(key, raw)
		case "cuisine":
			req.Cuisine = stringField(key, raw)
		case "priceRange":
			req.PriceRange = stringField(key, raw)
		case "occasion":
			req.Occasion = stringField(key, raw)
		case "numberOfPeople":
			req.NumberOfPeople = intField(key, raw)
		}
	}

	return req
}

func jsonFields(data []byte) (map[string]string, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		fields[key] = string(value)
	}

	return fields, true
}

func scanFields(payload string) map[string]string {
	payload = strings.TrimSpace(payload)
	payload = strings.TrimPrefix(payload, "{")
	payload = strings.TrimSuffix(payload, "}")

	fields := make(map[string]string)
	for _, pair := range splitPairs(payload) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		colon := strings.Index(pair, ":")
		if colon == -1 {
			slog.Debug("skipping malformed pair", "pair", pair)
			continue
		}

		key := removeQuotes(pair[:colon])
		fields[key] = strings.TrimSpace(pair[colon+1:])
	}

	return fields
}

// splitPairs splits on commas that are not inside a single or double quoted
// string. A backslash before a quote keeps it from opening or closing one.
func splitPairs(s string) []string {
	var (
		pairs     []string
		current   strings.Builder
		inQuotes  bool
		quoteChar byte
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if (c == '"' || c == '\'') && (i == 0 || s[i-1] != '\\') {
			if !inQuotes {
				inQuotes = true
				quoteChar = c
			} else if c == quoteChar {
				inQuotes = false
			}
		}

		if c == ',' && !inQuotes {
			pairs = append(pairs, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}

	if current.Len() > 0 {
		pairs = append(pairs, current.String())
	}

	return pairs
}

func removeQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 &&
		((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		return s[1 : len(s)-1]
	}
	return s
}

// fieldText resolves a raw value to its text. ok is false for null.
func fieldText(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "null" {
		return "", false
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s, true
		}
	}

	return removeQuotes(raw), true
}

func stringField(key, raw string) *string {
	if trimmed := strings.TrimSpace(raw); strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		slog.Debug("ignoring non-scalar field", "field", key, "value", raw)
		return nil
	}

	text, ok := fieldText(raw)
	if !ok {
		return nil
	}

	return &text
}

func intField(key, raw string) *int {
	text, ok := fieldText(raw)
	if !ok {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		slog.Debug("ignoring invalid integer field", "field", key, "value", raw)
		return nil
	}

	return &n
}
