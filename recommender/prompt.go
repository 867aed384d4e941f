package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/imkonsowa/restaurants-recommender/models"
)

var (
	// foodKeywords gate location extraction from free text.
	foodKeywords = []string{"food", "restaurant", "eat", "dining", "spicy", "cuisine"}

	// contextKeywords decide whether the remembered location is attached to the turn.
	contextKeywords = []string{"restaurant", "food", "eat", "recommend"}
)

const sanJose = "San Jose, CA"

type PromptBuilder struct {
	store *Store
}

func NewPromptBuilder(store *Store) *PromptBuilder {
	return &PromptBuilder{store: store}
}

// Prompt is the conversation to send upstream together with the store
// generation it was built from.
type Prompt struct {
	Turns      []models.Turn
	Generation uint64
}

// Build updates the remembered location from req, appends the next user turn
// and returns the conversation to send upstream, all under one store lock.
func (b *PromptBuilder) Build(ctx context.Context, req models.RecommendationRequest) (Prompt, error) {
	var (
		prompt   Prompt
		location string
	)

	err := b.store.Update(ctx, func(conv *Conversation) error {
		input := req.Preference()

		if extracted, ok := ExtractLocation(input); ok {
			conv.SetLocation(extracted)
			slog.Debug("extracted user location", "location", extracted)
		}

		if explicit := strings.TrimSpace(req.LocationText()); explicit != "" {
			conv.SetLocation(explicit)
		}

		location = conv.Location()
		if err := conv.AppendUser(ContextualPrompt(input, location)); err != nil {
			return err
		}

		turns, err := conv.Turns()
		if err != nil {
			return err
		}

		prompt = Prompt{Turns: turns, Generation: conv.Generation()}
		return nil
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	slog.Debug("built prompt", "turns", len(prompt.Turns), "location", location)
	return prompt, nil
}

// ExtractLocation guesses a location from free text about food. "san jose"
// wins over anything else; otherwise the text after the first " in " or
// " at " is used, preferring " in " when it does not come after " at ".
func ExtractLocation(input string) (string, bool) {
	lower, offsets := lowerWithOffsets(input)
	if !containsAny(lower, foodKeywords) {
		return "", false
	}

	if strings.Contains(lower, "san jose") {
		return sanJose, true
	}

	inIndex := strings.Index(lower, " in ")
	atIndex := strings.Index(lower, " at ")

	var start int
	switch {
	case inIndex >= 0 && (atIndex == -1 || inIndex <= atIndex):
		start = inIndex + len(" in ")
	case atIndex >= 0:
		start = atIndex + len(" at ")
	default:
		return "", false
	}

	location := strings.TrimSpace(input[offsets[start]:])
	if utf8.RuneCountInString(location) <= 2 || strings.Contains(location, "?") {
		return "", false
	}

	return location, true
}

// ContextualPrompt is the user turn text: the raw input, plus a location note
// when one is remembered and the input asks about food.
func ContextualPrompt(input, location string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	if strings.TrimSpace(location) != "" && containsAny(strings.ToLower(input), contextKeywords) {
		return input + "\n\n[Context: User location is " + location + "]"
	}

	return input
}

// lowerWithOffsets lowercases s rune by rune and maps every byte of the
// result back to the offset in s of the rune it came from. Lowercasing can
// change byte lengths, e.g. the Kelvin sign becomes a single byte "k".
func lowerWithOffsets(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)

	for i, r := range s {
		n, _ := b.WriteRune(unicode.ToLower(r))
		for j := 0; j < n; j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))

	return b.String(), offsets
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
