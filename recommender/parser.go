package recommender

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/imkonsowa/restaurants-recommender/models"
)

const (
	DefaultName        = "Unknown"
	DefaultCuisine     = "Various"
	DefaultLocation    = "Unknown"
	DefaultRating      = 4.0
	DefaultPriceRange  = "$$"
	DefaultDescription = "Recommended by AI."
)

const fieldDelimiter = "|"

var (
	itemLine   = regexp.MustCompile(`^\d+\.`)
	itemMarker = regexp.MustCompile(`^\d+\.\s*`)
)

// StripPreamble drops everything before the first line that starts with an
// enumeration marker and trims the result. Text without such a line is only
// trimmed.
func StripPreamble(reply string) string {
	lines := strings.Split(reply, "\n")
	for i, line := range lines {
		if itemLine.MatchString(line) {
			return strings.TrimSpace(strings.Join(lines[i:], "\n"))
		}
	}

	return strings.TrimSpace(reply)
}

// ParseReply extracts one restaurant per line of the form
//
//	1. Name | Cuisine | Location | Rating | Price range | Description
//
// Lines without the leading marker are skipped. Missing, empty or
// unparsable fields fall back to their defaults; fields past the sixth are
// ignored. IDs are assigned from 1 in order of appearance.
func ParseReply(reply string) []models.Restaurant {
	restaurants := []models.Restaurant{}

	var id int64 = 1
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !itemLine.MatchString(line) {
			continue
		}

		parts := strings.Split(itemMarker.ReplaceAllString(line, ""), fieldDelimiter)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		restaurants = append(restaurants, models.Restaurant{
			ID:          id,
			Name:        field(parts, 0, DefaultName),
			Cuisine:     field(parts, 1, DefaultCuisine),
			Location:    field(parts, 2, DefaultLocation),
			Rating:      rating(parts, 3),
			PriceRange:  field(parts, 4, DefaultPriceRange),
			Description: field(parts, 5, DefaultDescription),
		})
		id++
	}

	return restaurants
}

func field(parts []string, i int, def string) string {
	if i >= len(parts) || parts[i] == "" {
		return def
	}
	return parts[i]
}

func rating(parts []string, i int) float64 {
	if i >= len(parts) {
		return DefaultRating
	}

	r, err := strconv.ParseFloat(parts[i], 64)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
		return DefaultRating
	}
	return r
}
