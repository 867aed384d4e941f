package recommender

import (
	"testing"

	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReplyDefaultsMissingFields(t *testing.T) {
	reply := "1. Szechuan House | Sichuan | San Jose | 4.6 | $$ | Spicy favorites\n2. Bad Line Missing Fields"

	got := ParseReply(reply)

	require.Len(t, got, 2)
	assert.Equal(t, models.Restaurant{
		ID:          1,
		Name:        "Szechuan House",
		Cuisine:     "Sichuan",
		Location:    "San Jose",
		Rating:      4.6,
		PriceRange:  "$$",
		Description: "Spicy favorites",
	}, got[0])
	assert.Equal(t, models.Restaurant{
		ID:          2,
		Name:        "Bad Line Missing Fields",
		Cuisine:     "Various",
		Location:    "Unknown",
		Rating:      4.0,
		PriceRange:  "$$",
		Description: "Recommended by AI.",
	}, got[1])
}

func TestParseReplyWithoutQualifyingLines(t *testing.T) {
	for _, reply := range []string{
		"",
		"I'd be happy to help! Where are you located?",
		"- Szechuan House | Sichuan\n* Other | Thai",
		"  1. indented lines do not count",
	} {
		got := ParseReply(reply)

		assert.NotNil(t, got, reply)
		assert.Empty(t, got, reply)
	}
}

func TestParseReplySkipsNonQualifyingLines(t *testing.T) {
	reply := "1. First | Thai\r\n" +
		"Some commentary in between\r\n" +
		"\r\n" +
		"12. Second|Mexican|Oakland|4.1|$|Tacos\r\n" +
		"3.Third | | | not-a-rating | | \r\n" +
		"4. Fourth | Greek | SF | NaN | $$$ | Gyros | extra | fields"

	got := ParseReply(reply)
	require.Len(t, got, 4)

	for i, r := range got {
		assert.Equal(t, int64(i+1), r.ID)
	}

	assert.Equal(t, "First", got[0].Name)
	assert.Equal(t, "Thai", got[0].Cuisine)

	assert.Equal(t, "Second", got[1].Name)
	assert.Equal(t, 4.1, got[1].Rating)
	assert.Equal(t, "Tacos", got[1].Description)

	assert.Equal(t, models.Restaurant{
		ID:          3,
		Name:        "Third",
		Cuisine:     DefaultCuisine,
		Location:    DefaultLocation,
		Rating:      DefaultRating,
		PriceRange:  DefaultPriceRange,
		Description: DefaultDescription,
	}, got[2])

	assert.Equal(t, DefaultRating, got[3].Rating)
	assert.Equal(t, "Gyros", got[3].Description)
}

func TestParseReplyEmptyName(t *testing.T) {
	got := ParseReply("1. | Sichuan | San Jose")

	require.Len(t, got, 1)
	assert.Equal(t, DefaultName, got[0].Name)
	assert.Equal(t, "Sichuan", got[0].Cuisine)
}

func TestStripPreamble(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "drops commentary before first item",
			reply: "Sure! Here are a few options:\n\n1. A | Thai\n2. B | Thai\n\nEnjoy!",
			want:  "1. A | Thai\n2. B | Thai\n\nEnjoy!",
		},
		{
			name:  "no items keeps the whole reply",
			reply: "  Where would you like to eat?  \n",
			want:  "Where would you like to eat?",
		},
		{
			name:  "first item need not be number one",
			reply: "Intro\n3. C | Thai",
			want:  "3. C | Thai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripPreamble(tt.reply))
		})
	}
}
