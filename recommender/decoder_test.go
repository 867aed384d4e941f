package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequestStrictJSON(t *testing.T) {
	payload := `{
		"userPreference": "Spicy food, nothing too pricey",
		"location": "San Jose",
		"cuisine": "Sichuan",
		"priceRange": "$$",
		"numberOfPeople": 4,
		"occasion": "Birthday"
	}`

	req := DecodeRequest([]byte(payload))

	require.NotNil(t, req.UserPreference)
	assert.Equal(t, "Spicy food, nothing too pricey", *req.UserPreference)
	assert.Equal(t, "San Jose", req.LocationText())
	assert.Equal(t, "Sichuan", req.CuisineText())
	assert.Equal(t, "$$", req.PriceRangeText())
	require.NotNil(t, req.NumberOfPeople)
	assert.Equal(t, 4, *req.NumberOfPeople)
	require.NotNil(t, req.Occasion)
	assert.Equal(t, "Birthday", *req.Occasion)
}

func TestDecodeRequestNumberOfPeople(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *int
	}{
		{"not a number", `{"numberOfPeople": "abc"}`, nil},
		{"quoted number", `{"numberOfPeople": "3"}`, intPtr(3)},
		{"bare number", `{"numberOfPeople": 2}`, intPtr(2)},
		{"zero", `{"numberOfPeople": 0}`, intPtr(0)},
		{"negative", `{"numberOfPeople": -1}`, nil},
		{"fraction", `{"numberOfPeople": 2.5}`, nil},
		{"null", `{"numberOfPeople": null}`, nil},
		{"scanner path", `{numberOfPeople: 6, cuisine: 'Thai'}`, intPtr(6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DecodeRequest([]byte(tt.payload))
			assert.Equal(t, tt.want, req.NumberOfPeople)
		})
	}
}

func TestDecodeRequestLenientPayloads(t *testing.T) {
	t.Run("single quotes with comma inside value", func(t *testing.T) {
		req := DecodeRequest([]byte(`{'userPreference': 'spicy, cheap food', 'location': 'San Jose'}`))

		assert.Equal(t, "spicy, cheap food", req.Preference())
		assert.Equal(t, "San Jose", req.LocationText())
	})

	t.Run("unquoted keys and padding", func(t *testing.T) {
		req := DecodeRequest([]byte("   { cuisine : Thai ,  priceRange: \"$$$\" }  \n"))

		assert.Equal(t, "Thai", req.CuisineText())
		assert.Equal(t, "$$$", req.PriceRangeText())
		assert.Nil(t, req.UserPreference)
	})

	t.Run("mixed quotes", func(t *testing.T) {
		req := DecodeRequest([]byte(`{"occasion": 'date night, quiet', 'cuisine': "Italian"`))

		require.NotNil(t, req.Occasion)
		assert.Equal(t, "date night, quiet", *req.Occasion)
		assert.Equal(t, "Italian", req.CuisineText())
	})

	t.Run("escaped quotes in json", func(t *testing.T) {
		req := DecodeRequest([]byte(`{"userPreference": "a place called \"Joe's\", please"}`))

		assert.Equal(t, `a place called "Joe's", please`, req.Preference())
	})

	t.Run("unknown keys and null values", func(t *testing.T) {
		req := DecodeRequest([]byte(`{"mood": "hungry", "location": null, "cuisine": ["a", "b"]}`))

		assert.Nil(t, req.Location)
		assert.Nil(t, req.Cuisine)
	})

	t.Run("empty string is kept distinct from absent", func(t *testing.T) {
		req := DecodeRequest([]byte(`{"location": ""}`))

		require.NotNil(t, req.Location)
		assert.Equal(t, "", *req.Location)
		assert.Nil(t, req.Cuisine)
	})
}

func TestDecodeRequestUnusablePayloads(t *testing.T) {
	for _, payload := range []string{"", "   ", "not json at all", "{}", "{,,,}", "[1,2,3]"} {
		req := DecodeRequest([]byte(payload))

		assert.Nil(t, req.UserPreference, payload)
		assert.Nil(t, req.Location, payload)
		assert.Nil(t, req.Cuisine, payload)
		assert.Nil(t, req.PriceRange, payload)
		assert.Nil(t, req.NumberOfPeople, payload)
		assert.Nil(t, req.Occasion, payload)
	}
}

func TestSplitPairs(t *testing.T) {
	pairs := splitPairs(`"a": "x, y", 'b': 'it\'s, fine', c: 3`)

	require.Len(t, pairs, 3)
	assert.Equal(t, `"a": "x, y"`, pairs[0])
	assert.Equal(t, ` 'b': 'it\'s, fine'`, pairs[1])
	assert.Equal(t, ` c: 3`, pairs[2])
}

func intPtr(n int) *int {
	return &n
}
