package recommender

import (
	"testing"

	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackRestaurants(t *testing.T) {
	req := models.RecommendationRequest{
		Cuisine:    strPtr("Sichuan"),
		Location:   strPtr("Beijing"),
		PriceRange: strPtr("Medium"),
	}

	got := FallbackRestaurants(req)

	require.Len(t, got, 3)
	wantRatings := []float64{4.5, 4.3, 4.2}
	wantNames := []string{"Sample Restaurant 1", "Sample Restaurant 2", "Sample Restaurant 3"}
	for i, r := range got {
		assert.Equal(t, int64(i+1), r.ID)
		assert.Equal(t, wantNames[i], r.Name)
		assert.Equal(t, wantRatings[i], r.Rating)
		assert.Equal(t, "Sichuan", r.Cuisine)
		assert.Equal(t, "Beijing", r.Location)
		assert.Equal(t, "Medium", r.PriceRange)
		assert.NotEmpty(t, r.Description)
	}
	assert.Equal(t, "Fallback: Great restaurant with popular dishes.", got[0].Description)
}

func TestFallbackRestaurantsUnsetFields(t *testing.T) {
	got := FallbackRestaurants(models.RecommendationRequest{})

	require.Len(t, got, 3)
	for _, r := range got {
		assert.Empty(t, r.Cuisine)
		assert.Empty(t, r.Location)
		assert.Empty(t, r.PriceRange)
	}
	assert.Equal(t, FallbackRestaurants(models.RecommendationRequest{}), got)
}
