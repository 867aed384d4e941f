package recommender

import (
	"fmt"

	"github.com/imkonsowa/restaurants-recommender/models"
)

const (
	ReasoningSuccess      = "AI successfully generated recommendations based on your preferences."
	ReasoningUnparsable   = "AI output could not be parsed. Returning fallback restaurants."
	ReasoningServiceError = "Service error occurred. Returning fallback restaurants."
)

var fallbackSlots = []struct {
	rating      float64
	description string
}{
	{4.5, "Fallback: Great restaurant with popular dishes."},
	{4.3, "Fallback: Another excellent choice for you."},
	{4.2, "Fallback: A popular spot for locals."},
}

// FallbackRestaurants returns the fixed placeholder set used when the model
// reply cannot be used. Cuisine, location and price range come from req.
func FallbackRestaurants(req models.RecommendationRequest) []models.Restaurant {
	restaurants := make([]models.Restaurant, 0, len(fallbackSlots))
	for i, slot := range fallbackSlots {
		restaurants = append(restaurants, models.Restaurant{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("Sample Restaurant %d", i+1),
			Cuisine:     req.CuisineText(),
			Location:    req.LocationText(),
			Rating:      slot.rating,
			Description: slot.description,
			PriceRange:  req.PriceRangeText(),
		})
	}

	return restaurants
}
