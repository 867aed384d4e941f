package recommender

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/imkonsowa/restaurants-recommender/models"
)

// EncodeResponse writes resp as JSON with the fields in declaration order.
// HTML characters are left as-is; only what JSON requires is escaped.
func EncodeResponse(w io.Writer, resp models.RecommendationResponse) error {
	if resp.Recommendations == nil {
		resp.Recommendations = []models.Restaurant{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return nil
}

func DecodeResponse(r io.Reader) (models.RecommendationResponse, error) {
	var resp models.RecommendationResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.Recommendations == nil {
		resp.Recommendations = []models.Restaurant{}
	}

	return resp, nil
}
