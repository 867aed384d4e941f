package models

import (
	"fmt"
	"strings"
	"time"
)

// RecommendationRequest is the inbound dining request. A nil field was not
// sent; nil and empty are both treated as "not specified".
type RecommendationRequest struct {
	UserPreference *string `json:"userPreference,omitempty"`
	Location       *string `json:"location,omitempty"`
	Cuisine        *string `json:"cuisine,omitempty"`
	PriceRange     *string `json:"priceRange,omitempty"`
	NumberOfPeople *int    `json:"numberOfPeople,omitempty"`
	Occasion       *string `json:"occasion,omitempty"`
}

func (r RecommendationRequest) Preference() string {
	return deref(r.UserPreference)
}

func (r RecommendationRequest) LocationText() string {
	return deref(r.Location)
}

func (r RecommendationRequest) CuisineText() string {
	return deref(r.Cuisine)
}

func (r RecommendationRequest) PriceRangeText() string {
	return deref(r.PriceRange)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Restaurant struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Cuisine     string  `json:"cuisine"`
	Location    string  `json:"location"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	PriceRange  string  `json:"priceRange"`
}

func (r *Restaurant) Stringify() string {
	return fmt.Sprintf("%d. %s | %s | %s | %.1f | %s | %s", r.ID, r.Name, r.Cuisine, r.Location, r.Rating, r.PriceRange, r.Description)
}

type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeUnparsable   Outcome = "unparsable"
	OutcomeServiceError Outcome = "service_error"
)

type RecommendationResponse struct {
	Recommendations []Restaurant `json:"recommendations"`
	AIExplanation   string       `json:"aiExplanation"`
	Reasoning       string       `json:"reasoning"`

	Outcome Outcome `json:"-"`
}

func (r *RecommendationResponse) Stringify() string {
	var sb strings.Builder
	for _, restaurant := range r.Recommendations {
		sb.WriteString(restaurant.Stringify())
		sb.WriteString("\n")
	}
	return sb.String()
}

// RecommendationEvent is published once per served recommendation.
type RecommendationEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   Outcome   `json:"outcome"`
	Count     int       `json:"count"`
	Location  string    `json:"location,omitempty"`
}
