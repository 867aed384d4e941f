package recommender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/imkonsowa/restaurants-recommender/models"
)

// Service runs a request through prompt building, the chat model and reply
// parsing. It never fails a recommendation: every error ends in fallback data.
type Service struct {
	store   *Store
	prompts *PromptBuilder
	gateway CompletionGateway
	options CompletionOptions
}

func NewService(store *Store, gateway CompletionGateway, options CompletionOptions) *Service {
	return &Service{
		store:   store,
		prompts: NewPromptBuilder(store),
		gateway: gateway,
		options: options,
	}
}

func (s *Service) Recommend(ctx context.Context, req models.RecommendationRequest) (resp models.RecommendationResponse) {
	requestID := uuid.NewString()
	logger := slog.With("request_id", requestID)
	logger.Info("processing recommendation request", "location", req.LocationText(), "cuisine", req.CuisineText())

	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered from panic in recommendation pipeline", "panic", r)
			resp = fallbackResponse(req, "", ReasoningServiceError, models.OutcomeServiceError)
		}
	}()

	reply, err := s.Complete(ctx, req)
	if err != nil {
		if IsUpstreamFailure(err) {
			logger.Warn("chat model unavailable, using fallback restaurants", "error", err)
		} else {
			logger.Error("failed to get recommendation from chat model", "error", err)
		}
		return fallbackResponse(req, "", ReasoningServiceError, models.OutcomeServiceError)
	}

	explanation := StripPreamble(reply)
	restaurants := ParseReply(explanation)
	if len(restaurants) == 0 {
		logger.Warn("chat model reply could not be parsed, using fallback restaurants")
		return fallbackResponse(req, explanation, ReasoningUnparsable, models.OutcomeUnparsable)
	}

	logger.Info("parsed restaurants from chat model reply", "count", len(restaurants))
	return models.RecommendationResponse{
		Recommendations: restaurants,
		AIExplanation:   explanation,
		Reasoning:       ReasoningSuccess,
		Outcome:         models.OutcomeSuccess,
	}
}

// Complete records the request in the conversation, asks the chat model and
// records its reply unless the conversation was reset in the meantime. The
// raw reply is returned either way.
func (s *Service) Complete(ctx context.Context, req models.RecommendationRequest) (string, error) {
	if !s.gateway.Available() {
		return "", ErrUpstreamUnavailable
	}

	prompt, err := s.prompts.Build(ctx, req)
	if err != nil {
		return "", err
	}

	reply, err := s.gateway.Complete(ctx, prompt.Turns, s.options)
	if err != nil {
		return "", err
	}

	recorded, err := s.store.AppendReply(ctx, prompt.Generation, reply)
	if err != nil {
		return "", fmt.Errorf("failed to record assistant reply: %w", err)
	}
	if !recorded {
		slog.Info("conversation was reset while waiting for the chat model, reply not recorded")
	}

	return reply, nil
}

func (s *Service) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

func (s *Service) CurrentLocation() string {
	return s.store.CurrentLocation()
}

func (s *Service) Available() bool {
	return s.gateway.Available()
}

func fallbackResponse(req models.RecommendationRequest, explanation, reasoning string, outcome models.Outcome) models.RecommendationResponse {
	return models.RecommendationResponse{
		Recommendations: FallbackRestaurants(req),
		AIExplanation:   explanation,
		Reasoning:       reasoning,
		Outcome:         outcome,
	}
}

// IsUpstreamFailure reports whether err came from the chat model boundary.
func IsUpstreamFailure(err error) bool {
	var upstream *UpstreamError
	return errors.Is(err, ErrUpstreamUnavailable) || errors.As(err, &upstream)
}

// CannedRequest is the fixed request used to check the pipeline end to end.
func CannedRequest() models.RecommendationRequest {
	preference := "Likes Chinese cuisine"
	location := "Beijing"
	cuisine := "Sichuan"
	priceRange := "Medium"
	people := 2
	occasion := "Friends gathering"

	return models.RecommendationRequest{
		UserPreference: &preference,
		Location:       &location,
		Cuisine:        &cuisine,
		PriceRange:     &priceRange,
		NumberOfPeople: &people,
		Occasion:       &occasion,
	}
}
