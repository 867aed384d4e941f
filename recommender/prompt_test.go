package recommender

import (
	"context"
	"testing"

	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"I want spicy food in San Jose", "San Jose, CA", true},
		{"best dining around SAN JOSE downtown", "San Jose, CA", true},
		{"Looking for food in Palo Alto", "Palo Alto", true},
		{"a good restaurant at Union Square", "Union Square", true},
		{"restaurant in Paris at noon", "Paris at noon", true},
		{"dinner at the pier, then eat in Soma", "the pier, then eat in Soma", true},
		{"any food in LA?", "", false},
		{"food in NY", "", false},
		{"I like hiking in Denver", "", false},
		{"food please", "", false},
		{"", "", false},
		{"\u212A food in Paris \u0130\u0130", "Paris \u0130\u0130", true},
		{"\u0130stanbul FOOD at Caf\u00e9 Ren\u00e9", "Caf\u00e9 Ren\u00e9", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ExtractLocation(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContextualPrompt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		location string
		want     string
	}{
		{"annotated", "recommend something cozy", "Paris", "recommend something cozy\n\n[Context: User location is Paris]"},
		{"no food keyword", "how are you", "Paris", "how are you"},
		{"no location", "find a restaurant", "", "find a restaurant"},
		{"empty input", "", "Paris", ""},
		{"blank input", "   ", "Paris", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContextualPrompt(tt.input, tt.location))
		})
	}
}

func TestPromptBuilderBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("san jose keyword wins", func(t *testing.T) {
		store := newTestStore(t)
		builder := NewPromptBuilder(store)

		prompt, err := builder.Build(ctx, models.RecommendationRequest{UserPreference: strPtr("I want spicy food in San Jose")})
		require.NoError(t, err)
		turns := prompt.Turns

		assert.Equal(t, "San Jose, CA", store.CurrentLocation())
		require.Len(t, turns, 2)
		assert.Equal(t, models.RoleSystem, turns[0].Role)
		assert.Equal(t, models.Turn{
			Role:    models.RoleUser,
			Content: "I want spicy food in San Jose\n\n[Context: User location is San Jose, CA]",
		}, turns[1])
	})

	t.Run("explicit location overrides extracted", func(t *testing.T) {
		store := newTestStore(t)
		builder := NewPromptBuilder(store)

		_, err := builder.Build(ctx, models.RecommendationRequest{
			UserPreference: strPtr("cheap food in Paris"),
			Location:       strPtr("Tokyo"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Tokyo", store.CurrentLocation())
	})

	t.Run("blank explicit location is ignored", func(t *testing.T) {
		store := newTestStore(t)
		builder := NewPromptBuilder(store)

		_, err := builder.Build(ctx, models.RecommendationRequest{
			UserPreference: strPtr("cheap food in Paris"),
			Location:       strPtr("   "),
		})
		require.NoError(t, err)
		assert.Equal(t, "Paris", store.CurrentLocation())
	})

	t.Run("location is remembered across turns", func(t *testing.T) {
		store := newTestStore(t)
		builder := NewPromptBuilder(store)

		_, err := builder.Build(ctx, models.RecommendationRequest{UserPreference: strPtr("seafood in Boston")})
		require.NoError(t, err)

		prompt, err := builder.Build(ctx, models.RecommendationRequest{UserPreference: strPtr("recommend another one")})
		require.NoError(t, err)

		require.Len(t, prompt.Turns, 3)
		assert.Equal(t, "recommend another one\n\n[Context: User location is Boston]", prompt.Turns[2].Content)
	})

	t.Run("missing preference yields empty turn", func(t *testing.T) {
		store := newTestStore(t)
		builder := NewPromptBuilder(store)

		prompt, err := builder.Build(ctx, models.RecommendationRequest{Location: strPtr("Rome")})
		require.NoError(t, err)

		require.Len(t, prompt.Turns, 2)
		assert.Equal(t, models.Turn{Role: models.RoleUser, Content: ""}, prompt.Turns[1])
		assert.Equal(t, "Rome", store.CurrentLocation())
	})

	t.Run("generation follows resets", func(t *testing.T) {
		store := newTestStore(t)
		builder := NewPromptBuilder(store)

		first, err := builder.Build(ctx, models.RecommendationRequest{UserPreference: strPtr("hi")})
		require.NoError(t, err)

		require.NoError(t, store.Reset(ctx))

		second, err := builder.Build(ctx, models.RecommendationRequest{UserPreference: strPtr("hi")})
		require.NoError(t, err)
		assert.NotEqual(t, first.Generation, second.Generation)
	})
}
