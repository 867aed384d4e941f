package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/imkonsowa/restaurants-recommender/config"
	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/imkonsowa/restaurants-recommender/recommender"
)

// probe sends one fixed exchange to the configured chat model and prints the
// reply. It exits non-zero when the model cannot be reached.
func main() {
	cfg := config.LoadConfig()

	gateway, err := recommender.NewGateway(cfg.LLM)
	if err != nil {
		log.Fatal("failed to create chat model client:", err)
	}
	if !gateway.Available() {
		log.Fatalf("chat model credentials are not configured for provider %q", cfg.LLM.Provider)
	}

	opts := recommender.CompletionOptionsFromConfig(cfg.LLM)
	opts.TopP = 1.0

	turns := []models.Turn{
		{Role: models.RoleSystem, Content: recommender.ProbeSysPrompt},
		{Role: models.RoleUser, Content: recommender.ProbeUserPrompt},
	}

	slog.Info("probing chat model", "provider", cfg.LLM.Provider, "endpoint", cfg.LLM.Endpoint)
	reply, err := gateway.Complete(context.Background(), turns, opts)
	if err != nil {
		log.Fatal("chat model probe failed:", err)
	}

	fmt.Println(reply)
	slog.Info("probe complete", "chars", len(reply))
}
