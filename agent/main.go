package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imkonsowa/restaurants-recommender/config"
	"github.com/imkonsowa/restaurants-recommender/recommender"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/cors"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/memory/sqlite3"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Agent struct {
	config  *config.Config
	handler *Handler
}

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, err := recommender.NewGateway(cfg.LLM)
	if err != nil {
		slog.Error("failed to create chat model client, recommendations will use fallback data", "error", err)
		gateway = recommender.NewLLMGateway(nil, cfg.LLM.Timeout)
	}

	history, closeHistory, err := newChatHistory(cfg.Conversation)
	if err != nil {
		log.Fatal(err)
	}
	defer closeHistory()

	store, err := recommender.NewStore(ctx, history,
		recommender.WithTurnLimits(cfg.Conversation.MaxTurns, cfg.Conversation.KeepTurns),
	)
	if err != nil {
		log.Fatal(err)
	}

	svc := recommender.NewService(store, gateway, recommender.CompletionOptionsFromConfig(cfg.LLM))

	pool := NewWorkerPool(ctx, cfg.Pool.Workers, cfg.Pool.QueueSize)
	slog.Info("starting worker pool", "workers", cfg.Pool.Workers, "queueSize", cfg.Pool.QueueSize)

	events := newEventPublisher(&cfg.Nats)
	defer events.Close()

	agent := &Agent{
		config:  cfg,
		handler: NewHandler(svc, pool, events, cfg.Cors.AllowedOrigins),
	}

	if err := agent.Run(ctx); err != nil {
		slog.Error("failed to run the agent", "error", err)
	}

	pool.Stop()
	pool.Wait()
	slog.Info("agent stopped")
}

func (a *Agent) Run(ctx context.Context) error {
	c := cors.New(cors.Options{
		AllowedOrigins: a.config.Cors.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:    a.config.Server.Address(),
		Handler: c.Handler(NewRouter(a.handler)),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("recommendation service listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newChatHistory keeps the conversation in memory unless a sqlite DSN is
// configured. Either way the store resets it at start-up.
func newChatHistory(cfg config.Conversation) (schema.ChatMessageHistory, func(), error) {
	if cfg.SqliteDSN == "" {
		return memory.NewChatMessageHistory(), func() {}, nil
	}

	db, err := sql.Open("sqlite3", cfg.SqliteDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open chat history db: %w", err)
	}
	// every :memory: connection is its own database
	db.SetMaxOpenConns(1)

	// without overwrite SetMessages is a no-op and trim/reset silently keep old turns
	history := sqlite3.NewSqliteChatMessageHistory(
		sqlite3.WithSession(cfg.Session),
		sqlite3.WithDB(db),
		sqlite3.WithOverwrite(),
	)
	slog.Info("chat history stored in sqlite", "dsn", cfg.SqliteDSN, "session", cfg.Session)

	return history, func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close chat history db", "error", err)
		}
	}, nil
}
