package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/imkonsowa/restaurants-recommender/config"
	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/nats-io/nats.go"
)

type EventPublisher interface {
	Publish(ctx context.Context, event models.RecommendationEvent) error
	Close()
}

type NatsPublisher struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	subject string
}

func NewNatsPublisher(cfg *config.Nats) (*NatsPublisher, error) {
	nc, err := nats.Connect(cfg.ConnStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get jetstream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  []string{cfg.Subject},
		Storage:   nats.FileStorage,
		Retention: nats.LimitsPolicy,
		MaxAge:    time.Hour * 24 * 7,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &NatsPublisher{conn: nc, js: js, subject: cfg.Subject}, nil
}

func (p *NatsPublisher) Publish(_ context.Context, event models.RecommendationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.PublishAsync(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (p *NatsPublisher) Close() {
	select {
	case <-p.js.PublishAsyncComplete():
	case <-time.After(5 * time.Second):
		slog.Warn("timed out waiting for pending event acks")
	}

	p.conn.Close()
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.RecommendationEvent) error { return nil }

func (noopPublisher) Close() {}

// newEventPublisher never fails: without a reachable nats server events are
// dropped and the service keeps serving.
func newEventPublisher(cfg *config.Nats) EventPublisher {
	if !cfg.Enabled() {
		return noopPublisher{}
	}

	publisher, err := NewNatsPublisher(cfg)
	if err != nil {
		slog.Warn("recommendation events disabled", "nats", cfg.ConnStr(), "error", err)
		return noopPublisher{}
	}

	slog.Info("publishing recommendation events", "stream", cfg.Stream, "subject", cfg.Subject)
	return publisher
}
