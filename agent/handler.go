package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/imkonsowa/restaurants-recommender/recommender"
)

var errCompletionAborted = errors.New("completion aborted before returning a reply")

const (
	healthMessage   = "Restaurant Recommendation Service is running!"
	resetMessage    = "Conversation history has been reset, location information cleared."
	notAllowedError = "Method not allowed"
)

type Recommender interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) models.RecommendationResponse
	Complete(ctx context.Context, req models.RecommendationRequest) (string, error)
	Reset(ctx context.Context) error
	CurrentLocation() string
}

type Handler struct {
	svc      Recommender
	pool     *WorkerPool
	events   EventPublisher
	upgrader websocket.Upgrader
}

func NewHandler(svc Recommender, pool *WorkerPool, events EventPublisher, allowedOrigins []string) *Handler {
	if events == nil {
		events = noopPublisher{}
	}

	return &Handler{
		svc:    svc,
		pool:   pool,
		events: events,
		upgrader: websocket.Upgrader{
			CheckOrigin: originAllowed(allowedOrigins),
		},
	}
}

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, notAllowedError)
	})

	api := r.Group("/api/recommendations")
	api.POST("", h.Recommend)
	api.GET("/health", h.Health)
	api.POST("/reset", h.Reset)
	api.GET("/test-openai", h.TestCompletion)
	api.POST("/test-openai", h.TestCompletion)
	api.GET("/ws", h.Chat)

	return r
}

func (h *Handler) Recommend(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		slog.Error("failed to read request body", "error", err)
		c.String(http.StatusInternalServerError, "Error processing request: %s", err.Error())
		return
	}

	payload, err := h.recommend(c.Request.Context(), body)
	if err != nil {
		slog.Error("failed to process recommendation request", "error", err)
		c.String(http.StatusInternalServerError, "Error processing request: %s", err.Error())
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, healthMessage)
}

func (h *Handler) Reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context()); err != nil {
		slog.Error("failed to reset conversation", "error", err)
		c.String(http.StatusInternalServerError, "Reset failed: %s", err.Error())
		return
	}

	c.String(http.StatusOK, resetMessage)
}

// TestCompletion pushes a canned request through prompt building and the
// chat model and returns the raw reply.
func (h *Handler) TestCompletion(c *gin.Context) {
	type completion struct {
		reply string
		err   error
	}

	// the worker may still be running when Do gives up on a cancelled
	// request, so results only travel over the channel
	results := make(chan completion, 1)
	err := h.pool.Do(c.Request.Context(), func(ctx context.Context) {
		reply, err := h.svc.Complete(ctx, recommender.CannedRequest())
		results <- completion{reply: reply, err: err}
	})

	var reply string
	if err == nil {
		select {
		case res := <-results:
			reply, err = res.reply, res.err
		default:
			err = errCompletionAborted
		}
	}
	if err != nil {
		slog.Error("chat model test failed", "error", err)
		c.String(http.StatusInternalServerError, "OpenAI API test failed:\n%s", err.Error())
		return
	}

	c.String(http.StatusOK, "OpenAI API test successful!\n\nRecommendation result:\n%s", reply)
}

// Chat serves the same pipeline over a websocket: every text frame is a
// request body and is answered with one response frame.
func (h *Handler) Chat(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade ws connection", "error", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	for {
		_, body, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ws connection closed", "error", err)
			}
			return
		}

		payload, err := h.recommend(ctx, body)
		if err != nil {
			slog.Error("failed to process ws recommendation request", "error", err)
			payload = []byte(fmt.Sprintf("Error processing request: %s", err.Error()))
		}

		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Error("failed to write to ws connection", "error", err)
			return
		}
	}
}

func (h *Handler) recommend(ctx context.Context, body []byte) ([]byte, error) {
	req := recommender.DecodeRequest(body)

	var resp models.RecommendationResponse
	if err := h.pool.Do(ctx, func(ctx context.Context) {
		resp = h.svc.Recommend(ctx, req)
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule recommendation: %w", err)
	}

	var buf bytes.Buffer
	if err := recommender.EncodeResponse(&buf, resp); err != nil {
		return nil, err
	}

	h.publish(ctx, resp)

	return buf.Bytes(), nil
}

func (h *Handler) publish(ctx context.Context, resp models.RecommendationResponse) {
	event := models.RecommendationEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Outcome:   resp.Outcome,
		Count:     len(resp.Recommendations),
		Location:  h.svc.CurrentLocation(),
	}

	if err := h.events.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish recommendation event", "id", event.ID, "error", err)
	}
}

func originAllowed(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}
