package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"
)

const (
	DefaultMaxTurns  = 20
	DefaultKeepTurns = 15
)

// Store holds the conversation sent upstream and the remembered location.
// All access goes through one mutex, so a reset is never observed half done.
//
// The first turn is always the system persona. Once the turn count exceeds
// maxTurns, only the system turn and the keepTurns most recent turns are kept.
type Store struct {
	mu        sync.Mutex
	history   schema.ChatMessageHistory
	persona   string
	maxTurns  int
	keepTurns int
	location  string

	// generation changes on every reset so replies to a discarded
	// conversation can be recognized
	generation uint64
}

type StoreOption func(*Store)

func WithPersona(persona string) StoreOption {
	return func(s *Store) {
		s.persona = persona
	}
}

func WithTurnLimits(maxTurns, keepTurns int) StoreOption {
	return func(s *Store) {
		s.maxTurns = maxTurns
		s.keepTurns = keepTurns
	}
}

// NewStore wraps history, which defaults to an in-memory history, and resets
// it so the store always starts from a single system turn.
func NewStore(ctx context.Context, history schema.ChatMessageHistory, opts ...StoreOption) (*Store, error) {
	if history == nil {
		history = memory.NewChatMessageHistory()
	}

	s := &Store{
		history:   history,
		persona:   PersonaSysPrompt,
		maxTurns:  DefaultMaxTurns,
		keepTurns: DefaultKeepTurns,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.maxTurns < 2 {
		s.maxTurns = DefaultMaxTurns
	}
	if s.keepTurns < 1 || s.keepTurns >= s.maxTurns {
		s.keepTurns = s.maxTurns - 1
	}

	if err := s.Reset(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Conversation is the store as seen from inside Update.
type Conversation struct {
	ctx   context.Context
	store *Store
}

// Update runs fn with exclusive access to the store. Changes made by fn are
// not rolled back if it returns an error.
func (s *Store) Update(ctx context.Context, fn func(conv *Conversation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(&Conversation{ctx: ctx, store: s})
}

func (c *Conversation) AppendUser(text string) error {
	return c.append(llms.HumanChatMessage{Content: text})
}

func (c *Conversation) AppendAssistant(text string) error {
	return c.append(llms.AIChatMessage{Content: text})
}

func (c *Conversation) Location() string {
	return c.store.location
}

func (c *Conversation) SetLocation(location string) {
	c.store.location = location
}

func (c *Conversation) Generation() uint64 {
	return c.store.generation
}

func (c *Conversation) Turns() ([]models.Turn, error) {
	messages, err := c.store.history.Messages(c.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation history: %w", err)
	}

	turns := make([]models.Turn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, models.Turn{
			Role:    roleOf(msg.GetType()),
			Content: msg.GetContent(),
		})
	}

	return turns, nil
}

func (c *Conversation) append(msg llms.ChatMessage) error {
	if err := c.store.history.AddMessage(c.ctx, msg); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}

	return c.store.trim(c.ctx)
}

func (s *Store) trim(ctx context.Context) error {
	messages, err := s.history.Messages(ctx)
	if err != nil {
		return fmt.Errorf("failed to read conversation history: %w", err)
	}
	if len(messages) <= s.maxTurns {
		return nil
	}

	trimmed := make([]llms.ChatMessage, 0, s.keepTurns+1)
	trimmed = append(trimmed, messages[0])
	trimmed = append(trimmed, messages[len(messages)-s.keepTurns:]...)

	if err := s.history.SetMessages(ctx, trimmed); err != nil {
		return fmt.Errorf("failed to trim conversation history: %w", err)
	}

	slog.Debug("trimmed conversation history", "from", len(messages), "to", len(trimmed))
	return nil
}

func (s *Store) AppendUser(ctx context.Context, text string) error {
	return s.Update(ctx, func(conv *Conversation) error {
		return conv.AppendUser(text)
	})
}

func (s *Store) AppendAssistant(ctx context.Context, text string) error {
	return s.Update(ctx, func(conv *Conversation) error {
		return conv.AppendAssistant(text)
	})
}

// AppendReply records an assistant reply only if the store has not been reset
// since generation was read. It reports whether the reply was recorded.
func (s *Store) AppendReply(ctx context.Context, generation uint64, text string) (bool, error) {
	var recorded bool
	err := s.Update(ctx, func(conv *Conversation) error {
		if conv.Generation() != generation {
			return nil
		}

		recorded = true
		return conv.AppendAssistant(text)
	})

	return recorded, err
}

func (s *Store) CurrentLocation() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.location
}

func (s *Store) SetLocation(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.location = location
}

func (s *Store) Turns(ctx context.Context) ([]models.Turn, error) {
	var turns []models.Turn
	err := s.Update(ctx, func(conv *Conversation) error {
		var err error
		turns, err = conv.Turns()
		return err
	})

	return turns, err
}

// Reset drops every turn and the remembered location, leaving only a fresh
// system turn.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	system := []llms.ChatMessage{llms.SystemChatMessage{Content: s.persona}}
	if err := s.history.SetMessages(ctx, system); err != nil {
		return fmt.Errorf("failed to reset conversation history: %w", err)
	}
	s.location = ""
	s.generation++

	slog.Info("conversation history has been reset")
	return nil
}

func roleOf(t llms.ChatMessageType) models.Role {
	switch t {
	case llms.ChatMessageTypeSystem:
		return models.RoleSystem
	case llms.ChatMessageTypeAI:
		return models.RoleAssistant
	default:
		return models.RoleUser
	}
}

func messageType(role models.Role) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
