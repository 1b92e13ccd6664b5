// Package chat runs chat turns: it records the user's message, sends the
// whole transcript to the selected backend and records the reply.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nubank/chat-assistant/internal"
	"github.com/nubank/chat-assistant/internal/provider"
	"github.com/nubank/chat-assistant/internal/store"
)

const DefaultModel = "model_a"

// Turn is one inbound chat message.
type Turn struct {
	UserID  string
	Message string
	// Theme is accepted for compatibility; it does not change the prompt.
	Theme string
	// Model is nil when the client did not choose one. A non-nil value is
	// looked up as given, empty string included.
	Model *string
}

type Service struct {
	conversations *store.Conversations
	generator     provider.Generator
	defaultModel  string
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(conversations *store.Conversations, generator provider.Generator, defaultModel string, logger *slog.Logger) *Service {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		conversations: conversations,
		generator:     generator,
		defaultModel:  defaultModel,
		logger:        logger,
		now:           time.Now,
	}
}

// Handle runs one turn and returns the assistant reply.
//
// The user's message stays in the history even when the backend call fails;
// only successful turns append an assistant entry.
func (s *Service) Handle(ctx context.Context, t Turn) (string, error) {
	model := s.defaultModel
	if t.Model != nil {
		model = *t.Model
	}

	unlock := s.conversations.Lock(t.UserID)
	defer unlock()

	s.conversations.Append(t.UserID, internal.Message{
		Role:      internal.RoleUser,
		Content:   t.Message,
		CreatedAt: s.now(),
	})

	history := s.conversations.Snapshot(t.UserID)
	prompt := BuildPrompt(history)

	log := s.logger.With("user_id", t.UserID, "model", model)
	log.Debug("dispatching chat turn", "entries", len(history), "prompt_bytes", len(prompt), "theme", t.Theme)

	reply, err := s.generator.Generate(ctx, prompt, model)
	if err != nil {
		err = wrap(err)
		log.Error("chat turn failed", "error", err)
		return "", err
	}

	s.conversations.Append(t.UserID, internal.Message{
		Role:      internal.RoleAssistant,
		Content:   reply,
		CreatedAt: s.now(),
	})
	log.Info("chat turn completed", "entries", len(history)+1)
	return reply, nil
}

// History returns a copy of the user's transcript.
func (s *Service) History(userID string) []internal.Message {
	return s.conversations.Snapshot(userID)
}

// DefaultModelID is the model used when a turn names none.
func (s *Service) DefaultModelID() string { return s.defaultModel }

// BuildPrompt joins the content of every entry, oldest first, one per line.
func BuildPrompt(history []internal.Message) string {
	var b strings.Builder
	for i, m := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Content)
	}
	return b.String()
}

func wrap(err error) error {
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return internal.NewInternalError(err)
}
