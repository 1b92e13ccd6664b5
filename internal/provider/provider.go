package provider

import (
	"context"
	"strings"

	"github.com/nubank/chat-assistant/internal"
)

// Generator produces the assistant reply for a prompt using the backend
// registered for modelID.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt, modelID string) (string, error)
}

// Resolver is the read side of the backend registry.
type Resolver interface {
	Lookup(modelID string) (string, bool)
}

// Mock answers without calling any backend, for offline development. It
// still rejects model ids the registry does not know.
type Mock struct {
	Backends Resolver
}

func (m Mock) Name() string { return "mock" }

func (m Mock) Generate(ctx context.Context, prompt, modelID string) (string, error) {
	if _, ok := m.Backends.Lookup(modelID); !ok {
		return "", internal.NewUnsupportedModelError(modelID)
	}
	last := prompt
	if i := strings.LastIndexByte(prompt, '\n'); i >= 0 {
		last = prompt[i+1:]
	}
	return "(mock " + modelID + ") " + last, nil
}
