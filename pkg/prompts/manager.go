package prompts

import (
	"context"
	"fmt"
	"sync"
)

// A small error helper so callers can inspect failures.

type ErrorPromptNotFound struct{ Name string }

func (e ErrorPromptNotFound) Error() string { return fmt.Sprintf("prompt not found: %s", e.Name) }

// Manager is an in-memory prompt registry keyed by prompt name. It uses a
// RWMutex so concurrent callers are fine.

type Manager struct {
	prompts map[string]*Prompt
	mu      sync.RWMutex
}

func NewManager() *Manager {
	m := &Manager{
		prompts: make(map[string]*Prompt),
	}
	m.seed()
	return m
}

// seed registers the prompts the providers rely on, so a fresh registry is
// useful out of the box.
func (m *Manager) seed() {
	extraction := &Prompt{
		Name:        FactExtractionName,
		Description: "Extracts durable memory facts from a single user message",
		Content:     factExtractionContent,
		Version:     "1.0.0",
	}
	m.prompts[extraction.Name] = extraction
}

func (m *Manager) List(ctx context.Context) ([]Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Prompt, 0, len(m.prompts))
	for _, p := range m.prompts {
		out = append(out, *p)
	}
	return out, nil
}

func (m *Manager) Get(ctx context.Context, name string) (*Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.prompts[name]
	if !ok {
		return nil, ErrorPromptNotFound{Name: name}
	}
	out := *p
	return &out, nil
}

// Register adds or replaces a prompt under its name, so deployments can swap
// in their own extraction instructions.
func (m *Manager) Register(ctx context.Context, p Prompt) (*Prompt, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("prompts: a prompt needs a name")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts[p.Name] = &p
	return &p, nil
}

var defaultManager = NewManager()

// Default returns the process-wide registry shared by providers that were not
// handed an explicit one.
func Default() *Manager { return defaultManager }
