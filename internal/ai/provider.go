// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai lets the server send a draft prompt straight to an LLM instead
// of the user pasting it into a chat window. Each provider implements the
// Provider interface, and the Registry selects the active one by name.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"lpmanager/internal/metrics"
)

// ErrNoProvider is returned when no provider is configured under the
// requested name.
var ErrNoProvider = errors.New("ai: no provider configured")

// Provider is one LLM backend that can answer a draft prompt.
type Provider interface {
	// Generate returns the model's answer to userPrompt under systemPrompt.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Name identifies the provider in logs, metrics and API responses.
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// builtin maps provider names to constructors.
var builtin = map[string]func(ProviderConfig) Provider{
	"openai":  func(c ProviderConfig) Provider { return newOpenAI(c) },
	"claude":  func(c ProviderConfig) Provider { return newClaude(c) },
	"gemini":  func(c ProviderConfig) Provider { return newGemini(c) },
	"mistral": func(c ProviderConfig) Provider { return newMistral(c) },
}

// Registry holds the configured providers and the name of the one that
// answers Generate. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry builds providers for every known name whose config carries an
// API key. When active has no key but other providers do, the
// alphabetically first of them becomes active.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{providers: make(map[string]Provider), active: active}
	for name, cfg := range configs {
		build, ok := builtin[name]
		if !ok || cfg.APIKey == "" {
			continue
		}
		r.providers[name] = build(cfg)
	}
	if _, ok := r.providers[active]; !ok {
		if names := r.Available(); len(names) > 0 {
			slog.Warn("ai provider not configured, falling back", "requested", active, "using", names[0])
			r.active = names[0]
		}
	}
	return r
}

// Generate asks the active provider and records the call.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	out, err := p.Generate(ctx, systemPrompt, userPrompt)
	metrics.ObserveGeneration(p.Name(), err)
	return out, err
}

// Active returns the provider Generate would use.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[r.active]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w for %q", ErrNoProvider, r.active)
}

// Enabled reports whether Generate can reach a provider.
func (r *Registry) Enabled() bool {
	_, err := r.Active()
	return err == nil
}

// SetActive makes name the active provider. Only configured providers can
// be selected.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("%w for %q", ErrNoProvider, name)
	}
	r.active = name
	return nil
}

func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Available lists the configured provider names in sorted order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds p under name, replacing any provider of that name.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}
