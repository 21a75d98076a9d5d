// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
)

// mockProvider is a test double implementing the Provider interface.
// It records calls and returns configurable responses.
type mockProvider struct {
	name       string
	response   string
	err        error
	callCount  int
	lastSystem string
	lastUser   string
	lastImage  string
	mu         sync.Mutex
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	return m.response, m.err
}

func (m *mockProvider) Describe(ctx context.Context, prompt, imageDataURI string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastUser = prompt
	m.lastImage = imageDataURI
	return m.response, m.err
}

// ---------- Registry.Generate ----------

func TestRegistryGenerate(t *testing.T) {
	t.Run("delegates to active provider", func(t *testing.T) {
		mock := &mockProvider{name: "test", response: "Hello from mock"}

		reg := &Registry{
			providers: map[string]Provider{"test": mock},
			active:    "test",
		}

		result, err := reg.Generate(context.Background(), "system", "user")
		if err != nil {
			t.Fatalf("Generate: unexpected error: %v", err)
		}
		if result != "Hello from mock" {
			t.Errorf("result: got %q, want %q", result, "Hello from mock")
		}

		mock.mu.Lock()
		defer mock.mu.Unlock()
		if mock.callCount != 1 {
			t.Errorf("callCount: got %d, want 1", mock.callCount)
		}
		if mock.lastSystem != "system" {
			t.Errorf("systemPrompt: got %q, want %q", mock.lastSystem, "system")
		}
	})

	t.Run("propagates provider error", func(t *testing.T) {
		mock := &mockProvider{name: "test", err: fmt.Errorf("api failure")}

		reg := &Registry{
			providers: map[string]Provider{"test": mock},
			active:    "test",
		}

		_, err := reg.Generate(context.Background(), "system", "user")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("errors when active provider missing", func(t *testing.T) {
		reg := &Registry{providers: map[string]Provider{}, active: "nope"}

		_, err := reg.Generate(context.Background(), "system", "user")
		if err == nil {
			t.Fatal("expected error for missing provider, got nil")
		}
	})
}

// ---------- Registry.Describe ----------

func TestRegistryDescribe(t *testing.T) {
	mock := &mockProvider{name: "test", response: "a gritty industrial look"}

	reg := &Registry{
		providers: map[string]Provider{"test": mock},
		active:    "test",
	}

	result, err := reg.Describe(context.Background(), "describe", "data:image/png;base64,Zm9v")
	if err != nil {
		t.Fatalf("Describe: unexpected error: %v", err)
	}
	if result != "a gritty industrial look" {
		t.Errorf("result: got %q, want %q", result, "a gritty industrial look")
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if mock.lastImage != "data:image/png;base64,Zm9v" {
		t.Errorf("image: got %q", mock.lastImage)
	}
}

// ---------- NewRegistry ----------

func TestNewRegistrySkipsProvidersWithoutKeys(t *testing.T) {
	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai":  {APIKey: "sk-1", Model: "gpt-4o-mini"},
		"gemini":  {APIKey: "", Model: "gemini-2.0-flash"},
		"claude":  {APIKey: "sk-2", Model: "claude-sonnet-4-5"},
		"mistral": {APIKey: ""},
	})

	got := reg.Available()
	sort.Strings(got)
	want := []string{"claude", "openai"}
	if len(got) != len(want) {
		t.Fatalf("Available: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available[%d]: got %q, want %q", i, got[i], want[i])
		}
	}

	if !reg.HasProvider("claude") {
		t.Error("HasProvider(claude): got false, want true")
	}
	if reg.HasProvider("gemini") {
		t.Error("HasProvider(gemini): got true, want false")
	}
}

// ---------- SetActive ----------

func TestSetActive(t *testing.T) {
	reg := &Registry{
		providers: map[string]Provider{
			"a": &mockProvider{name: "a"},
			"b": &mockProvider{name: "b"},
		},
		active: "a",
	}

	if err := reg.SetActive("b"); err != nil {
		t.Fatalf("SetActive(b): unexpected error: %v", err)
	}
	if reg.ActiveName() != "b" {
		t.Errorf("ActiveName: got %q, want %q", reg.ActiveName(), "b")
	}

	if err := reg.SetActive("missing"); err == nil {
		t.Fatal("SetActive(missing): expected error, got nil")
	}
}

// ---------- Register ----------

func TestRegisterInjectsProvider(t *testing.T) {
	reg := NewRegistry("custom", map[string]ProviderConfig{})
	reg.Register("custom", &mockProvider{name: "custom", response: "injected"})

	result, err := reg.Generate(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if result != "injected" {
		t.Errorf("result: got %q, want %q", result, "injected")
	}
}
