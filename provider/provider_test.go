package provider

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/asreval/errors"
)

// testProvider implements the Provider interface for testing.
type testProvider struct {
	name      string
	available bool
}

func (p *testProvider) Name() string                       { return p.name }
func (p *testProvider) IsAvailable(_ context.Context) bool { return p.available }

func TestRegistryRegisterAndCreate(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("test", func(cfg map[string]any) (*testProvider, error) {
		return &testProvider{name: "test", available: true}, nil
	})

	p, err := reg.Create("test", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "test" || !p.IsAvailable(context.Background()) {
		t.Errorf("unexpected provider %+v", p)
	}
}

func TestRegistryCreateUnregistered(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("aws", func(map[string]any) (*testProvider, error) { return &testProvider{}, nil })

	_, err := reg.Create("missing", nil)
	if !stderrors.Is(err, errors.New(errors.ErrCodeNotFound, "")) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if got := appErr.Details["registered"].([]string); len(got) != 1 || got[0] != "aws" {
		t.Errorf("registered detail = %v", got)
	}
}

func TestRegistryCreatePassesConfig(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("cfg", func(cfg map[string]any) (*testProvider, error) {
		name, _ := cfg["name"].(string)
		if name == "" {
			return nil, stderrors.New("name required")
		}
		return &testProvider{name: name}, nil
	})

	if _, err := reg.Create("cfg", map[string]any{}); err == nil {
		t.Error("expected factory error")
	}
	p, err := reg.Create("cfg", map[string]any{"name": "x"})
	if err != nil || p.Name() != "x" {
		t.Errorf("got %v, %v", p, err)
	}
}

func TestRegistryGetOrCreateCaches(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	calls := 0
	reg.RegisterFactory("test", func(map[string]any) (*testProvider, error) {
		calls++
		return &testProvider{name: "test"}, nil
	})

	first, err := reg.GetOrCreate("test", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := reg.GetOrCreate("test", nil)
	if err != nil {
		t.Fatal(err)
	}
	if first != second || calls != 1 {
		t.Errorf("expected a single cached instance, factory called %d times", calls)
	}
}

func TestRegistryGetSet(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	if _, ok := reg.Get("x"); ok {
		t.Error("expected empty registry")
	}
	p := &testProvider{name: "x"}
	reg.Set("x", p)
	got, ok := reg.Get("x")
	if !ok || got != p {
		t.Errorf("Get after Set = %v, %v", got, ok)
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("beta", func(cfg map[string]any) (*testProvider, error) {
		return &testProvider{name: "beta"}, nil
	})
	reg.RegisterFactory("alpha", func(cfg map[string]any) (*testProvider, error) {
		return &testProvider{name: "alpha"}, nil
	})

	names := reg.List()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
	if names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("expected sorted [alpha, beta], got %v", names)
	}
}

func TestSettingsString(t *testing.T) {
	s := Settings{"url": "http://sidecar:9000", "port": 9000, "debug": true}
	tests := map[string]string{
		"url":     "http://sidecar:9000",
		"port":    "9000",
		"debug":   "true",
		"missing": "",
	}
	for key, want := range tests {
		if got := s.String(key); got != want {
			t.Errorf("String(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestSettingsDuration(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    time.Duration
		wantErr bool
	}{
		{"absent", nil, 0, false},
		{"string", "90s", 90 * time.Second, false},
		{"duration", 2 * time.Minute, 2 * time.Minute, false},
		{"int seconds", 30, 30 * time.Second, false},
		{"float seconds", 1.5, 1500 * time.Millisecond, false},
		{"bad string", "soon", 0, true},
		{"wrong type", []string{"1s"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{}
			if tt.value != nil {
				s["timeout"] = tt.value
			}
			got, err := s.Duration("timeout")
			if tt.wantErr {
				if !stderrors.Is(err, errors.New(errors.ErrCodeInvalidFormat, "")) {
					t.Fatalf("error = %v, want INVALID_FORMAT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Duration = %v, want %v", got, tt.want)
			}
		})
	}
}
