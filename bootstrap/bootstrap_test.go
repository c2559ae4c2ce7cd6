package bootstrap

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/asreval/config"
	"github.com/kbukum/asreval/logger"
)

type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func quietLogger() *logger.Logger {
	cfg := logger.Config{Level: "error", Format: "json", Writer: &bytes.Buffer{}}
	cfg.ApplyDefaults()
	return logger.New(&cfg, "test")
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Cfg.Name != "test-svc" {
		t.Errorf("expected cfg.Name 'test-svc', got %q", app.Cfg.Name)
	}
	if app.Summary == nil {
		t.Error("expected non-nil summary")
	}
}

func TestNewApp_AppliesDefaults(t *testing.T) {
	cfg := &testConfig{}
	app, err := NewApp(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "asreval" {
		t.Errorf("expected default name, got %q", app.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected default environment, got %q", cfg.Environment)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := newTestConfig("svc", "1")
	cfg.Environment = "moon"
	if _, err := NewApp(cfg, WithLogger(quietLogger())); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunTask_HookOrder(t *testing.T) {
	app, err := NewApp(newTestConfig("svc", "1"), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	var order []string
	record := func(name string) Hook {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	app.OnStart(record("start1"), record("start2"))
	app.OnStop(record("stop1"), record("stop2"))

	err = app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	want := []string{"start1", "start2", "task", "stop2", "stop1"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestRunTask_Errors(t *testing.T) {
	taskErr := stderrors.New("task failed")
	stopErr := stderrors.New("stop failed")

	tests := []struct {
		name     string
		startErr error
		task     error
		stop     error
		want     error
		wantTask bool
	}{
		{name: "task error", task: taskErr, want: taskErr, wantTask: true},
		{name: "task error wins over stop error", task: taskErr, stop: stopErr, want: taskErr, wantTask: true},
		{name: "stop error", stop: stopErr, want: stopErr, wantTask: true},
		{name: "start error skips task", startErr: stopErr, want: stopErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := NewApp(newTestConfig("svc", "1"), WithLogger(quietLogger()))
			if err != nil {
				t.Fatal(err)
			}
			stopped := false
			app.OnStart(func(context.Context) error { return tt.startErr })
			app.OnStop(func(context.Context) error {
				stopped = true
				return tt.stop
			})
			ran := false
			err = app.RunTask(context.Background(), func(context.Context) error {
				ran = true
				return tt.task
			})
			if !stderrors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if ran != tt.wantTask {
				t.Errorf("task ran = %v, want %v", ran, tt.wantTask)
			}
			if !stopped {
				t.Error("stop hooks did not run")
			}
		})
	}
}

func TestRunTask_ParentCancel(t *testing.T) {
	app, err := NewApp(newTestConfig("svc", "1"), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = app.RunTask(ctx, func(ctx context.Context) error {
		return ctx.Err()
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunTask_StopHooksRunOnce(t *testing.T) {
	app, err := NewApp(newTestConfig("svc", "1"), WithLogger(quietLogger()), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	app.OnStop(func(context.Context) error {
		calls++
		return nil
	})
	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if err := app.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("stop hook ran %d times, want 1", calls)
	}
}

func TestSummary_Write(t *testing.T) {
	var buf bytes.Buffer
	app, err := NewApp(newTestConfig("asreval", "v1.2.0"), WithLogger(quietLogger()), WithSummary(&buf))
	if err != nil {
		t.Fatal(err)
	}
	app.Summary.TrackInfrastructure("storage", "local", "./data", true)
	app.Summary.TrackInfrastructure("transcription", "whisper", "http://localhost:8387", false)
	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"asreval v1.2.0 ready",
		"├── ✅ storage [local]: ./data",
		"└── ❌ transcription [whisper]: http://localhost:8387",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	s := NewSummary("asreval", "")
	s.Write(&buf)
	if !strings.Contains(buf.String(), "asreval dev") || !strings.Contains(buf.String(), "No backends") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
	if len(s.Infrastructure()) != 0 {
		t.Error("expected no infrastructure")
	}
}
