package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	command "github.com/goliatone/go-command"
)

func TestSchedulerRegisterRejectsInvalidInput(t *testing.T) {
	scheduler := NewScheduler()

	if err := scheduler.Register(command.HandlerConfig{}, func() error { return nil }); err == nil {
		t.Fatalf("expected error for empty expression")
	}
	if err := scheduler.Register(command.HandlerConfig{Expression: "not a cron expression"}, func() error { return nil }); err == nil {
		t.Fatalf("expected error for invalid expression")
	}
	if err := scheduler.Register(command.HandlerConfig{Expression: "@daily"}, "nope"); err == nil {
		t.Fatalf("expected error for unsupported handler")
	}
	var nilHandler func() error
	if err := scheduler.Register(command.HandlerConfig{Expression: "@daily"}, nilHandler); err == nil {
		t.Fatalf("expected error for nil handler")
	}
	if got := scheduler.Expressions(); len(got) != 0 {
		t.Fatalf("expected no registrations, got %v", got)
	}
}

func TestSchedulerRunsRegisteredHandlers(t *testing.T) {
	scheduler := NewScheduler()
	var calls atomic.Int32
	if err := scheduler.Register(command.HandlerConfig{Expression: "@every 1s"}, func() error {
		calls.Add(1)
		return errors.New("logged, not fatal")
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := scheduler.Expressions(); len(got) != 1 || got[0] != "@every 1s" {
		t.Fatalf("unexpected expressions %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls.Load() == 0 {
		t.Fatalf("expected scheduled handler to run")
	}
}
