package kvcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-blog/internal/logging"
	goerrors "github.com/goliatone/go-errors"
)

type stubPurger struct {
	removed int
	err     error
	calls   int
}

func (s *stubPurger) PurgeExpired(ctx context.Context) (int, error) {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a bounded context")
	}
	return s.removed, s.err
}

func TestPurgeExpiredHandlerPurge(t *testing.T) {
	purger := &stubPurger{removed: 3}
	handler := NewPurgeExpiredHandler(purger, logging.NoOp())

	removed, err := handler.Purge(context.Background())
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if removed != 3 || purger.calls != 1 {
		t.Fatalf("expected 3 removed in one call, got %d after %d calls", removed, purger.calls)
	}
}

func TestPurgeExpiredHandlerWrapsErrors(t *testing.T) {
	purger := &stubPurger{err: errors.New("db down")}
	handler := NewPurgeExpiredHandler(purger, nil)

	err := handler.Execute(context.Background(), PurgeExpiredCommand{})
	if err == nil {
		t.Fatalf("expected purge error")
	}
	if !errors.Is(err, purger.err) {
		t.Fatalf("expected wrapped purger error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}

	if _, err := NewPurgeExpiredHandler(nil, nil).Purge(context.Background()); err == nil {
		t.Fatalf("expected error for nil purger")
	}
}

func TestPurgeExpiredHandlerCancelledContext(t *testing.T) {
	purger := &stubPurger{}
	handler := NewPurgeExpiredHandler(purger, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := handler.Purge(ctx); err == nil {
		t.Fatalf("expected context error")
	}
	if purger.calls != 0 {
		t.Fatalf("expected purger not to be called, got %d", purger.calls)
	}
}

func TestPurgeExpiredHandlerCronOptions(t *testing.T) {
	handler := NewPurgeExpiredHandler(&stubPurger{}, nil)
	if got := handler.CronOptions().Expression; got != DefaultPurgeExpression {
		t.Fatalf("expected default expression, got %q", got)
	}

	purger := &stubPurger{}
	handler = NewPurgeExpiredHandler(purger, nil, PurgeWithCronExpression(" @hourly "), PurgeWithCronExpression(""))
	if got := handler.CronOptions().Expression; got != "@hourly" {
		t.Fatalf("expected @hourly, got %q", got)
	}
	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("CronHandler: %v", err)
	}
	if purger.calls != 1 {
		t.Fatalf("expected cron handler to purge once, got %d", purger.calls)
	}
}
