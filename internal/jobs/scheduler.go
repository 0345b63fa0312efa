package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/robfig/cron/v3"
)

// Scheduler runs command cron handlers on a robfig/cron runner.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	logger interfaces.Logger
	jobs   []string
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used to report failed runs.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler returns an idle scheduler. Handlers run once Run is called.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:   cron.New(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register matches commands.CronRegistrar. handler must be a func() error or a func().
func (s *Scheduler) Register(cfg command.HandlerConfig, handler any) error {
	expression := strings.TrimSpace(cfg.Expression)
	if expression == "" {
		return fmt.Errorf("jobs: cron expression is required")
	}

	var run func() error
	switch fn := handler.(type) {
	case func() error:
		run = fn
	case func():
		if fn != nil {
			run = func() error { fn(); return nil }
		}
	default:
		return fmt.Errorf("jobs: unsupported cron handler %T", handler)
	}
	if run == nil {
		return fmt.Errorf("jobs: cron handler is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.cron.AddFunc(expression, func() {
		if err := run(); err != nil {
			s.logger.Error("jobs.run_failed", "expression", expression, "error", err)
		}
	}); err != nil {
		return fmt.Errorf("jobs: invalid cron expression %q: %w", expression, err)
	}
	s.jobs = append(s.jobs, expression)
	return nil
}

// Expressions lists the registered cron expressions in registration order.
func (s *Scheduler) Expressions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Run starts the runner and blocks until ctx is cancelled, then waits for
// in-flight jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}
