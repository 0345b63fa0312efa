package kvcmd

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const purgeExpiredMessageType = "blog.kv.purge_expired"

// DefaultPurgeExpression runs the expiry purge every five minutes.
const DefaultPurgeExpression = "@every 5m"

// PurgeExpiredCommand removes expired verification codes and sessions.
type PurgeExpiredCommand struct{}

// Type implements command.Message.
func (PurgeExpiredCommand) Type() string { return purgeExpiredMessageType }

// Validate satisfies command.Message.
func (PurgeExpiredCommand) Validate() error {
	return validation.ValidateStruct(&PurgeExpiredCommand{})
}

type purgeHandlerConfig struct {
	cronConfig command.HandlerConfig
	timeout    time.Duration
	now        func() time.Time
}

// PurgeHandlerOption customises the purge handler.
type PurgeHandlerOption func(*purgeHandlerConfig)

// PurgeWithCronExpression overrides the cron expression for the purge handler.
func PurgeWithCronExpression(expression string) PurgeHandlerOption {
	return func(cfg *purgeHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// PurgeWithTimeout bounds a single purge run.
func PurgeWithTimeout(timeout time.Duration) PurgeHandlerOption {
	return func(cfg *purgeHandlerConfig) {
		cfg.timeout = timeout
	}
}

// PurgeWithClock overrides the clock used to time purge runs.
func PurgeWithClock(clock func() time.Time) PurgeHandlerOption {
	return func(cfg *purgeHandlerConfig) {
		if clock != nil {
			cfg.now = clock
		}
	}
}

// PurgeExpiredHandler deletes expired KV entries through the supplied purger.
type PurgeExpiredHandler struct {
	purger     interfaces.KVPurger
	logger     interfaces.Logger
	cronConfig command.HandlerConfig
	timeout    time.Duration
	now        func() time.Time
}

// NewPurgeExpiredHandler constructs a handler that delegates to purger.
func NewPurgeExpiredHandler(purger interfaces.KVPurger, logger interfaces.Logger, opts ...PurgeHandlerOption) *PurgeExpiredHandler {
	cfg := purgeHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: DefaultPurgeExpression,
		},
		timeout: commands.DefaultCommandTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &PurgeExpiredHandler{
		purger:     purger,
		logger:     commands.EnsureLogger(logger),
		cronConfig: cfg.cronConfig,
		timeout:    cfg.timeout,
		now:        cfg.now,
	}
}

// Execute satisfies command.Commander[PurgeExpiredCommand].
func (h *PurgeExpiredHandler) Execute(ctx context.Context, msg PurgeExpiredCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	_, err := h.Purge(ctx)
	return err
}

// Purge runs one purge and returns the number of removed entries.
func (h *PurgeExpiredHandler) Purge(ctx context.Context) (int, error) {
	if h.purger == nil {
		return 0, commands.WrapExecuteError(errors.New("kv purge: purger is nil"))
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return 0, commands.WrapContextError(err)
	}

	logger := logging.WithFields(h.logger.WithContext(ctx), map[string]any{
		"operation": "kv.purge_expired",
	})

	started := h.now()
	removed, err := h.purger.PurgeExpired(ctx)
	if err != nil {
		logger.Error("kv.command.purge.failed", "error", err)
		return 0, commands.WrapExecuteError(err)
	}
	logging.WithFields(logger, map[string]any{
		"removed": removed,
		"took":    h.now().Sub(started).String(),
	}).Debug("kv.command.purge.removed")
	return removed, nil
}

// CronHandler satisfies command.CronCommand by binding purge execution to a cron runner.
func (h *PurgeExpiredHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), PurgeExpiredCommand{})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *PurgeExpiredHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}
