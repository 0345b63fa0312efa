package commands

import (
	"errors"

	command "github.com/goliatone/go-command"
)

// CronRegistrar registers a handler with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegisterCron hands every handler implementing command.CronCommand to reg.
// Handlers without cron metadata are skipped.
func RegisterCron(reg CronRegistrar, handlers ...any) error {
	if reg == nil {
		return nil
	}
	var errs error
	for _, handler := range handlers {
		cronCmd, ok := handler.(command.CronCommand)
		if !ok || cronCmd == nil {
			continue
		}
		if err := reg(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
