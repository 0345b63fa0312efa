package auth

import (
	"context"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// LogCodeSender writes issued codes to the log instead of delivering them.
// Intended for development and single-operator deployments.
type LogCodeSender struct {
	logger interfaces.Logger
}

var _ interfaces.CodeSender = (*LogCodeSender)(nil)

// NewLogCodeSender constructs a LogCodeSender.
func NewLogCodeSender(logger interfaces.Logger) *LogCodeSender {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LogCodeSender{logger: logger}
}

// SendCode logs the code for email.
func (s *LogCodeSender) SendCode(ctx context.Context, email, code string) error {
	logging.WithEmail(s.logger, email).WithContext(ctx).Info("auth.code_issued", "code", code)
	return nil
}
