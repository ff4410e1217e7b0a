package email

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/identitylab/auth-service/internal/core/ports"
)

// LogNotifier writes messages to the log instead of delivering them.
// Used when no SMTP relay is configured (local development).
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, msg ports.Message) error {
	n.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail (log only)")
	return nil
}
