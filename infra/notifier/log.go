package notifier

import (
	"context"
	"log/slog"

	"github.com/hazemdiab/ebanking/pkg/notifier"
)

// LogNotifier writes messages to the structured log instead of delivering
// them. Used in development and tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLog returns a log-backed notifier.
func NewLog(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, msg notifier.Message) error {
	n.logger.Info("notification",
		"destination", msg.Destination,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
