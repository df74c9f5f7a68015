package notify

import (
	"context"

	"github.com/angelmondragon/storefront-core/pkg/logger"
)

// Notifier surfaces user-facing messages. In a UI this backs the toast layer;
// the default implementation writes through the structured logger.
type Notifier interface {
	Warn(ctx context.Context, msg string)
	Failure(ctx context.Context, msg string)
}

type logNotifier struct {
	log *logger.Logger
}

// NewLogNotifier builds a Notifier that logs warnings and failures.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Warn(ctx context.Context, msg string) {
	if n.log == nil {
		return
	}
	n.log.Warn(n.log.WithField(ctx, "notification", "warning"), msg)
}

func (n *logNotifier) Failure(ctx context.Context, msg string) {
	if n.log == nil {
		return
	}
	n.log.Error(n.log.WithField(ctx, "notification", "failure"), msg, nil)
}
