package client

import "go.uber.org/zap"

// Notifier receives session lifecycle signals so the embedding
// application can surface them to the user. Implementations must not
// block; they are invoked while the session lock is not held.
type Notifier interface {
	// SessionExpired fires exactly once per teardown triggered by an
	// authentication failure. Manual logout does not fire it.
	SessionExpired(reason string)
}

// LogNotifier is the default Notifier: it records expirations in the
// application log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SessionExpired(reason string) {
	n.logger.Warn("session expired", zap.String("reason", reason))
}

// NopNotifier ignores all signals.
type NopNotifier struct{}

func (NopNotifier) SessionExpired(string) {}
