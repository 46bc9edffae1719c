package reactz

import (
	"go.uber.org/zap"
)

// Log messages emitted by the windowing operators.
const (
	logWindowOpened = "window opened"
	logWindowClosed = "window closed"
	logFault        = "operator fault"
)

// operatorLogger returns logger named after the operator, or a no-op logger.
func operatorLogger(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(name)
}

func logFaultEvent(logger *zap.Logger, operator string, err error) {
	logger.Warn(logFault,
		zap.String("operator", operator),
		zap.Stringer("kind", faultKindOf(err)),
		zap.Error(err),
	)
}
