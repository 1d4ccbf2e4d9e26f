package publishers

import "github.com/samvad-hq/netter/internal/logger"

// Logger is the runtime's structured logger; publishers log deliveries and
// send failures through it.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
