package xlstream

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogger builds a named logger. The returned func flushes buffered
// entries and should be deferred by the caller.
func SetupLogger(name string, level zapcore.Level, isDev bool) (*zap.Logger, func(), error) {
	var cfg zap.Config
	if isDev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	// Row output goes to stdout; keep logs on stderr.
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, func() {}, err
	}

	logger = logger.Named(name)
	return logger, func() { _ = logger.Sync() }, nil
}
