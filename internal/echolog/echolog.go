// Package echolog constructs the process-wide structured logger. echors
// logs through zap instead of the standard library's log package,
// matching the logging stack carried by the rest of the reference
// corpus's production services.
package echolog

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger. When configPath is empty, it falls
// back to a console-encoded production config (level info, ISO8601
// timestamps) suitable for a foreground process; when configPath names
// a file, its contents are decoded as a zap.Config JSON document and
// used verbatim.
func New(configPath string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if configPath == "" {
		cfg = defaultConfig()
	} else {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func defaultConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// Nop returns a logger that discards everything, for tests that need a
// Dispatcher/Server but don't want log output mixed into test -v.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
