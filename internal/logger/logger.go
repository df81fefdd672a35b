package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Init builds the global logger for the environment and replaces zap.L().
// Production gets JSON output, everything else the console encoder.
func Init(environment string) error {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
		level.SetLevel(zapcore.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		level.SetLevel(zapcore.DebugLevel)
	}
	cfg.Level = level

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("cfg.Build -> %w", err)
	}
	zap.ReplaceGlobals(l)

	return nil
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(s string) error {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}
	level.SetLevel(lvl)

	return nil
}

func Level() zapcore.Level {
	return level.Level()
}
