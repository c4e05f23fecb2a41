// Package logging builds loggers for the hook binaries. Hook stdout carries
// the JSON decision the host parses, so log output goes to stderr (or a file
// via HOOK_LOG_FILE), never stdout.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Enabled reports whether debug logging is switched on via HOOK_DEBUG.
func Enabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("HOOK_DEBUG")))
	return v == "1" || v == "true" || v == "yes"
}

// ForHook returns a named logger for a hook binary. Without HOOK_DEBUG it is
// a no-op logger, so hooks stay silent in normal operation.
func ForHook(name string) *zap.Logger {
	if !Enabled() {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if f := os.Getenv("HOOK_LOG_FILE"); f != "" {
		cfg.OutputPaths = []string{f}
		cfg.ErrorOutputPaths = []string{f}
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named(name)
}
