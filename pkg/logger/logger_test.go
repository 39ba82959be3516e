package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"routine-maker/backend/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "warn", Format: format})
		if err != nil {
			t.Fatalf("NewLogger(%s) failed: %v", format, err)
		}
		if l.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("%s logger should not log info at warn level", format)
		}
		if !l.Core().Enabled(zapcore.ErrorLevel) {
			t.Errorf("%s logger should log errors", format)
		}
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud"}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
