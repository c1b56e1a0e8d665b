package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":    zapcore.DebugLevel,
		"INFO":     zapcore.InfoLevel,
		"WARNING":  zapcore.WarnLevel,
		"warn":     zapcore.WarnLevel,
		"error":    zapcore.ErrorLevel,
		"CRITICAL": zapcore.FatalLevel,
		"":         zapcore.InfoLevel,
		"verbose":  zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, err := New("warning", debug)
		if err != nil {
			t.Fatalf("New(debug=%v) failed: %v", debug, err)
		}
		if logger.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("debug=%v: info should be disabled at warning level", debug)
		}
		if !logger.Core().Enabled(zapcore.WarnLevel) {
			t.Errorf("debug=%v: warn should be enabled", debug)
		}
	}
}
