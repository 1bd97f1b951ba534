package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		verbose bool
		debug   bool
		warn    bool
	}{
		{verbose: true, debug: true, warn: true},
		{verbose: false, debug: false, warn: true},
	}
	for _, tt := range tests {
		logger, err := New(tt.verbose)
		if err != nil {
			t.Fatalf("New(%v): %v", tt.verbose, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
			t.Fatalf("verbose=%v debug enabled = %v", tt.verbose, got)
		}
		if got := logger.Core().Enabled(zapcore.WarnLevel); got != tt.warn {
			t.Fatalf("verbose=%v warn enabled = %v", tt.verbose, got)
		}
	}
}
