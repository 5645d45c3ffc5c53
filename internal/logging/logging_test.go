package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		mode    string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", ModeDevelopment, zapcore.DebugLevel, false},
		{"info", "", zapcore.InfoLevel, false},
		{"warn", ModeProduction, zapcore.WarnLevel, false},
		{"ERROR", ModeProduction, zapcore.ErrorLevel, false},
		{"loud", ModeDevelopment, 0, true},
		{"info", "verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.mode, func(t *testing.T) {
			logger, err := New(tt.level, tt.mode)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q, %q) succeeded, want error", tt.level, tt.mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q, %q) failed: %v", tt.level, tt.mode, err)
			}
			defer Sync(logger)

			if !logger.Core().Enabled(tt.want) {
				t.Errorf("level %v not enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
				t.Errorf("level %v enabled below %v", tt.want-1, tt.want)
			}
		})
	}
}

func TestSyncNil(t *testing.T) {
	Sync(nil)
}
