package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"logistics-console/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.Log
		wantErr bool
	}{
		{"json", config.Log{Format: "json", Level: "debug"}, false},
		{"text", config.Log{Format: "text", Level: "info"}, false},
		{"zap", config.Log{Format: "zap", Level: "warn"}, false},
		{"bad level", config.Log{Format: "text", Level: "loud"}, true},
		{"bad format", config.Log{Format: "xml", Level: "info"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			l.Info("ok")
		})
	}
}
