package observability

import (
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	app := config.AppConfig{Name: "support-desk", Env: "test", Version: "dev"}

	cases := []struct {
		level     string
		format    string
		debugOn   bool
		warnOn    bool
		expectErr bool
	}{
		{level: "info", format: "json", warnOn: true},
		{level: "DEBUG", format: "console", debugOn: true, warnOn: true},
		{level: "error", format: "json"},
		{level: "", format: "json", warnOn: true},
		{level: "loud", format: "json", expectErr: true},
	}
	for _, tc := range cases {
		logger, err := NewLogger(config.LoggerConfig{Level: tc.level, Format: tc.format}, app)
		if tc.expectErr {
			if err == nil {
				t.Errorf("level %q: expected error", tc.level)
			}
			continue
		}
		if err != nil {
			t.Fatalf("level %q: %v", tc.level, err)
		}
		if got := logger.Core().Enabled(zap.DebugLevel); got != tc.debugOn {
			t.Errorf("level %q: debug enabled = %v", tc.level, got)
		}
		if got := logger.Core().Enabled(zap.WarnLevel); got != tc.warnOn {
			t.Errorf("level %q: warn enabled = %v", tc.level, got)
		}
	}
}
