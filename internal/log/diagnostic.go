package log

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// NewDiagnostic builds the zap logger used for warnings such as failed
// saves or discarded state. Output goes to diag.log inside dir so it
// never draws over the TUI.
func NewDiagnostic(mode, dir string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{filepath.Join(dir, "diag.log")}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
