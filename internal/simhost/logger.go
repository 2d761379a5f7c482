package simhost

import (
	"go.uber.org/zap"

	"github.com/spline-cc/spline/internal/spline"
)

var debugLogger *zap.Logger

func init() {
	var err error
	debugLogger, err = zap.NewDevelopment()
	if err != nil {
		debugLogger = zap.NewNop()
	}
}

// SetLogger installs the package-level zap logger used by every Host.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	debugLogger = logger
}

// sugaredAdapter satisfies spline.Logger with a zap.SugaredLogger, the
// host-integration boundary the core package documents.
type sugaredAdapter struct {
	s *zap.SugaredLogger
}

func (a sugaredAdapter) Debugw(msg string, kv ...any) {
	a.s.Debugw(msg, kv...)
}

func splineLogger() spline.Logger {
	return sugaredAdapter{s: debugLogger.Sugar()}
}
