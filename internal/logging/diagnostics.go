package logging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bnema/nvprime/internal/application/port"
)

// DiagnosticSink routes driver-context messages to a zerolog logger.
// It implements port.DiagnosticSink.
type DiagnosticSink struct {
	logger zerolog.Logger
}

// NewDiagnosticSink creates a sink writing to logger.
func NewDiagnosticSink(logger zerolog.Logger) *DiagnosticSink {
	return &DiagnosticSink{logger: logger}
}

// Report logs msg at the level matching its severity. Errors from driver
// layers are logged as warnings: they are diagnostic only.
func (s *DiagnosticSink) Report(_ context.Context, msg port.DiagnosticMessage) {
	var event *zerolog.Event

	switch msg.Level {
	case port.DiagnosticError, port.DiagnosticWarn:
		event = s.logger.Warn()
	case port.DiagnosticInfo:
		event = s.logger.Info()
	default:
		event = s.logger.Debug()
	}

	if msg.Subsystem != "" {
		event = event.Str("subsystem", msg.Subsystem)
	}
	if msg.Command != "" {
		event = event.Str("command", msg.Command)
	}

	event.Msg(msg.Text)
}

// InstallDiagnostics connects emitter to a sink backed by the context logger.
// Debug messages are only forwarded when the logger is at debug level or
// lower; warnings and info are always forwarded.
func InstallDiagnostics(ctx context.Context, emitter port.DiagnosticEmitter) {
	log := FromContext(ctx)

	minLevel := port.DiagnosticInfo
	if log.GetLevel() <= zerolog.DebugLevel {
		minLevel = port.DiagnosticDebug
	}

	emitter.SetDiagnosticSink(NewDiagnosticSink(*log), minLevel)
	log.Debug().Bool("debug_enabled", minLevel == port.DiagnosticDebug).Msg("driver diagnostics handler installed")
}
