package port

import "context"

// DiagnosticLevel classifies a driver-context message.
type DiagnosticLevel int

const (
	DiagnosticDebug DiagnosticLevel = iota
	DiagnosticInfo
	DiagnosticWarn
	DiagnosticError
)

// DiagnosticMessage is one human-readable line from a driver layer.
type DiagnosticMessage struct {
	Level     DiagnosticLevel
	Subsystem string // e.g. "EGL", "nvdriver"
	Command   string // entry point that produced the message, if known
	Text      string
}

// DiagnosticSink receives driver-context messages. Messages are reported,
// never escalated to call failures.
type DiagnosticSink interface {
	Report(ctx context.Context, msg DiagnosticMessage)
}

// DiagnosticEmitter is implemented by collaborators that can route their
// debug output to a sink.
type DiagnosticEmitter interface {
	SetDiagnosticSink(sink DiagnosticSink, minLevel DiagnosticLevel)
}
