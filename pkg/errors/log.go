package errors

import "github.com/charmbracelet/log"

// LogHandler is an ErrorHandler that writes through a charm logger.
type LogHandler struct {
	// Logger receives the records. Nil uses log.Default().
	Logger *log.Logger
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

func (h *LogHandler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}

// HandleError logs an Error. Precondition failures are expected in a
// partially built tree and go out at warn level.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	keyvals := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Tag != "" {
		keyvals = append(keyvals, "tag", err.Tag)
	}
	if h.Verbose && err.StackTrace != "" {
		keyvals = append(keyvals, "stack", err.StackTrace)
	}
	if err.Kind == KindPrecondition {
		h.logger().Warn("guarded failure", keyvals...)
		return
	}
	h.logger().Error("pipeline error", keyvals...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	keyvals := []any{"value", err.Value}
	if err.Op != "" {
		keyvals = append(keyvals, "op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		keyvals = append(keyvals, "stack", err.StackTrace)
	}
	h.logger().Error("recovered panic", keyvals...)
}
