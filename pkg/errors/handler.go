package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerSlot struct {
	h ErrorHandler
}

var current atomic.Pointer[handlerSlot]

// Handler returns the handler errors are reported to. Until SetHandler is
// called this is a LogHandler on the default charm logger.
func Handler() ErrorHandler {
	if slot := current.Load(); slot != nil {
		return slot.h
	}
	return &LogHandler{}
}

// SetHandler installs h and returns the handler it replaced. Nil restores
// the default LogHandler.
func SetHandler(h ErrorHandler) ErrorHandler {
	prev := Handler()
	if h == nil {
		current.Store(nil)
	} else {
		current.Store(&handlerSlot{h: h})
	}
	return prev
}

// Report stamps err with the current time unless already set and hands it
// to the handler.
func Report(err *Error) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// Precondition reports an API misuse that was turned into a no-op. The
// caller's stack is attached.
func Precondition(op, tag string, err error) {
	Report(&Error{Op: op, Kind: KindPrecondition, Tag: tag, Err: err, StackTrace: captureStack(3)})
}

// Recover must be deferred directly. It reports a panic raised by the
// deferring function as a PanicError and passes the value to each of
// onPanic.
func Recover(op string, onPanic ...func(any)) {
	r := recover()
	if r == nil {
		return
	}
	Handler().HandlePanic(&PanicError{
		Op:         op,
		Value:      r,
		StackTrace: captureStack(3),
		Timestamp:  time.Now(),
	})
	for _, fn := range onPanic {
		fn(r)
	}
}

// CaptureStack formats the caller's goroutine stack, innermost frame first.
func CaptureStack() string {
	return captureStack(3)
}

func captureStack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		// Panic plumbing and goroutine entry add nothing to a report.
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
