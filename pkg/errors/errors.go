// Package errors provides structured error reporting for the layout and
// image pipelines.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPrecondition indicates a missing collaborator or misuse of an API
	// that was guarded and turned into a no-op.
	KindPrecondition
	// KindResource indicates an image source that could not be loaded or
	// decoded.
	KindResource
	// KindTask indicates a task that could not be posted or was dropped.
	KindTask
	// KindConfig indicates an invalid configuration file.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindResource:
		return "resource"
	case KindTask:
		return "task"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

var (
	// ErrUnsupportedSource is returned when no loader handles an image source.
	ErrUnsupportedSource = stderrors.New("image source type not supported")
	// ErrBrokenData is returned when image bytes cannot be decoded.
	ErrBrokenData = stderrors.New("image data is broken")
	// ErrExecutorStopped is returned when a task is posted to a stopped executor.
	ErrExecutorStopped = stderrors.New("task executor stopped")
	// ErrNoContext is reported when a node needs its pipeline context and has none.
	ErrNoContext = stderrors.New("pipeline context is not attached")
	// ErrHostReleased is reported when a wrapper outlives the node it was
	// built from.
	ErrHostReleased = stderrors.New("layout host released")
	// ErrLayoutBeforeMeasure is reported when a wrapper is laid out before it
	// was measured in the same pass.
	ErrLayoutBeforeMeasure = stderrors.New("layout called before measure")
)

// Error represents a structured error raised by the pipeline.
type Error struct {
	// Op is the operation that failed (e.g., "layout.Wrapper.Layout").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Tag is the node tag or image source involved, if any.
	Tag string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s [%s] tag=%s: %v", e.Op, e.Kind, e.Tag, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error for op with the given kind.
func New(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "task.QueueExecutor").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the pipeline.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
