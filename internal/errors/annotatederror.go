// Package errors provides error values annotated with slog attributes and the
// source location of their creation. It re-exports the standard library
// helpers so callers never need to import both packages.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

type annotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	stack []uintptr
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// New returns an error annotated with attrs and the caller's stack trace.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, attrs: attrs, stack: callStack()}
}

// NewSentinel returns a plain error value for package-level sentinels. It
// carries no source location so that declaring one at init time stays cheap.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Wrap annotates err with msg, attrs and the caller's stack trace. The
// returned error matches err with [Is] and [As].
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, cause: err, attrs: attrs, stack: callStack()}
}

// DecoratePanic converts a recovered panic value into an error carrying the
// panicking stack. It returns nil when recovered is nil so that it can be
// called unconditionally in a deferred function.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &annotatedError{msg: fmt.Sprintf("panic: %v", recovered), stack: callStack()}
}

// SlogError renders err as a single grouped attr carrying the message, the
// source location of the outermost annotated error and every annotation
// attached along the chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	args := []any{slog.String("message", err.Error())}
	if trace := stackTrace(err); trace != "" {
		args = append(args, slog.String("source", trace))
	}
	if annotations := collectAnnotations(err, nil); len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", args...)
}

const maxStackDepth = 32

// callStack records the stack starting from the caller of the exported
// function invoking it, i.e. skipping runtime.Callers, callStack and the
// exported function itself.
func callStack() []uintptr {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[:n]
}

// stackTrace formats the stack of the outermost annotated error in the chain.
func stackTrace(err error) string {
	for {
		switch e := err.(type) {
		case *annotatedError:
			return formatStack(e.stack)
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Unwrap() []error }:
			for _, joined := range e.Unwrap() {
				if trace := stackTrace(joined); trace != "" {
					return trace
				}
			}
			return ""
		default:
			return ""
		}
		if err == nil {
			return ""
		}
	}
}

func formatStack(stack []uintptr) string {
	if len(stack) == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(stack)
	for {
		frame, more := frames.Next()
		if frame.File != "" {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%s:%d", frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func collectAnnotations(err error, dst []any) []any {
	switch e := err.(type) {
	case nil:
		return dst
	case *annotatedError:
		for _, attr := range e.attrs {
			dst = append(dst, attr)
		}
		return collectAnnotations(e.cause, dst)
	case interface{ Unwrap() []error }:
		for _, joined := range e.Unwrap() {
			dst = collectAnnotations(joined, dst)
		}
		return dst
	case interface{ Unwrap() error }:
		return collectAnnotations(e.Unwrap(), dst)
	default:
		return dst
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target) //nolint:errorlint // passthrough to stdlib
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps the given errors into a single error.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
