package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in an ownership lifecycle the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // allocating and wrapping a value
	PhaseRelease   Phase = "release"   // running a release action
	PhaseRegistry  Phase = "registry"  // allocation registry bookkeeping
	PhaseEngine    Phase = "engine"    // wazero resources owned through handles
)

// Kind categorizes the error
type Kind string

const (
	KindConstruction  Kind = "construction"
	KindLeak          Kind = "leak"
	KindClosed        Kind = "closed"
	KindInvalidHandle Kind = "invalid_handle"
	KindInvalidInput  Kind = "invalid_input"
	KindClose         Kind = "close"
	KindCompile       Kind = "compile"
	KindInstantiate   Kind = "instantiate"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Handle uint32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		fmt.Fprintf(&b, " at handle %d", e.Handle)
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Type sets the owned Go type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Handle sets the registry handle
func (b *Builder) Handle(h uint32) *Builder {
	b.err.Handle = h
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Construction wraps a constructor failure for the given type
func Construction(typeName string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindConstruction,
		Type:   typeName,
		Detail: "constructor failed",
		Cause:  cause,
	}
}

// Leaked reports allocations still owned when a registry is closed
func Leaked(count int, types []string) *Error {
	detail := fmt.Sprintf("%d allocation(s) still owned", count)
	if len(types) > 0 {
		detail += ": " + strings.Join(types, ", ")
	}
	return New(PhaseRegistry, KindLeak).
		Value(count).
		Detail("%s", detail).
		Build()
}

// Closed reports an operation on a closed registry or engine
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: what + " is closed",
	}
}

// InvalidHandle reports a registry handle that is unknown or already released
func InvalidHandle(typeName string, handle uint32) *Error {
	return New(PhaseRegistry, KindInvalidHandle).
		Type(typeName).
		Handle(handle).
		Detail("unknown or released handle").
		Build()
}

// CloseFailed reports an io.Closer that failed while its owner released it
func CloseFailed(typeName string, cause error) *Error {
	return New(PhaseRelease, KindClose).
		Type(typeName).
		Detail("close failed").
		Cause(cause).
		Build()
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
