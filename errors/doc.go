// Package errors provides structured error types for the ownership library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the owned Go type, the registry handle involved and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegistry, errors.KindInvalidHandle).
//		Type("*main.User").
//		Handle(7).
//		Detail("handle already released").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Construction("main.User", cause)
//	err := errors.Leaked(3, []string{"main.User", "main.Conn"})
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
