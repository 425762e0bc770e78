package helpers

import (
	"errors"
	"fmt"
	"sync"

	"plug-explorer/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type ExplorerError struct {
	Message string
	Cause   error
}

func (e *ExplorerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExplorerError) Unwrap() error {
	return e.Cause
}

// Distinct error kinds for errors.As
type ConfigurationError struct{ ExplorerError }
type NetworkError struct{ ExplorerError }
type DatabaseError struct{ ExplorerError }
type ValidationError struct{ ExplorerError }

func NewConfigurationError(msg string, cause error) error {
	return &ConfigurationError{ExplorerError{Message: msg, Cause: cause}}
}

func NewNetworkError(msg string, cause error) error {
	return &NetworkError{ExplorerError{Message: msg, Cause: cause}}
}

func NewDatabaseError(msg string, cause error) error {
	return &DatabaseError{ExplorerError{Message: msg, Cause: cause}}
}

func NewValidationError(msg string, cause error) error {
	return &ValidationError{ExplorerError{Message: msg, Cause: cause}}
}

// IsDatabaseError reports whether err wraps a DatabaseError.
func IsDatabaseError(err error) bool {
	var target *DatabaseError
	return errors.As(err, &target)
}

// IsNetworkError reports whether err wraps a NetworkError.
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

// ErrorHandler logs failures and counts them per operation. Poll failures are not
// retried; the counts only feed the status endpoints.
type ErrorHandler struct {
	Logger *logger.Logger
	mu     sync.Mutex
	counts map[string]int
}

func NewErrorHandler(l *logger.Logger) *ErrorHandler {
	if l == nil {
		l = logger.NewLogger("INFO", "ErrorHandler")
	}
	return &ErrorHandler{
		Logger: l,
		counts: make(map[string]int),
	}
}

// -----------------------------------------------------------------------------

// Handle logs err at error level and counts it under operation.
func (e *ErrorHandler) Handle(err error, operation string) {
	if err == nil {
		return
	}
	e.count(operation)
	e.Logger.Error("Error in %s: %v", operation, err)
}

// -----------------------------------------------------------------------------

// Drop records a failure that is deliberately ignored and logs it at debug level.
func (e *ErrorHandler) Drop(err error, operation string) {
	if err == nil {
		return
	}
	e.count(operation)
	e.Logger.Debug("Dropped %s failure: %v", operation, err)
}

// -----------------------------------------------------------------------------

// Counts returns a copy of the failure counters.
func (e *ErrorHandler) Counts() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int, len(e.counts))
	for k, v := range e.counts {
		out[k] = v
	}
	return out
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.mu.Lock()
	e.counts = make(map[string]int)
	e.mu.Unlock()
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) count(operation string) {
	e.mu.Lock()
	e.counts[operation]++
	e.mu.Unlock()
}
