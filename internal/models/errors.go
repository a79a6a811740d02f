package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedPlatform  = errors.New("unsupported platform")
	ErrAccountNotActive     = errors.New("account is not active")
	ErrAccountNotFound      = errors.New("account not found")
	ErrNoSession            = errors.New("no active session")
	ErrSubmitInFlight       = errors.New("a submission is already in progress")
	ErrDraftConsumed        = errors.New("draft was already submitted")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrActionInFlight       = errors.New("this action is already in progress")
	ErrCapabilityDenied     = errors.New("plan does not include this feature")
)

// ValidationError is raised before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RemoteError is a failed call against the remote API. Message is the best
// human-readable text found in the response, or the operation default.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// BatchError aggregates per-item failures of a batch that was not rolled back.
type BatchError struct {
	Failures map[string]error
	Order    []string
}

func (e *BatchError) Add(item string, err error) {
	if e.Failures == nil {
		e.Failures = make(map[string]error)
	}
	if _, ok := e.Failures[item]; !ok {
		e.Order = append(e.Order, item)
	}
	e.Failures[item] = err
}

func (e *BatchError) Len() int {
	return len(e.Order)
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Order))
	for _, item := range e.Order {
		parts = append(parts, fmt.Sprintf("%s: %v", item, e.Failures[item]))
	}
	return fmt.Sprintf("%d item(s) failed: %s", len(e.Order), strings.Join(parts, "; "))
}

// UserMessage picks the text to show for err.
func UserMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}
