// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Pipeline errors.
	ErrNoTables = errors.New("no financial tables detected")
	ErrNoData   = errors.New("no data rows")

	// Input errors.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrEmptyWorkbook     = errors.New("workbook has no sheets")

	// Label hint service errors.
	ErrHintService = errors.New("label hint service failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// User-facing messages for the fatal pipeline failures.
const (
	MsgNoTables = "No financial tables detected in the file"
	MsgNoData   = "No data found in the worksheet"
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// DetectionError is returned when no table could be found in the worksheet.
func DetectionError() error {
	return NewUserError(MsgNoTables, ErrNoTables)
}

// DataError is returned when the detected table has no rows to process.
func DataError() error {
	return NewUserError(MsgNoData, ErrNoData)
}

// UserMessage returns the message meant for the user, falling back to the
// error text when err carries no UserError.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
