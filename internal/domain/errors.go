package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"

	// Store errors
	CodeIndexNotReady ErrorCode = "INDEX_NOT_READY"

	// Quiz specific errors
	CodeQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"
	CodeUserNotFound ErrorCode = "USER_NOT_FOUND"

	// Authentication errors
	CodeEmailInUse         ErrorCode = "EMAIL_ALREADY_IN_USE"
	CodeWrongPassword      ErrorCode = "WRONG_PASSWORD"
	CodeWeakPassword       ErrorCode = "WEAK_PASSWORD"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewUserNotFoundError(userID string) *DomainError {
	return NewError(CodeUserNotFound, fmt.Sprintf("User not found with ID: %s", userID), nil)
}

// Fixed user-facing messages for authentication failures. These are surfaced
// to the client verbatim and never retried.
var authErrorMessages = map[ErrorCode]string{
	CodeEmailInUse:         "This email is already registered",
	CodeWrongPassword:      "Incorrect password",
	CodeWeakPassword:       "Password is too weak (minimum 6 characters)",
	CodeUserNotFound:       "No account exists for this email",
	CodeInvalidCredentials: "Invalid credentials",
}

// NewAuthError builds a DomainError with the fixed human-readable message
// registered for the given code.
func NewAuthError(code ErrorCode) *DomainError {
	msg, ok := authErrorMessages[code]
	if !ok {
		msg = "Authentication error"
	}
	return NewError(code, msg, nil)
}

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
