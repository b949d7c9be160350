/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a portal or a dial target cannot be resolved
	ErrNotFound = errors.New("not found")

	// ErrNoPriorData is returned by document stores that have never been written
	ErrNoPriorData = errors.New("no prior data")

	// ErrReadFailed is returned when a persisted document exists but cannot be read
	ErrReadFailed = errors.New("document read failed")

	// ErrMalformedRecord is returned for persisted portal records that cannot be decoded
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrDestroyed is returned when operating on a destroyed portal
	ErrDestroyed = errors.New("portal destroyed")

	// ErrNotValid is returned when an operation requires a valid portal
	ErrNotValid = errors.New("portal not valid")

	// ErrClosed is returned by an actor that has been shut down
	ErrClosed = errors.New("closed")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedRecordError describes a persisted record that was skipped during load
type MalformedRecordError struct {
	Key     string
	Field   string
	Message string
}

func (e *MalformedRecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("record %q: field %q: %s", e.Key, e.Field, e.Message)
	}
	return fmt.Sprintf("record %q: %s", e.Key, e.Message)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ReadError wraps a failure to read a persisted document
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

func (e *ReadError) Is(target error) bool {
	return target == ErrReadFailed
}

// DialError reports why a portal could not be dialed to an address
type DialError struct {
	Address int
	Err     error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("dial address %d: %v", e.Address, e.Err)
}

func (e *DialError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewMalformedRecordError creates a new MalformedRecordError
func NewMalformedRecordError(key, field, message string) error {
	return &MalformedRecordError{Key: key, Field: field, Message: message}
}

// NewReadError creates a new ReadError
func NewReadError(source string, err error) error {
	return &ReadError{Source: source, Err: err}
}

// NewDialError creates a new DialError
func NewDialError(address int, err error) error {
	return &DialError{Address: address, Err: err}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNoPriorData checks if a store reported that nothing was ever saved
func IsNoPriorData(err error) bool {
	return errors.Is(err, ErrNoPriorData)
}

// IsReadFailed checks if an error is a document read failure
func IsReadFailed(err error) bool {
	return errors.Is(err, ErrReadFailed)
}

// IsMalformedRecord checks if an error describes a skipped record
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDestroyed checks if an error was caused by a destroyed portal
func IsDestroyed(err error) bool {
	return errors.Is(err, ErrDestroyed)
}
