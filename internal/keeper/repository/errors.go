package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// StoreErrorKind classifies database failures.
type StoreErrorKind string

const (
	StoreErrConnection StoreErrorKind = "connection_failure"
	StoreErrSchema     StoreErrorKind = "schema_failure"
	StoreErrWrite      StoreErrorKind = "write_failure"
	StoreErrIntegrity  StoreErrorKind = "integrity_violation"
)

// StoreError wraps a database failure with its classification and the
// operation that produced it.
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsIntegrityViolation reports whether err is a unique constraint
// violation, typically raised by a concurrent writer landing first.
func IsIntegrityViolation(err error) bool {
	var serr *StoreError
	return errors.As(err, &serr) && serr.Kind == StoreErrIntegrity
}

// classifyWriteError separates constraint violations from other write
// failures. Depends on gorm's TranslateError mapping unique violations
// to gorm.ErrDuplicatedKey on every dialect.
func classifyWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &StoreError{Kind: StoreErrIntegrity, Op: op, Err: err}
	}
	return &StoreError{Kind: StoreErrWrite, Op: op, Err: err}
}
