package domain

import (
	"errors"
	"fmt"
)

// StoreCode classifies failures at the storage boundary.
type StoreCode string

const (
	StoreUniqueViolation StoreCode = "unique_violation"
	StoreUnavailable     StoreCode = "unavailable"
	StoreFailure         StoreCode = "failure"
)

// StoreError is returned by repositories for any failure reported by the store.
type StoreError struct {
	Code StoreCode
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreCode reports whether err wraps a StoreError with the given code.
func IsStoreCode(err error, code StoreCode) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == code
}
