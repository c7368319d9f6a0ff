package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("pocket not found")
	ErrInvalidName       = errors.New("name must not be empty")
	ErrInvalidGoal       = errors.New("goal must be greater than zero")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidCategory   = errors.New("invalid pocket category for this operation")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrMissingDueInDays  = errors.New("bill pockets require due_in_days")
	ErrImmutableField    = errors.New("field cannot be changed")
	ErrAlreadyPaid       = errors.New("bill already paid this cycle")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPersistence       = errors.New("persistence failure")
)

// InsufficientFundsError reports how short the source pocket is.
// errors.Is(err, ErrInsufficientFunds) matches it.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %s, need %s", e.Available, e.Required)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// PersistenceError wraps a failed read or write of the durable snapshot.
// errors.Is(err, ErrPersistence) matches it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
