package dashboard

import (
	"errors"
	"strconv"
	"strings"
)

const loadFallbackMessage = "failed to load sales data"

// Validation reasons, matched with errors.Is against a *ValidationError.
var (
	ErrEmptyName       = errors.New("seller name is empty")
	ErrDuplicateSeller = errors.New("seller already exists")
	ErrReservedName    = errors.New("seller name is reserved")
	ErrUnknownSeller   = errors.New("unknown seller")
	ErrInvalidGoal     = errors.New("goal must be a non-negative number")
)

// LoadError reports a failed reload. Prior state is left untouched.
type LoadError struct {
	Err error
}

// Message returns the underlying error text, or a generic fallback when the
// source gave none.
func (e *LoadError) Message() string {
	if e == nil || e.Err == nil {
		return loadFallbackMessage
	}
	if msg := strings.TrimSpace(e.Err.Error()); msg != "" {
		return msg
	}
	return loadFallbackMessage
}

func (e *LoadError) Error() string { return "load: " + e.Message() }

func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError reports rejected user input. No state was changed.
type ValidationError struct {
	Field  string // "seller" or "goal"
	Value  string
	Reason error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Reason.Error()
	}
	return e.Field + " " + strconv.Quote(e.Value) + ": " + e.Reason.Error()
}

func (e *ValidationError) Unwrap() error { return e.Reason }
