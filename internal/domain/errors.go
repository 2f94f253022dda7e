package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input (wrong hole count, wrong golfer count, bad values).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing round, foursome set, score or handicap.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// IncompleteScoreError is returned when locking a score that does not have all holes entered.
type IncompleteScoreError struct {
	Entered int
	Holes   int
}

func (e *IncompleteScoreError) Error() string {
	return fmt.Sprintf("all %d hole scores must be entered before locking (entered %d)", e.Holes, e.Entered)
}

// NoScoresError is returned when finalizing a round that has no locked scores.
type NoScoresError struct {
	RoundID string
}

func (e *NoScoresError) Error() string {
	return fmt.Sprintf("no locked scores found for round %s", e.RoundID)
}

// LockedError is returned when writing to a locked score or locking it twice.
type LockedError struct {
	ScoreID string
}

func (e *LockedError) Error() string {
	return "score is locked and cannot be changed"
}

// ForbiddenError is returned when a non-admin caller is outside the self-service rules.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// Validation builds a ValidationError.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// AsValidation unwraps err into a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsNotFound unwraps err into a NotFoundError.
func AsNotFound(err error) (*NotFoundError, bool) {
	var target *NotFoundError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsIncompleteScore unwraps err into an IncompleteScoreError.
func AsIncompleteScore(err error) (*IncompleteScoreError, bool) {
	var target *IncompleteScoreError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsNoScores unwraps err into a NoScoresError.
func AsNoScores(err error) (*NoScoresError, bool) {
	var target *NoScoresError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsLocked unwraps err into a LockedError.
func AsLocked(err error) (*LockedError, bool) {
	var target *LockedError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsForbidden unwraps err into a ForbiddenError.
func AsForbidden(err error) (*ForbiddenError, bool) {
	var target *ForbiddenError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
