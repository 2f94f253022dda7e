package providers

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
)

// CollaboratorError reports a collaborator read that kept failing after retries.
type CollaboratorError struct {
	Collaborator string
	Attempts     int
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable after %d attempts: %v", e.Collaborator, e.Attempts, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// AsCollaboratorError attempts to unwrap an error into a CollaboratorError.
func AsCollaboratorError(err error) (*CollaboratorError, bool) {
	var cErr *CollaboratorError
	if errors.As(err, &cErr) {
		return cErr, true
	}
	return nil, false
}

// retryable reports whether err may clear up on its own. Domain errors describe
// the request, not the collaborator, so they never are.
func retryable(err error) bool {
	if _, ok := domain.AsValidation(err); ok {
		return false
	}
	if _, ok := domain.AsNotFound(err); ok {
		return false
	}
	if _, ok := domain.AsForbidden(err); ok {
		return false
	}
	return true
}
