package store

import (
	"errors"

	"github.com/arthlor/yeser/internal/client/gateway"
	"github.com/arthlor/yeser/internal/client/validation"
)

// Kind tells the UI what a recorded failure means for the user.
type Kind int

const (
	// KindRetryable covers network and backend failures; trying again is
	// reasonable.
	KindRetryable Kind = iota + 1

	// KindValidation covers schema/contract mismatches and bad input;
	// retrying the same call cannot succeed.
	KindValidation

	// KindAuth means the session is gone and the user must sign in again.
	KindAuth
)

// StoreError is the user-facing failure state a store records. Raw errors
// never cross this boundary; they are logged, then translated into a generic
// localized message.
type StoreError struct {
	Kind    Kind
	Message string
}

func translate(err error) *StoreError {
	var verr *validation.Error
	switch {
	case errors.Is(err, gateway.ErrUnauthenticated):
		return &StoreError{Kind: KindAuth, Message: "Your session has expired. Please sign in again."}
	case errors.As(err, &verr):
		return &StoreError{Kind: KindValidation, Message: "Something went wrong."}
	default:
		return &StoreError{Kind: KindRetryable, Message: "Could not reach the server. Please try again."}
	}
}

// retryable reports whether err may resolve on its own. Auth and validation
// failures never do.
func retryable(err error) bool {
	var verr *validation.Error
	return !errors.Is(err, gateway.ErrUnauthenticated) && !errors.As(err, &verr)
}
