package payment

import "errors"

var (
	ErrIntentNotFound = errors.New("payment intent not found")
	// ErrAlreadyFinalized is returned by the conditional status updates
	// when the intent had already left PENDING. Callers treat it as
	// "someone else finished first", not as a failure.
	ErrAlreadyFinalized = errors.New("payment intent already finalized")
)
