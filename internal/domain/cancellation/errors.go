package cancellation

import "errors"

var (
	ErrRequestNotFound  = errors.New("cancellation request not found")
	ErrAlreadyRequested = errors.New("a cancellation request is already pending for this booking")
	ErrAlreadyResolved  = errors.New("cancellation request already resolved")
	ErrNotCancellable   = errors.New("booking is not in a cancellable state")
	ErrEmailMismatch    = errors.New("email does not match booking")
)
