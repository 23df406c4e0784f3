package transfer

import "errors"

var (
	// ErrSameAccount rejects transfers where sender and receiver are the same
	// account.
	ErrSameAccount = errors.New("sender and receiver account can't be the same")

	// ErrAccountNotFound indicates an unknown account identifier.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransferNotFound indicates an unknown external transfer identifier.
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrGateway wraps a failed withdrawal submission to the external rail.
	// The local debit has already been refunded when this is returned.
	ErrGateway = errors.New("withdrawal gateway request failed")
)
