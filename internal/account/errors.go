package account

import "errors"

var (
	// ErrInvalidAmount rejects deposits, withdrawals and withdrawal requests
	// for a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds occurs when a debit exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNegativeBalance rejects opening an account with a negative balance.
	ErrNegativeBalance = errors.New("initial balance must not be negative")

	// ErrWithdrawalNotFound indicates an unknown withdrawal identifier.
	ErrWithdrawalNotFound = errors.New("withdrawal not found")

	// ErrWithdrawalFinalized indicates an attempt to complete or fail a
	// withdrawal that already reached a terminal state.
	ErrWithdrawalFinalized = errors.New("withdrawal already finalized")
)
