package account

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account owns one balance and the audit ledger of external withdrawals
// debited from it. Every compound check-and-mutate runs under the account's
// own lock, so concurrent calls on the same account never interleave their
// read-modify-write steps while distinct accounts never contend.
type Account struct {
	id int64

	mu          sync.Mutex
	balance     decimal.Decimal
	withdrawals map[uuid.UUID]*Withdrawal
}

func newAccount(id int64, balance decimal.Decimal) *Account {
	return &Account{
		id:          id,
		balance:     balance,
		withdrawals: make(map[uuid.UUID]*Withdrawal),
	}
}

// ID returns the registry-assigned identifier.
func (a *Account) ID() int64 { return a.id }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit credits the balance. The amount must be positive.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(amount)
	return nil
}

// Withdraw debits the balance. The sufficiency check and the subtraction form
// one critical section.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.debit(amount)
}

// debit requires the caller to hold the lock.
func (a *Account) debit(amount decimal.Decimal) error {
	if a.balance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// RequestWithdrawal debits the amount and records a PROCESSING withdrawal
// entry in the same step. If the debit fails nothing is recorded. The id must
// be fresh; reusing one is a programming error on the caller's side.
func (a *Account) RequestWithdrawal(amount decimal.Decimal, id uuid.UUID, destination string) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.debit(amount); err != nil {
		return err
	}
	a.withdrawals[id] = &Withdrawal{
		ID:          id,
		Amount:      amount,
		Destination: destination,
		Status:      StatusProcessing,
		CreatedAt:   time.Now().UTC(),
	}
	return nil
}

// FailWithdrawal marks the entry FAILED and credits its amount back. Entries
// that already settled are left untouched, so a duplicate callback can never
// refund twice.
func (a *Account) FailWithdrawal(id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, err := a.pending(id)
	if err != nil {
		return err
	}
	w.Status = StatusFailed
	a.balance = a.balance.Add(w.Amount)
	return nil
}

// CompleteWithdrawal marks the entry COMPLETED; the debit stands.
func (a *Account) CompleteWithdrawal(id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, err := a.pending(id)
	if err != nil {
		return err
	}
	w.Status = StatusCompleted
	return nil
}

// pending requires the caller to hold the lock.
func (a *Account) pending(id uuid.UUID) (*Withdrawal, error) {
	w, ok := a.withdrawals[id]
	if !ok {
		return nil, ErrWithdrawalNotFound
	}
	if w.Status.IsFinal() {
		return nil, ErrWithdrawalFinalized
	}
	return w, nil
}

// Withdrawals returns a detached snapshot of all withdrawal entries. Mutating
// the result has no effect on the account.
func (a *Account) Withdrawals() map[uuid.UUID]Withdrawal {
	a.mu.Lock()
	defer a.mu.Unlock()
	snapshot := make(map[uuid.UUID]Withdrawal, len(a.withdrawals))
	for id, w := range a.withdrawals {
		snapshot[id] = *w
	}
	return snapshot
}

// Withdrawal returns a copy of a single entry.
func (a *Account) Withdrawal(id uuid.UUID) (Withdrawal, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.withdrawals[id]
	if !ok {
		return Withdrawal{}, false
	}
	return *w, true
}
