package account

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger is the in-memory, process-lifetime registry of accounts. Accounts are
// never removed once created.
type Ledger struct {
	mu       sync.RWMutex
	sequence int64
	accounts map[int64]*Account
}

// NewLedger constructs an empty account registry.
func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[int64]*Account)}
}

// Create allocates the next identifier and registers a new account holding
// the opening balance. Identifiers are strictly increasing even under
// concurrent creation.
func (l *Ledger) Create(initialBalance decimal.Decimal) (*Account, error) {
	if initialBalance.Sign() < 0 {
		return nil, ErrNegativeBalance
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sequence++
	acct := newAccount(l.sequence, initialBalance)
	l.accounts[acct.id] = acct
	return acct, nil
}

// FindByID looks up an account by its identifier.
func (l *Ledger) FindByID(id int64) (*Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[id]
	return acct, ok
}
