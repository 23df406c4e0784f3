package transfer

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/railpay/railpay/internal/account"
	"github.com/railpay/railpay/internal/gateway"
)

// Service orchestrates balance movement between ledger accounts and out to
// the external rail. It holds no state beyond its collaborators.
type Service struct {
	accounts *account.Ledger
	gateway  gateway.Gateway
	monitor  *Monitor
}

// NewService constructs a transfer service.
func NewService(accounts *account.Ledger, gw gateway.Gateway, monitor *Monitor) *Service {
	return &Service{accounts: accounts, gateway: gw, monitor: monitor}
}

// ExternalTransfer is the read-side projection of a withdrawal entry.
type ExternalTransfer struct {
	ID          uuid.UUID       `json:"transfer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      account.Status  `json:"status"`
	Destination string          `json:"destination"`
}

// Internal moves funds between two accounts held by this service. The debit
// and the credit are separate critical sections on distinct accounts; a crash
// between them loses the amount in flight.
func (s *Service) Internal(_ context.Context, senderID, receiverID int64, amount decimal.Decimal) error {
	if senderID == receiverID {
		return ErrSameAccount
	}

	sender, err := s.find(senderID)
	if err != nil {
		return err
	}
	receiver, err := s.find(receiverID)
	if err != nil {
		return err
	}

	if err := sender.Withdraw(amount); err != nil {
		return err
	}
	return receiver.Deposit(amount)
}

// External debits the sender, submits the withdrawal to the rail and hands
// the request to the reconciliation monitor. When the rail refuses the
// request the debit is refunded, the entry is kept as FAILED in the account's
// audit ledger, and the failure is returned to the caller.
func (s *Service) External(ctx context.Context, senderID int64, destination string, amount decimal.Decimal) (uuid.UUID, error) {
	sender, err := s.find(senderID)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	if err := sender.RequestWithdrawal(amount, id, destination); err != nil {
		return uuid.Nil, err
	}

	if err := s.gateway.RequestWithdrawal(ctx, id, destination, amount); err != nil {
		// The request may never have reached the rail; the audit entry still
		// records the attempt as failed.
		if failErr := sender.FailWithdrawal(id); failErr != nil {
			return uuid.Nil, fmt.Errorf("refund withdrawal %s: %w", id, failErr)
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	s.monitor.Watch(sender, id)
	return id, nil
}

// ListExternal returns the account's external transfers ordered by creation.
func (s *Service) ListExternal(_ context.Context, accountID int64) ([]ExternalTransfer, error) {
	acct, err := s.find(accountID)
	if err != nil {
		return nil, err
	}

	snapshot := acct.Withdrawals()
	entries := make([]account.Withdrawal, 0, len(snapshot))
	for _, w := range snapshot {
		entries = append(entries, w)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})

	out := make([]ExternalTransfer, 0, len(entries))
	for _, w := range entries {
		out = append(out, project(w))
	}
	return out, nil
}

// GetExternal returns one external transfer of the account.
func (s *Service) GetExternal(_ context.Context, accountID int64, transferID uuid.UUID) (ExternalTransfer, error) {
	acct, err := s.find(accountID)
	if err != nil {
		return ExternalTransfer{}, err
	}

	w, ok := acct.Withdrawal(transferID)
	if !ok {
		return ExternalTransfer{}, fmt.Errorf("transfer %s: %w", transferID, ErrTransferNotFound)
	}
	return project(w), nil
}

func (s *Service) find(id int64) (*account.Account, error) {
	acct, ok := s.accounts.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, ErrAccountNotFound)
	}
	return acct, nil
}

func project(w account.Withdrawal) ExternalTransfer {
	return ExternalTransfer{
		ID:          w.ID,
		Amount:      w.Amount,
		Status:      w.Status,
		Destination: w.Destination,
	}
}
