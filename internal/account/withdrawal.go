package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status tracks an external withdrawal through its lifecycle.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// IsFinal reports whether the status is terminal.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Withdrawal records one external transfer attempt debited from an account.
// Amount and destination are fixed at creation; only the status changes.
type Withdrawal struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Destination string
	Status      Status
	CreatedAt   time.Time
}
