package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the rail-side view of a withdrawal request.
type State string

const (
	StateProcessing State = "PROCESSING"
	StateCompleted  State = "COMPLETED"
	StateFailed     State = "FAILED"
)

// ErrRejected indicates the rail refused a withdrawal request outright.
var ErrRejected = errors.New("withdrawal request rejected")

// Gateway is the connector to the external payment rail. RequestWithdrawal
// submits a withdrawal for asynchronous processing; RequestState reports its
// current state and may be polled repeatedly until a terminal value comes
// back.
type Gateway interface {
	RequestWithdrawal(ctx context.Context, id uuid.UUID, destination string, amount decimal.Decimal) error
	RequestState(ctx context.Context, id uuid.UUID) (State, error)
}
