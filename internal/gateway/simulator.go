package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Simulator is an in-process rail used in development and tests. Accepted
// requests stay PROCESSING for a fixed delay and then settle. The destination
// steers the outcome: a "reject:" prefix refuses the request outright, a
// "fail:" prefix settles as FAILED, anything else settles as COMPLETED.
type Simulator struct {
	settleAfter time.Duration

	mu       sync.Mutex
	requests map[uuid.UUID]simulatedRequest
}

type simulatedRequest struct {
	outcome  State
	settleAt time.Time
}

// NewSimulator builds a simulated rail that settles requests after the given
// delay.
func NewSimulator(settleAfter time.Duration) *Simulator {
	return &Simulator{
		settleAfter: settleAfter,
		requests:    make(map[uuid.UUID]simulatedRequest),
	}
}

// RequestWithdrawal accepts or refuses the withdrawal based on the
// destination convention.
func (s *Simulator) RequestWithdrawal(_ context.Context, id uuid.UUID, destination string, _ decimal.Decimal) error {
	if strings.HasPrefix(destination, "reject:") {
		return fmt.Errorf("%w: destination %q", ErrRejected, destination)
	}

	outcome := StateCompleted
	if strings.HasPrefix(destination, "fail:") {
		outcome = StateFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[id] = simulatedRequest{
		outcome:  outcome,
		settleAt: time.Now().Add(s.settleAfter),
	}
	return nil
}

// RequestState reports PROCESSING until the settle deadline passes, then the
// recorded outcome.
func (s *Simulator) RequestState(_ context.Context, id uuid.UUID) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return "", fmt.Errorf("unknown withdrawal %s", id)
	}
	if time.Now().Before(req.settleAt) {
		return StateProcessing, nil
	}
	return req.outcome, nil
}
