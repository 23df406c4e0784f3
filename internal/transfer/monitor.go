package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/railpay/railpay/internal/account"
	"github.com/railpay/railpay/internal/gateway"
	"github.com/railpay/railpay/internal/notification"
)

// Monitor drives each outstanding external withdrawal to a terminal state by
// polling the rail at a fixed delay, independently of the call that initiated
// the transfer. Rail polls across all watched withdrawals share a bounded
// worker budget; correctness of the resulting balances rests entirely on the
// per-account locking, not on any coordination here.
type Monitor struct {
	gateway  gateway.Gateway
	delay    time.Duration
	workers  *semaphore.Weighted
	logger   *slog.Logger
	notifier notification.Notifier

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor validates the polling settings and prepares a monitor. Both the
// poll delay and the worker budget must be positive.
func NewMonitor(gw gateway.Gateway, pollDelay time.Duration, workerPoolSize int, logger *slog.Logger, notifier notification.Notifier) (*Monitor, error) {
	if pollDelay <= 0 {
		return nil, fmt.Errorf("monitor poll delay must be positive, got %s", pollDelay)
	}
	if workerPoolSize <= 0 {
		return nil, fmt.Errorf("monitor worker pool size must be positive, got %d", workerPoolSize)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		gateway:  gw,
		delay:    pollDelay,
		workers:  semaphore.NewWeighted(int64(workerPoolSize)),
		logger:   logger,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch schedules reconciliation for one outstanding withdrawal and returns
// immediately.
func (m *Monitor) Watch(acct *account.Account, id uuid.UUID) {
	m.wg.Add(1)
	go m.reconcile(acct, id)
}

// Close stops all reconciliation loops and waits for them to exit.
func (m *Monitor) Close() {
	m.cancel()
	m.wg.Wait()
}

func (m *Monitor) reconcile(acct *account.Account, id uuid.UUID) {
	defer m.wg.Done()

	timer := time.NewTimer(m.delay)
	defer timer.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-timer.C:
		}

		state, err := m.poll(id)
		if err != nil {
			if m.ctx.Err() != nil {
				return
			}
			m.logger.Warn("withdrawal state poll failed", "withdrawal_id", id, "error", err)
			timer.Reset(m.delay)
			continue
		}

		switch state {
		case gateway.StateProcessing:
			timer.Reset(m.delay)
		case gateway.StateCompleted:
			m.apply(acct, id, acct.CompleteWithdrawal,
				notification.KindTransferSettled, "transfer settled by rail")
			return
		case gateway.StateFailed:
			m.apply(acct, id, acct.FailWithdrawal,
				notification.KindTransferFailed, "transfer failed, amount refunded")
			return
		default:
			m.logger.Error("unknown withdrawal state reported by rail", "withdrawal_id", id, "state", string(state))
			return
		}
	}
}

// poll runs one rail state check within the shared worker budget.
func (m *Monitor) poll(id uuid.UUID) (gateway.State, error) {
	if err := m.workers.Acquire(m.ctx, 1); err != nil {
		return "", err
	}
	defer m.workers.Release(1)
	return m.gateway.RequestState(m.ctx, id)
}

func (m *Monitor) apply(acct *account.Account, id uuid.UUID, transition func(uuid.UUID) error, kind, body string) {
	if err := transition(id); err != nil {
		// Only bookkeeping defects land here: the entry vanished or was
		// already finalized through another path.
		m.logger.Error("failed to apply withdrawal outcome",
			"account_id", acct.ID(), "withdrawal_id", id, "error", err)
		return
	}
	if m.notifier != nil {
		_ = m.notifier.Send(m.ctx, notification.Message{
			Kind:      kind,
			AccountID: acct.ID(),
			Body:      fmt.Sprintf("%s: %s", body, id),
		})
	}
}
