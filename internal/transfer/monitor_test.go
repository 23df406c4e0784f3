package transfer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/railpay/railpay/internal/account"
	"github.com/railpay/railpay/internal/gateway"
	"github.com/railpay/railpay/internal/logging"
)

func TestNewMonitorValidatesSettings(t *testing.T) {
	cases := []struct {
		name    string
		delay   time.Duration
		workers int
	}{
		{"zero delay", 0, 1},
		{"negative delay", -time.Millisecond, 1},
		{"zero workers", time.Millisecond, 0},
		{"negative workers", time.Millisecond, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewMonitor(newFakeGateway(), tc.delay, tc.workers, logging.Discard(), nil); err == nil {
				t.Fatal("expected construction error")
			}
		})
	}

	monitor, err := NewMonitor(newFakeGateway(), time.Millisecond, 1, logging.Discard(), nil)
	if err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	monitor.Close()
}

func TestMonitorAppliesCompletion(t *testing.T) {
	gw := newFakeGateway()
	monitor, err := NewMonitor(gw, 5*time.Millisecond, 1, logging.Discard(), nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	defer monitor.Close()

	accounts := account.NewLedger()
	acct := mustCreate(t, accounts, 1000)
	id := uuid.New()
	if err := acct.RequestWithdrawal(decimal.NewFromInt(500), id, "acct-xyz"); err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	gw.script(id, gateway.StateProcessing, gateway.StateProcessing, gateway.StateProcessing, gateway.StateCompleted)

	monitor.Watch(acct, id)

	waitForStatus(t, acct, id, account.StatusCompleted)
	if got := acct.Balance(); !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected balance 500 after completion, got %s", got)
	}
}

func TestMonitorAppliesFailureRefund(t *testing.T) {
	gw := newFakeGateway()
	monitor, err := NewMonitor(gw, 5*time.Millisecond, 1, logging.Discard(), nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	defer monitor.Close()

	accounts := account.NewLedger()
	acct := mustCreate(t, accounts, 1000)
	id := uuid.New()
	if err := acct.RequestWithdrawal(decimal.NewFromInt(500), id, "acct-xyz"); err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	gw.script(id, gateway.StateProcessing, gateway.StateFailed)

	monitor.Watch(acct, id)

	waitForStatus(t, acct, id, account.StatusFailed)
	if got := acct.Balance(); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected refunded balance 1000, got %s", got)
	}
}

func TestMonitorCloseStopsPolling(t *testing.T) {
	gw := newFakeGateway() // reports PROCESSING forever
	monitor, err := NewMonitor(gw, 5*time.Millisecond, 1, logging.Discard(), nil)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	accounts := account.NewLedger()
	acct := mustCreate(t, accounts, 1000)
	id := uuid.New()
	if err := acct.RequestWithdrawal(decimal.NewFromInt(500), id, "acct-xyz"); err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}

	monitor.Watch(acct, id)
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		monitor.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}

	if w, _ := acct.Withdrawal(id); w.Status != account.StatusProcessing {
		t.Fatalf("expected entry to remain PROCESSING, got %s", w.Status)
	}
}

func waitForStatus(t *testing.T, acct *account.Account, id uuid.UUID, want account.Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w, ok := acct.Withdrawal(id); ok && w.Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("withdrawal %s never reached %s", id, want)
}
