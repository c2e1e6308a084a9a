package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/adapter/repository/memory"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
	"github.com/iho/bankcore/internal/usecase"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// seqIDs hands out predictable identifiers.
type seqIDs struct {
	accounts atomic.Int64
	refs     atomic.Int64
	events   atomic.Int64
}

func (g *seqIDs) NewAccountNumber() string {
	return fmt.Sprintf("ACC%08X", g.accounts.Add(1))
}

func (g *seqIDs) NewReferenceCode() string {
	return fmt.Sprintf("TXN%026d", g.refs.Add(1))
}

func (g *seqIDs) NewEventID() string {
	return fmt.Sprintf("evt-%d", g.events.Add(1))
}

// stepClock advances one second per reading.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(start time.Time) *stepClock {
	return &stepClock{now: start}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)

	return c.now
}

type env struct {
	store    *memory.Store
	deps     usecase.Deps
	outbox   *memory.OutboxRepository
	metrics  *metrics.Metrics
	accounts *usecase.AccountUseCase
	transfer *usecase.TransferUseCase
	accrual  *usecase.AccrualUseCase
	entries  *usecase.EntryUseCase
	ledger   *usecase.LedgerUseCase
	recon    *usecase.ReconciliationUseCase
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.NewStore()
	outbox := memory.NewOutboxRepository(store)
	m := metrics.New(prometheus.NewRegistry())
	clock := newStepClock(epoch)

	deps := usecase.Deps{
		TxManager: memory.NewTxManager(store),
		Accounts:  memory.NewAccountRepository(store),
		Entries:   memory.NewEntryRepository(store),
		Outbox:    outbox,
		IDs:       &seqIDs{},
		Clock:     clock,
		Metrics:   m,
		Logger:    zerolog.Nop(),
	}

	return &env{
		store:    store,
		deps:     deps,
		outbox:   outbox,
		metrics:  m,
		accounts: usecase.NewAccountUseCase(deps),
		transfer: usecase.NewTransferUseCase(deps),
		accrual:  usecase.NewAccrualUseCase(deps),
		entries:  usecase.NewEntryUseCase(deps.Accounts, deps.Entries),
		ledger:   usecase.NewLedgerUseCase(deps.Accounts, deps.Entries),
		recon:    usecase.NewReconciliationUseCase(deps.Accounts, deps.Entries, clock, zerolog.Nop()),
	}
}

func (e *env) savings(t *testing.T, balance string) *domain.SavingsAccount {
	t.Helper()

	acct, err := e.accounts.CreateSavingsAccount(context.Background(), usecase.CreateSavingsAccountInput{
		AccountHolder: usecase.AccountHolder{HolderName: "Grace Hopper", InitialBalance: dec(balance)},
	})
	if err != nil {
		t.Fatalf("create savings: %v", err)
	}

	return acct
}

func (e *env) checking(t *testing.T, balance string) *domain.CheckingAccount {
	t.Helper()

	acct, err := e.accounts.CreateCheckingAccount(context.Background(), usecase.CreateCheckingAccountInput{
		AccountHolder: usecase.AccountHolder{HolderName: "Alan Turing", InitialBalance: dec(balance)},
	})
	if err != nil {
		t.Fatalf("create checking: %v", err)
	}

	return acct
}

func (e *env) balance(t *testing.T, number string) decimal.Decimal {
	t.Helper()

	acct, err := e.deps.Accounts.GetByNumber(context.Background(), number)
	if err != nil {
		t.Fatalf("get %s: %v", number, err)
	}

	return acct.Base().Balance
}

func (e *env) entryCount(t *testing.T, number string) int {
	t.Helper()

	acct, err := e.deps.Accounts.GetByNumber(context.Background(), number)
	if err != nil {
		t.Fatalf("get %s: %v", number, err)
	}

	entries, err := e.deps.Entries.ListByAccount(context.Background(), acct.Base().ID, domain.EntryFilter{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}

	return len(entries)
}

func (e *env) deactivate(t *testing.T, number string) {
	t.Helper()

	if _, err := e.accounts.Deactivate(context.Background(), number); err != nil {
		t.Fatalf("deactivate %s: %v", number, err)
	}
}

func assertBalance(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(dec(want)) {
		t.Fatalf("expected balance %s, got %s", want, got.StringFixed(2))
	}
}
