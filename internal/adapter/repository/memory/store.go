// Package memory is an in-process implementation of the use case
// repositories. Rows locked for update stay locked until the owning
// transaction commits or rolls back, so concurrent units on the same
// account serialize the way they do against postgres.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

var (
	// ErrTxDone is returned when a finished transaction is used again.
	ErrTxDone = errors.New("memory: transaction already finished")
	// ErrForeignTx is returned when a repository receives another store's transaction.
	ErrForeignTx = errors.New("memory: transaction does not belong to this store")
)

// Store holds committed state shared by the memory repositories.
type Store struct {
	mu sync.Mutex

	accounts map[int64]domain.Account
	byNumber map[string]int64
	entries  []*domain.LedgerEntry
	byRef    map[string]*domain.LedgerEntry
	outbox   []*domain.OutboxEvent
	rowLocks map[int64]chan struct{}

	nextAccountID int64
	nextEntryID   int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]domain.Account),
		byNumber: make(map[string]int64),
		byRef:    make(map[string]*domain.LedgerEntry),
		rowLocks: make(map[int64]chan struct{}),
	}
}

func (s *Store) rowLock(id int64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.rowLocks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.rowLocks[id] = l
	}

	return l
}

// TxManager begins memory transactions.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager over store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{
		store:    m.store,
		held:     make(map[int64]chan struct{}),
		accounts: make(map[int64]domain.Account),
	}, nil
}

// Tx stages writes until Commit.
type Tx struct {
	store *Store

	held        map[int64]chan struct{}
	accounts    map[int64]domain.Account
	newAccounts []int64
	entries     []*domain.LedgerEntry
	events      []*domain.OutboxEvent
	done        bool
}

func asTx(store *Store, tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != store {
		return nil, ErrForeignTx
	}

	if t.done {
		return nil, ErrTxDone
	}

	return t, nil
}

// lock acquires the row locks for ids in ascending order.
func (t *Tx) lock(ctx context.Context, ids []int64) error {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, id := range sorted {
		if _, ok := t.held[id]; ok {
			continue
		}

		l := t.store.rowLock(id)

		select {
		case l <- struct{}{}:
			t.held[id] = l
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (t *Tx) release() {
	for id, l := range t.held {
		<-l
		delete(t.held, id)
	}
}

// Commit publishes the staged writes and releases every row lock.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}

	t.done = true
	defer t.release()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range t.newAccounts {
		number := t.accounts[id].Base().AccountNumber
		if owner, ok := s.byNumber[number]; ok && owner != id {
			return fmt.Errorf("%w: account number %s already exists", domain.ErrConflict, number)
		}
	}

	for _, e := range t.entries {
		if _, ok := s.byRef[e.ReferenceCode]; ok {
			return fmt.Errorf("%w: reference %s already exists", domain.ErrConflict, e.ReferenceCode)
		}
	}

	for id, acct := range t.accounts {
		s.accounts[id] = acct
		s.byNumber[acct.Base().AccountNumber] = id
	}

	for _, e := range t.entries {
		s.entries = append(s.entries, e)
		s.byRef[e.ReferenceCode] = e
	}

	s.outbox = append(s.outbox, t.events...)

	return nil
}

// Rollback discards staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}

	t.done = true
	t.release()

	return nil
}
