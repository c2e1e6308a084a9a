package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create stages an entry and assigns its ID.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	t, err := asTx(r.store, tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	if _, ok := r.store.byRef[entry.ReferenceCode]; ok {
		r.store.mu.Unlock()
		return fmt.Errorf("%w: reference %s already exists", domain.ErrConflict, entry.ReferenceCode)
	}
	r.store.nextEntryID++
	entry.ID = r.store.nextEntryID
	r.store.mu.Unlock()

	cp := *entry
	t.entries = append(t.entries, &cp)

	return nil
}

// ExistsByReference reports whether a committed entry has the reference.
func (r *EntryRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.store.byRef[reference]

	return ok, nil
}

// GetByReference returns the committed entry with the reference code.
func (r *EntryRepository) GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.byRef[reference]
	if !ok {
		return nil, domain.EntryNotFound(reference)
	}

	cp := *e

	return &cp, nil
}

// ListByAccount returns matching entries most-recent-first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID int64, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	r.store.mu.Lock()
	matched := make([]*domain.LedgerEntry, 0)
	for _, e := range r.store.entries {
		if e.AccountID == accountID && filter.Matches(e) {
			cp := *e
			matched = append(matched, &cp)
		}
	}
	r.store.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if filter.Offset >= len(matched) {
		return []*domain.LedgerEntry{}, nil
	}

	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}

// SumSignedByAccount totals every entry of the account.
func (r *EntryRepository) SumSignedByAccount(ctx context.Context, accountID int64) (decimal.Decimal, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sum := decimal.Zero
	var count int64

	for _, e := range r.store.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.SignedAmount())
			count++
		}
	}

	return sum, count, nil
}
