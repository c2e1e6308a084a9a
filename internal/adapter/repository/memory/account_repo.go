package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stages a new account and assigns its ID.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account domain.Account) error {
	t, err := asTx(r.store, tx)
	if err != nil {
		return err
	}

	base := account.Base()

	r.store.mu.Lock()
	if _, ok := r.store.byNumber[base.AccountNumber]; ok {
		r.store.mu.Unlock()
		return fmt.Errorf("%w: account number %s already exists", domain.ErrConflict, base.AccountNumber)
	}
	r.store.nextAccountID++
	base.ID = r.store.nextAccountID
	r.store.mu.Unlock()

	base.Version = 1
	t.accounts[base.ID] = domain.CloneAccount(account)
	t.newAccounts = append(t.newAccounts, base.ID)

	return nil
}

// ExistsByNumber reports whether a committed account has the number.
func (r *AccountRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.store.byNumber[number]

	return ok, nil
}

// GetByID returns the committed account with the given ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	acct, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.AccountNotFound(id)
	}

	return domain.CloneAccount(acct), nil
}

// GetByNumber returns the committed account with the given number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.byNumber[number]
	if !ok {
		return nil, domain.AccountNotFound(number)
	}

	return domain.CloneAccount(r.store.accounts[id]), nil
}

func (r *AccountRepository) resolve(number string) (int64, bool) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.byNumber[number]

	return id, ok
}

// read returns the transaction's view of a locked account.
func (r *AccountRepository) read(t *Tx, id int64) domain.Account {
	if acct, ok := t.accounts[id]; ok {
		return domain.CloneAccount(acct)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return domain.CloneAccount(r.store.accounts[id])
}

// GetByNumberForUpdate locks and returns the account.
func (r *AccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number string) (domain.Account, error) {
	accounts, err := r.GetByNumbersForUpdate(ctx, tx, []string{number})
	if err != nil {
		return nil, err
	}

	return accounts[0], nil
}

// GetByNumbersForUpdate locks the named accounts in ascending ID order and
// returns them in that order. Repeated numbers yield one account.
func (r *AccountRepository) GetByNumbersForUpdate(ctx context.Context, tx usecase.Transaction, numbers []string) ([]domain.Account, error) {
	t, err := asTx(r.store, tx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(numbers))
	seen := make(map[int64]bool, len(numbers))

	for _, number := range numbers {
		id, ok := r.resolve(number)
		if !ok {
			return nil, domain.AccountNotFound(number)
		}

		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if err := t.lock(ctx, ids); err != nil {
		return nil, err
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	accounts := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, r.read(t, id))
	}

	return accounts, nil
}

// Update stages the new account state. The account must be locked by tx.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account domain.Account) error {
	t, err := asTx(r.store, tx)
	if err != nil {
		return err
	}

	base := account.Base()

	if _, ok := t.held[base.ID]; !ok {
		if _, created := t.accounts[base.ID]; !created {
			return fmt.Errorf("%w: account %s updated without a row lock", domain.ErrInvalidOperation, base.AccountNumber)
		}
	}

	current := r.read(t, base.ID)
	if current == nil {
		return domain.AccountNotFound(base.AccountNumber)
	}

	if current.Base().Version != base.Version {
		return fmt.Errorf("%w: account %s was modified concurrently", domain.ErrConflict, base.AccountNumber)
	}

	base.Version++
	t.accounts[base.ID] = domain.CloneAccount(account)

	return nil
}

// List returns committed accounts matching filter, ordered by ID.
// A zero limit returns every match.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ids := make([]int64, 0, len(r.store.accounts))
	for id := range r.store.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.Account, 0)
	skipped := 0

	for _, id := range ids {
		acct := r.store.accounts[id]
		if !filter.Matches(acct) {
			continue
		}

		if skipped < filter.Offset {
			skipped++
			continue
		}

		out = append(out, domain.CloneAccount(acct))

		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}

	return out, nil
}
