package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// EntryUseCase handles ledger entry queries.
type EntryUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// ListEntriesInput represents input for listing an account's entries.
type ListEntriesInput struct {
	Start         *time.Time
	End           *time.Time
	Type          *domain.EntryType
	AccountNumber string
	Limit         int
	Offset        int
}

// ListEntries lists an account's entries most-recent-first.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.LedgerEntry, error) {
	if input.Start != nil && input.End != nil && input.End.Before(*input.Start) {
		return nil, fmt.Errorf("%w: end %s precedes start %s", domain.ErrInvalidOperation,
			input.End.Format(time.RFC3339), input.Start.Format(time.RFC3339))
	}

	acct, err := uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.ListByAccount(ctx, acct.Base().ID, domain.EntryFilter{
		Start:  input.Start,
		End:    input.End,
		Type:   input.Type,
		Limit:  limit,
		Offset: offset,
	})
}

// GetEntry returns the entry with the given reference code.
func (uc *EntryUseCase) GetEntry(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByReference(ctx, reference)
}

// GetBalanceAt returns the account balance as of at: the balance after the
// latest entry posted at or before at, or the opening deposit if none.
func (uc *EntryUseCase) GetBalanceAt(ctx context.Context, number string, at time.Time) (decimal.Decimal, error) {
	acct, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}

	base := acct.Base()
	if at.Before(base.CreatedAt) {
		return decimal.Zero, nil
	}

	entries, err := uc.entryRepo.ListByAccount(ctx, base.ID, domain.EntryFilter{End: &at, Limit: 1})
	if err != nil {
		return decimal.Zero, err
	}

	if len(entries) == 0 {
		return base.InitialBalance, nil
	}

	return entries[0].BalanceAfter, nil
}
