package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/postgres/generated"
	"github.com/iho/bankcore/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create inserts a ledger entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	id, err := txQueries(tx).CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ReferenceCode:        entry.ReferenceCode,
		AccountID:            entry.AccountID,
		EntryType:            string(entry.Type),
		Amount:               decimalToNumeric(entry.Amount),
		BalanceBefore:        decimalToNumeric(entry.BalanceBefore),
		BalanceAfter:         decimalToNumeric(entry.BalanceAfter),
		Description:          entry.Description,
		RelatedAccountNumber: entry.RelatedAccountNumber,
		CreatedAt:            timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		return translateError(err, nil)
	}

	entry.ID = id

	return nil
}

// ExistsByReference reports whether the reference code is taken.
func (r *EntryRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	return r.queries.ReferenceCodeExists(ctx, reference)
}

// GetByReference retrieves an entry by reference code.
func (r *EntryRepository) GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	row, err := r.queries.GetLedgerEntryByReference(ctx, reference)
	if err != nil {
		return nil, translateError(err, func() error { return domain.EntryNotFound(reference) })
	}

	return rowToEntry(generated.ListLedgerEntriesByAccountRow(row)), nil
}

// ListByAccount lists an account's entries most-recent-first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID int64, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntriesByAccount(ctx, generated.ListLedgerEntriesByAccountParams{
		AccountID:  accountID,
		StartAt:    optionalTimestamptz(filter.Start),
		EndAt:      optionalTimestamptz(filter.End),
		EntryType:  optionalText(filter.Type),
		OffsetRows: int32(filter.Offset),
		Limit:      optionalLimit(filter.Limit),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// SumSignedByAccount returns the signed total and count of the account's entries.
func (r *EntryRepository) SumSignedByAccount(ctx context.Context, accountID int64) (decimal.Decimal, int64, error) {
	row, err := r.queries.SumSignedLedgerEntriesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, 0, err
	}

	return numericToDecimal(row.Total), row.EntryCount, nil
}

func rowToEntry(row generated.ListLedgerEntriesByAccountRow) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:                   row.ID,
		ReferenceCode:        row.ReferenceCode,
		AccountID:            row.AccountID,
		AccountNumber:        row.AccountNumber,
		Type:                 domain.EntryType(row.EntryType),
		Amount:               numericToDecimal(row.Amount),
		BalanceBefore:        numericToDecimal(row.BalanceBefore),
		BalanceAfter:         numericToDecimal(row.BalanceAfter),
		Description:          row.Description,
		RelatedAccountNumber: row.RelatedAccountNumber,
		CreatedAt:            row.CreatedAt.Time,
	}
}
