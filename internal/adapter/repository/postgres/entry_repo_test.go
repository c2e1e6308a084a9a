package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

var entryColumns = []string{
	"id", "reference_code", "account_id", "entry_type", "amount", "balance_before",
	"balance_after", "description", "related_account_number", "created_at", "account_number",
}

func entryRow(id int64, ref, kind, amount, before, after string) []any {
	return []any{
		id, ref, int64(1), kind, num(amount), num(before), num(after),
		"", "", timeToPgTimestamptz(fixedTime), "ACC00000001",
	}
}

func TestEntryRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("INSERT INTO ledger_entries").
		WithArgs("TXN1", int64(1), "DEPOSIT", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"Deposit", "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))

	entry := &domain.LedgerEntry{
		ReferenceCode: "TXN1",
		AccountID:     1,
		Type:          domain.EntryTypeDeposit,
		Amount:        decimal.NewFromInt(100),
		BalanceBefore: decimal.Zero,
		BalanceAfter:  decimal.NewFromInt(100),
		Description:   "Deposit",
		CreatedAt:     fixedTime,
	}

	repo := NewEntryRepository(pool)
	if err := repo.Create(context.Background(), tx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID != 5 {
		t.Fatalf("expected id 5, got %d", entry.ID)
	}

	assertExpectations(t, pool)
}

func TestEntryRepositoryCreateDuplicateReference(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("INSERT INTO ledger_entries").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "ledger_entries_reference_code_key"})

	repo := NewEntryRepository(pool)
	err := repo.Create(context.Background(), tx, &domain.LedgerEntry{ReferenceCode: "TXN1"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestEntryRepositoryGetByReference(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("WHERE e.reference_code = \\$1").
		WithArgs("TXN1").
		WillReturnRows(pgxmock.NewRows(entryColumns).AddRow(entryRow(3, "TXN1", "WITHDRAWAL", "25.50", "100", "74.50")...))

	repo := NewEntryRepository(pool)
	entry, err := repo.GetByReference(context.Background(), "TXN1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Type != domain.EntryTypeWithdrawal || entry.AccountNumber != "ACC00000001" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.BalanceAfter.Equal(decimal.RequireFromString("74.50")) {
		t.Fatalf("expected balance after 74.50, got %s", entry.BalanceAfter)
	}
}

func TestEntryRepositoryGetByReferenceNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("WHERE e.reference_code").
		WithArgs("TXNMISSING").
		WillReturnError(pgx.ErrNoRows)

	repo := NewEntryRepository(pool)
	_, err := repo.GetByReference(context.Background(), "TXNMISSING")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryRepositoryListByAccount(t *testing.T) {
	pool := newMockPool(t)
	start := fixedTime
	kind := domain.EntryTypeDeposit

	pool.ExpectQuery("WHERE e.account_id = \\$1").
		WithArgs(int64(1), timeToPgTimestamptz(start), pgtype.Timestamptz{},
			pgtype.Text{String: "DEPOSIT", Valid: true}, int32(0), pgtype.Int4{}).
		WillReturnRows(pgxmock.NewRows(entryColumns).
			AddRow(entryRow(2, "TXN2", "DEPOSIT", "10", "100", "110")...).
			AddRow(entryRow(1, "TXN1", "DEPOSIT", "100", "0", "100")...))

	repo := NewEntryRepository(pool)
	entries, err := repo.ListByAccount(context.Background(), 1, domain.EntryFilter{Start: &start, Type: &kind})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || entries[0].ReferenceCode != "TXN2" {
		t.Fatalf("expected most-recent-first entries, got %+v", entries)
	}

	assertExpectations(t, pool)
}

func TestEntryRepositorySumSignedByAccount(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("COALESCE\\(SUM").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"total", "entry_count"}).AddRow(num("-42.17"), int64(6)))

	repo := NewEntryRepository(pool)
	total, count, err := repo.SumSignedByAccount(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("-42.17")) || count != 6 {
		t.Fatalf("expected -42.17 over 6 entries, got %s over %d", total, count)
	}
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1004.17", "-500.00", "0.01", "123456789.99"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Fatalf("expected %s, got %s", d, got)
		}
	}

	if got := numericToDecimal(pgtype.Numeric{}); !got.IsZero() {
		t.Fatalf("expected zero for NULL numeric, got %s", got)
	}
}
