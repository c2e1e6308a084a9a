package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// LedgerUseCase reconstructs account history from posted entries.
type LedgerUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// Window is an account's activity over an inclusive time range.
type Window struct {
	Start          time.Time
	End            time.Time
	Totals         map[domain.EntryType]decimal.Decimal
	AccountNumber  string
	Entries        []*domain.LedgerEntry
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	AccountID      int64
	// FromCurrentBalance is set when no entry fell inside the window and
	// both balances were taken from the account's present balance.
	FromCurrentBalance bool
}

// Count is the number of entries in the window.
func (w *Window) Count() int {
	return len(w.Entries)
}

// ReconstructWindow returns the account's entries in [start, end],
// most-recent-first, with opening and closing balances and per-type totals.
func (uc *LedgerUseCase) ReconstructWindow(ctx context.Context, number string, start, end time.Time) (*Window, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s precedes start %s", domain.ErrInvalidOperation,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	acct, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	return uc.window(ctx, acct, start, end)
}

func (uc *LedgerUseCase) window(ctx context.Context, acct domain.Account, start, end time.Time) (*Window, error) {
	base := acct.Base()

	entries, err := uc.entryRepo.ListByAccount(ctx, base.ID, domain.EntryFilter{Start: &start, End: &end})
	if err != nil {
		return nil, err
	}

	w := &Window{
		Start:         start,
		End:           end,
		AccountID:     base.ID,
		AccountNumber: base.AccountNumber,
		Entries:       entries,
		Totals:        make(map[domain.EntryType]decimal.Decimal, len(domain.EntryTypes)),
	}

	for _, t := range domain.EntryTypes {
		w.Totals[t] = decimal.Zero
	}

	for _, e := range entries {
		w.Totals[e.Type] = w.Totals[e.Type].Add(e.Amount)
	}

	if len(entries) == 0 {
		// No point-in-time data inside the window; report present balance.
		w.OpeningBalance = base.Balance
		w.ClosingBalance = base.Balance
		w.FromCurrentBalance = true

		return w, nil
	}

	w.OpeningBalance = entries[len(entries)-1].BalanceBefore
	w.ClosingBalance = entries[0].BalanceAfter

	return w, nil
}

// MonthlyReport summarizes one calendar month of an account.
type MonthlyReport struct {
	Window
	AccountType domain.AccountType
	HolderName  string
	Year        int
	Month       time.Month
}

// TotalCredits sums the credit entry types.
func (r *MonthlyReport) TotalCredits() decimal.Decimal {
	total := decimal.Zero

	for t, amount := range r.Totals {
		if t.IsCredit() {
			total = total.Add(amount)
		}
	}

	return total
}

// TotalDebits sums the debit entry types.
func (r *MonthlyReport) TotalDebits() decimal.Decimal {
	total := decimal.Zero

	for t, amount := range r.Totals {
		if !t.IsCredit() {
			total = total.Add(amount)
		}
	}

	return total
}

// MonthlyReport builds the report for the given month, from the first day
// at 00:00:00 to the last day at 23:59:59 UTC.
func (uc *LedgerUseCase) MonthlyReport(ctx context.Context, number string, year int, month time.Month) (*MonthlyReport, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", domain.ErrInvalidOperation, month)
	}

	start, end := MonthBounds(year, month)

	acct, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	w, err := uc.window(ctx, acct, start, end)
	if err != nil {
		return nil, err
	}

	return &MonthlyReport{
		Window:      *w,
		AccountType: acct.AccountType(),
		HolderName:  acct.Base().HolderName,
		Year:        year,
		Month:       month,
	}, nil
}

// MonthBounds returns the first and last second of a calendar month in UTC.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	return start, end
}
