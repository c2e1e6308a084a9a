package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// ReconciliationUseCase checks stored balances against posted entries.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	clock       Clock
	logger      zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	clock Clock,
	logger zerolog.Logger,
) *ReconciliationUseCase {
	if clock == nil {
		clock = SystemClock{}
	}

	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		clock:       clock,
		logger:      logger,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	LastChecked       time.Time
	AccountNumber     string
	InitialBalance    decimal.Decimal
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	AccountID         int64
	EntryCount        int64
	IsReconciled      bool
}

// ReconcileAccount recomputes the balance as the opening deposit plus the
// signed sum of every entry and compares it with the stored balance.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, number string) (*ReconciliationResult, error) {
	acct, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, acct)
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, acct domain.Account) (*ReconciliationResult, error) {
	base := acct.Base()

	sum, count, err := uc.entryRepo.SumSignedByAccount(ctx, base.ID)
	if err != nil {
		return nil, err
	}

	calculated := base.InitialBalance.Add(sum)
	diff := base.Balance.Sub(calculated)

	return &ReconciliationResult{
		AccountID:         base.ID,
		AccountNumber:     base.AccountNumber,
		InitialBalance:    base.InitialBalance,
		RecordedBalance:   base.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		EntryCount:        count,
		IsReconciled:      diff.IsZero(),
		LastChecked:       uc.clock.Now(),
	}, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	accounts, err := uc.accountRepo.List(ctx, domain.AccountFilter{})
	if err != nil {
		return nil, err
	}

	results := make([]*ReconciliationResult, 0, len(accounts))
	for _, acct := range accounts {
		result, err := uc.reconcile(ctx, acct)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", acct.Base().AccountNumber, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	CheckedAt          time.Time
	Discrepancies      []*ReconciliationResult
	TotalAccounts      int
	ReconciledAccounts int
}

// Consistent reports whether every account reconciled.
func (r *ReconciliationReport) Consistent() bool {
	return len(r.Discrepancies) == 0
}

// GenerateReconciliationReport reconciles every account and lists the ones
// whose stored balance disagrees with their entries.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     uc.clock.Now(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
			continue
		}

		uc.logger.Error().
			Str("account_number", result.AccountNumber).
			Str("recorded", domain.FormatMoney(result.RecordedBalance)).
			Str("calculated", domain.FormatMoney(result.CalculatedBalance)).
			Msg("balance discrepancy")

		report.Discrepancies = append(report.Discrepancies, result)
	}

	return report, nil
}
