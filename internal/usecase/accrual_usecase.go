package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// AccrualUseCase applies monthly interest to savings accounts and monthly
// fees to checking accounts. It holds no schedule of its own: every call
// posts again, so callers run it once per period.
type AccrualUseCase struct {
	deps Deps
}

// NewAccrualUseCase creates a new AccrualUseCase.
func NewAccrualUseCase(deps Deps) *AccrualUseCase {
	return &AccrualUseCase{deps: deps.withDefaults()}
}

// InterestOutcome reports one account's interest computation.
type InterestOutcome struct {
	CalculatedAt   time.Time
	Err            error
	Entry          *domain.LedgerEntry
	AccountNumber  string
	BalanceBefore  decimal.Decimal
	InterestRate   decimal.Decimal
	InterestAmount decimal.Decimal
	BalanceAfter   decimal.Decimal
	AccountID      int64
}

// Failed reports whether the account could not be processed.
func (o InterestOutcome) Failed() bool {
	return o.Err != nil
}

// FeeOutcome reports one account's fee charge.
type FeeOutcome struct {
	ChargedAt     time.Time
	Err           error
	Entry         *domain.LedgerEntry
	AccountNumber string
	BalanceBefore decimal.Decimal
	Fee           decimal.Decimal
	BalanceAfter  decimal.Decimal
	AccountID     int64
}

// Failed reports whether the account could not be charged.
func (o FeeOutcome) Failed() bool {
	return o.Err != nil
}

// CalculateInterest previews next month's interest without posting it.
func (uc *AccrualUseCase) CalculateInterest(ctx context.Context, number string) (*InterestOutcome, error) {
	acct, err := uc.deps.Accounts.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	savings, err := domain.AsSavings(acct)
	if err != nil {
		return nil, err
	}

	interest := savings.CalculateMonthlyInterest()

	return &InterestOutcome{
		CalculatedAt:   uc.deps.Clock.Now(),
		AccountID:      savings.ID,
		AccountNumber:  savings.AccountNumber,
		BalanceBefore:  savings.Balance,
		InterestRate:   savings.InterestRate,
		InterestAmount: interest,
		BalanceAfter:   savings.Balance.Add(interest),
	}, nil
}

// ApplyInterest credits one savings account's monthly interest. Nothing is
// posted when the computed interest is zero.
func (uc *AccrualUseCase) ApplyInterest(ctx context.Context, number string) (*InterestOutcome, error) {
	var outcome *InterestOutcome

	err := uc.deps.atomically(ctx, func(ctx context.Context, tx Transaction) error {
		acct, err := uc.deps.Accounts.GetByNumberForUpdate(ctx, tx, number)
		if err != nil {
			return err
		}

		savings, err := domain.AsSavings(acct)
		if err != nil {
			return err
		}

		before := savings.Balance
		now := uc.deps.Clock.Now()

		interest, err := savings.ApplyMonthlyInterest()
		if err != nil {
			return err
		}

		outcome = &InterestOutcome{
			CalculatedAt:   now,
			AccountID:      savings.ID,
			AccountNumber:  savings.AccountNumber,
			BalanceBefore:  before,
			InterestRate:   savings.InterestRate,
			InterestAmount: interest,
			BalanceAfter:   savings.Balance,
		}

		if interest.IsZero() {
			return nil
		}

		savings.UpdatedAt = now
		outcome.Entry = domain.NewEntry(savings, domain.EntryTypeInterest, interest, before, domain.DescriptionInterest, "", now)

		if err := uc.deps.postEntry(ctx, tx, outcome.Entry, domain.EventTypeInterestApplied); err != nil {
			return err
		}

		return uc.deps.Accounts.Update(ctx, tx, savings)
	})
	if err != nil {
		uc.deps.recordFailure("interest", err)
		return nil, err
	}

	if outcome.Entry != nil {
		uc.deps.invalidate(ctx, number)
		uc.deps.recordSuccess("interest", outcome.Entry)
	}

	return outcome, nil
}

// ApplyInterestBatch applies interest to each named account in its own
// transaction. A failing account is reported in its outcome and the batch
// moves on.
func (uc *AccrualUseCase) ApplyInterestBatch(ctx context.Context, numbers []string) []InterestOutcome {
	start := time.Now()
	outcomes := make([]InterestOutcome, 0, len(numbers))
	failed := 0

	for _, number := range numbers {
		outcome, err := uc.ApplyInterest(ctx, number)
		if err != nil {
			failed++
			uc.deps.Logger.Error().
				Err(err).
				Str("account_number", number).
				Msg("failed to apply interest")

			outcomes = append(outcomes, InterestOutcome{
				AccountNumber: number,
				CalculatedAt:  uc.deps.Clock.Now(),
				Err:           err,
			})

			continue
		}

		uc.deps.Logger.Debug().
			Str("account_number", number).
			Str("interest", domain.FormatMoney(outcome.InterestAmount)).
			Msg("interest applied")

		outcomes = append(outcomes, *outcome)
	}

	uc.observeBatch(accrualKindInterest, len(numbers), failed, start)

	return outcomes
}

// RunMonthlyAccrual applies interest to every active savings account.
// Only a failure to list the accounts is returned as an error.
func (uc *AccrualUseCase) RunMonthlyAccrual(ctx context.Context) ([]InterestOutcome, error) {
	numbers, err := uc.activeNumbers(ctx, domain.AccountTypeSavings)
	if err != nil {
		return nil, err
	}

	uc.deps.Logger.Info().Int("accounts", len(numbers)).Msg("starting monthly interest accrual")

	return uc.ApplyInterestBatch(ctx, numbers), nil
}

// ApplyMonthlyFee charges one checking account its monthly fee. Nothing is
// posted when the fee is zero.
func (uc *AccrualUseCase) ApplyMonthlyFee(ctx context.Context, number string) (*FeeOutcome, error) {
	var outcome *FeeOutcome

	err := uc.deps.atomically(ctx, func(ctx context.Context, tx Transaction) error {
		acct, err := uc.deps.Accounts.GetByNumberForUpdate(ctx, tx, number)
		if err != nil {
			return err
		}

		checking, err := domain.AsChecking(acct)
		if err != nil {
			return err
		}

		before := checking.Balance
		now := uc.deps.Clock.Now()

		fee, err := checking.ApplyMonthlyFee()
		if err != nil {
			return err
		}

		outcome = &FeeOutcome{
			ChargedAt:     now,
			AccountID:     checking.ID,
			AccountNumber: checking.AccountNumber,
			BalanceBefore: before,
			Fee:           fee,
			BalanceAfter:  checking.Balance,
		}

		if fee.IsZero() {
			return nil
		}

		checking.UpdatedAt = now
		outcome.Entry = domain.NewEntry(checking, domain.EntryTypeFee, fee, before, domain.DescriptionFee, "", now)

		if err := uc.deps.postEntry(ctx, tx, outcome.Entry, domain.EventTypeFeeCharged); err != nil {
			return err
		}

		return uc.deps.Accounts.Update(ctx, tx, checking)
	})
	if err != nil {
		uc.deps.recordFailure("fee", err)
		return nil, err
	}

	if outcome.Entry != nil {
		uc.deps.invalidate(ctx, number)
		uc.deps.recordSuccess("fee", outcome.Entry)
	}

	return outcome, nil
}

// ApplyFeeBatch charges each named account in its own transaction,
// isolating failures the same way ApplyInterestBatch does.
func (uc *AccrualUseCase) ApplyFeeBatch(ctx context.Context, numbers []string) []FeeOutcome {
	start := time.Now()
	outcomes := make([]FeeOutcome, 0, len(numbers))
	failed := 0

	for _, number := range numbers {
		outcome, err := uc.ApplyMonthlyFee(ctx, number)
		if err != nil {
			failed++
			uc.deps.Logger.Error().
				Err(err).
				Str("account_number", number).
				Msg("failed to charge monthly fee")

			outcomes = append(outcomes, FeeOutcome{
				AccountNumber: number,
				ChargedAt:     uc.deps.Clock.Now(),
				Err:           err,
			})

			continue
		}

		outcomes = append(outcomes, *outcome)
	}

	uc.observeBatch(accrualKindFee, len(numbers), failed, start)

	return outcomes
}

// RunMonthlyFees charges every active checking account.
func (uc *AccrualUseCase) RunMonthlyFees(ctx context.Context) ([]FeeOutcome, error) {
	numbers, err := uc.activeNumbers(ctx, domain.AccountTypeChecking)
	if err != nil {
		return nil, err
	}

	uc.deps.Logger.Info().Int("accounts", len(numbers)).Msg("starting monthly fee accrual")

	return uc.ApplyFeeBatch(ctx, numbers), nil
}

func (uc *AccrualUseCase) activeNumbers(ctx context.Context, typ domain.AccountType) ([]string, error) {
	active := true

	accounts, err := uc.deps.Accounts.List(ctx, domain.AccountFilter{Active: &active, Type: &typ})
	if err != nil {
		return nil, err
	}

	numbers := make([]string, 0, len(accounts))
	for _, a := range accounts {
		numbers = append(numbers, a.Base().AccountNumber)
	}

	return numbers, nil
}

func (uc *AccrualUseCase) observeBatch(kind string, processed, failed int, start time.Time) {
	uc.deps.Logger.Info().
		Str("kind", kind).
		Int("processed", processed-failed).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("accrual batch completed")

	if uc.deps.Metrics == nil {
		return
	}

	uc.deps.Metrics.AccrualRuns.WithLabelValues(kind).Add(float64(processed))
	uc.deps.Metrics.AccrualFailures.WithLabelValues(kind).Add(float64(failed))
	uc.deps.Metrics.AccrualDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
