package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// TransferUseCase moves funds between two accounts as one atomic unit.
type TransferUseCase struct {
	deps Deps
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(deps Deps) *TransferUseCase {
	return &TransferUseCase{deps: deps.withDefaults()}
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	SourceAccountNumber string
	TargetAccountNumber string
	Description         string
	Amount              decimal.Decimal
}

// Transfer debits the source and credits the target in one transaction
// and returns both entries. Either both balance changes and both entries
// commit, or nothing does.
func (uc *TransferUseCase) Transfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	start := time.Now()

	var result *domain.Transfer

	err := uc.deps.atomically(ctx, func(ctx context.Context, tx Transaction) error {
		// Both rows are locked in ID order so opposing transfers cannot deadlock.
		accounts, err := uc.deps.Accounts.GetByNumbersForUpdate(ctx, tx,
			[]string{input.SourceAccountNumber, input.TargetAccountNumber})
		if err != nil {
			return err
		}

		source, target, err := pickPair(accounts, input.SourceAccountNumber, input.TargetAccountNumber)
		if err != nil {
			return err
		}

		if source.Base().ID == target.Base().ID {
			return domain.ErrSelfTransfer
		}

		if err := domain.ValidateAmount(input.Amount); err != nil {
			return err
		}

		sourceBefore := source.Base().Balance
		if err := source.Withdraw(input.Amount); err != nil {
			return err
		}

		targetBefore := target.Base().Balance
		if err := target.Deposit(input.Amount); err != nil {
			return err
		}

		now := uc.deps.Clock.Now()
		source.Base().UpdatedAt = now
		target.Base().UpdatedAt = now

		sourceNumber := source.Base().AccountNumber
		targetNumber := target.Base().AccountNumber

		out := domain.NewEntry(source, domain.EntryTypeTransferOut, input.Amount, sourceBefore,
			domain.TransferOutDescription(targetNumber, input.Description), "", now)
		out.RelatedAccountNumber = targetNumber

		in := domain.NewEntry(target, domain.EntryTypeTransferIn, input.Amount, targetBefore,
			domain.TransferInDescription(sourceNumber, input.Description), "", now)
		in.RelatedAccountNumber = sourceNumber

		for _, e := range []*domain.LedgerEntry{out, in} {
			if err := uc.deps.postEntry(ctx, tx, e, domain.EventTypeTransferCompleted); err != nil {
				return err
			}
		}

		if err := uc.deps.Accounts.Update(ctx, tx, source); err != nil {
			return err
		}

		if err := uc.deps.Accounts.Update(ctx, tx, target); err != nil {
			return err
		}

		result = &domain.Transfer{Source: out, Target: in}

		return nil
	})
	if err != nil {
		uc.deps.recordFailure("transfer", err)
		uc.deps.Logger.Debug().
			Err(err).
			Str("source", input.SourceAccountNumber).
			Str("target", input.TargetAccountNumber).
			Msg("transfer rejected")

		return nil, err
	}

	uc.deps.invalidate(ctx, result.Source.AccountNumber, result.Target.AccountNumber)
	uc.deps.recordSuccess("transfer", result.Source, result.Target)

	if uc.deps.Metrics != nil {
		uc.deps.Metrics.TransferDuration.Observe(time.Since(start).Seconds())
		uc.deps.Metrics.TransferAmount.Observe(input.Amount.InexactFloat64())
	}

	return result, nil
}

// pickPair finds the source and target among the locked accounts. When
// both numbers name the same account it is returned twice.
func pickPair(accounts []domain.Account, sourceNumber, targetNumber string) (domain.Account, domain.Account, error) {
	var source, target domain.Account

	for _, a := range accounts {
		if a.Base().AccountNumber == sourceNumber {
			source = a
		}

		if a.Base().AccountNumber == targetNumber {
			target = a
		}
	}

	if source == nil {
		return nil, nil, domain.AccountNotFound(sourceNumber)
	}

	if target == nil {
		return nil, nil, domain.AccountNotFound(targetNumber)
	}

	return source, target, nil
}
