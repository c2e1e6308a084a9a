package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// AccountUseCase handles account lifecycle and single-account balance changes.
type AccountUseCase struct {
	deps Deps
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(deps Deps) *AccountUseCase {
	return &AccountUseCase{deps: deps.withDefaults()}
}

// AccountHolder is the identity data every new account carries.
type AccountHolder struct {
	CustomerID     string
	HolderName     string
	Email          string
	InitialBalance decimal.Decimal
}

// CreateSavingsAccountInput represents input for opening a savings account.
// Nil policy fields take the domain defaults.
type CreateSavingsAccountInput struct {
	AccountHolder

	MinimumBalance *decimal.Decimal
	InterestRate   *decimal.Decimal
}

// CreateCheckingAccountInput represents input for opening a checking account.
type CreateCheckingAccountInput struct {
	AccountHolder

	OverdraftLimit *decimal.Decimal
	MonthlyFee     *decimal.Decimal
}

// CreateSavingsAccount opens a savings account.
func (uc *AccountUseCase) CreateSavingsAccount(ctx context.Context, input CreateSavingsAccountInput) (*domain.SavingsAccount, error) {
	minimum := valueOr(input.MinimumBalance, domain.DefaultMinimumBalance)
	rate := valueOr(input.InterestRate, domain.DefaultInterestRate)

	if err := domain.ValidateLimit("minimum balance", minimum); err != nil {
		return nil, err
	}

	if err := domain.ValidateInterestRate(rate); err != nil {
		return nil, err
	}

	acct := &domain.SavingsAccount{MinimumBalance: minimum, InterestRate: rate}
	if err := uc.create(ctx, acct, input.AccountHolder); err != nil {
		return nil, err
	}

	return acct, nil
}

// CreateCheckingAccount opens a checking account.
func (uc *AccountUseCase) CreateCheckingAccount(ctx context.Context, input CreateCheckingAccountInput) (*domain.CheckingAccount, error) {
	overdraft := valueOr(input.OverdraftLimit, domain.DefaultOverdraftLimit)
	fee := valueOr(input.MonthlyFee, domain.DefaultMonthlyFee)

	if err := domain.ValidateLimit("overdraft limit", overdraft); err != nil {
		return nil, err
	}

	if err := domain.ValidateLimit("monthly fee", fee); err != nil {
		return nil, err
	}

	acct := &domain.CheckingAccount{OverdraftLimit: overdraft, MonthlyFee: fee}
	if err := uc.create(ctx, acct, input.AccountHolder); err != nil {
		return nil, err
	}

	return acct, nil
}

func (uc *AccountUseCase) create(ctx context.Context, acct domain.Account, holder AccountHolder) error {
	if err := domain.ValidateHolderName(holder.HolderName); err != nil {
		return err
	}

	if holder.Email != "" {
		if err := domain.ValidateEmail(holder.Email); err != nil {
			return err
		}
	}

	if err := domain.ValidateInitialBalance(holder.InitialBalance); err != nil {
		return err
	}

	base := acct.Base()
	base.CustomerID = holder.CustomerID
	base.HolderName = holder.HolderName
	base.Email = holder.Email
	base.Balance = holder.InitialBalance
	base.InitialBalance = holder.InitialBalance
	base.Active = true

	err := uc.deps.atomically(ctx, func(ctx context.Context, tx Transaction) error {
		number, err := uc.deps.newAccountNumber(ctx)
		if err != nil {
			return err
		}

		now := uc.deps.Clock.Now()
		base.AccountNumber = number
		base.CreatedAt = now
		base.UpdatedAt = now
		base.Version = 0

		if err := uc.deps.Accounts.Create(ctx, tx, acct); err != nil {
			return err
		}

		return uc.deps.emit(ctx, tx, domain.NewAccountEvent(uc.deps.IDs.NewEventID(), domain.EventTypeAccountCreated, acct, now))
	})
	if err != nil {
		uc.deps.recordFailure("create", err)
		return err
	}

	if uc.deps.Metrics != nil {
		uc.deps.Metrics.AccountsCreated.WithLabelValues(string(acct.AccountType())).Inc()
	}

	uc.deps.Logger.Info().
		Str("account_number", base.AccountNumber).
		Str("account_type", string(acct.AccountType())).
		Msg("account created")

	return nil
}

// GetAccount retrieves an account by its account number.
func (uc *AccountUseCase) GetAccount(ctx context.Context, number string) (domain.Account, error) {
	return uc.deps.getAccount(ctx, number)
}

// GetAccountByID retrieves an account by its internal ID.
func (uc *AccountUseCase) GetAccountByID(ctx context.Context, id int64) (domain.Account, error) {
	return uc.deps.Accounts.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Active     *bool
	Type       *domain.AccountType
	CustomerID string
	Limit      int
	Offset     int
}

// ListAccounts lists accounts matching the input predicates.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.deps.Accounts.List(ctx, domain.AccountFilter{
		Active:     input.Active,
		Type:       input.Type,
		CustomerID: input.CustomerID,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
}

// MovementInput represents a deposit or withdrawal request.
type MovementInput struct {
	AccountNumber string
	Description   string
	Amount        decimal.Decimal
}

// Deposit credits an account and posts a DEPOSIT entry.
func (uc *AccountUseCase) Deposit(ctx context.Context, input MovementInput) (*domain.LedgerEntry, error) {
	return uc.move(ctx, input, domain.EntryTypeDeposit)
}

// Withdraw debits an account under its variant's policy and posts a WITHDRAWAL entry.
func (uc *AccountUseCase) Withdraw(ctx context.Context, input MovementInput) (*domain.LedgerEntry, error) {
	return uc.move(ctx, input, domain.EntryTypeWithdrawal)
}

func (uc *AccountUseCase) move(ctx context.Context, input MovementInput, typ domain.EntryType) (*domain.LedgerEntry, error) {
	operation, description, eventType := "deposit", domain.DescriptionDeposit, domain.EventTypeFundsDeposited
	if typ == domain.EntryTypeWithdrawal {
		operation, description, eventType = "withdraw", domain.DescriptionWithdrawal, domain.EventTypeFundsWithdrawn
	}

	if input.Description != "" {
		description = input.Description
	}

	var entry *domain.LedgerEntry

	err := uc.deps.atomically(ctx, func(ctx context.Context, tx Transaction) error {
		acct, err := uc.deps.Accounts.GetByNumberForUpdate(ctx, tx, input.AccountNumber)
		if err != nil {
			return err
		}

		before := acct.Base().Balance
		if typ == domain.EntryTypeDeposit {
			err = acct.Deposit(input.Amount)
		} else {
			err = acct.Withdraw(input.Amount)
		}
		if err != nil {
			return err
		}

		now := uc.deps.Clock.Now()
		acct.Base().UpdatedAt = now
		entry = domain.NewEntry(acct, typ, input.Amount, before, description, "", now)

		if err := uc.deps.postEntry(ctx, tx, entry, eventType); err != nil {
			return err
		}

		return uc.deps.Accounts.Update(ctx, tx, acct)
	})
	if err != nil {
		uc.deps.recordFailure(operation, err)
		return nil, err
	}

	uc.deps.invalidate(ctx, input.AccountNumber)
	uc.deps.recordSuccess(operation, entry)

	return entry, nil
}

// Deactivate stops an account from accepting balance changes.
func (uc *AccountUseCase) Deactivate(ctx context.Context, number string) (domain.Account, error) {
	return uc.setActive(ctx, number, false)
}

// Activate re-enables balance changes on an account.
func (uc *AccountUseCase) Activate(ctx context.Context, number string) (domain.Account, error) {
	return uc.setActive(ctx, number, true)
}

func (uc *AccountUseCase) setActive(ctx context.Context, number string, active bool) (domain.Account, error) {
	var acct domain.Account

	err := uc.deps.atomically(ctx, func(ctx context.Context, tx Transaction) error {
		var err error

		acct, err = uc.deps.Accounts.GetByNumberForUpdate(ctx, tx, number)
		if err != nil {
			return err
		}

		now := uc.deps.Clock.Now()
		eventType := domain.EventTypeAccountDeactivated
		if active {
			acct.Base().Activate(now)
			eventType = domain.EventTypeAccountActivated
		} else {
			acct.Base().Deactivate(now)
		}

		if err := uc.deps.Accounts.Update(ctx, tx, acct); err != nil {
			return err
		}

		return uc.deps.emit(ctx, tx, domain.NewAccountEvent(uc.deps.IDs.NewEventID(), eventType, acct, now))
	})
	if err != nil {
		return nil, err
	}

	uc.deps.invalidate(ctx, number)
	uc.deps.recordSuccess(activeOperation(active))

	return acct, nil
}

func activeOperation(active bool) string {
	if active {
		return "activate"
	}

	return "deactivate"
}

func valueOr(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}

	return *v
}
