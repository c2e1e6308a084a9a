package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType tags the account variant.
type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
)

// Valid reports whether t names a known variant.
func (t AccountType) Valid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

// Variant defaults applied when the creator leaves a field unset.
var (
	DefaultMinimumBalance = decimal.RequireFromString("100.00")
	DefaultInterestRate   = decimal.RequireFromString("2.5")
	DefaultOverdraftLimit = decimal.RequireFromString("500.00")
	DefaultMonthlyFee     = decimal.RequireFromString("10.00")
)

// Account is the capability set shared by every account variant.
// Implementations are plain state mutators; callers serialize access.
type Account interface {
	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error
	AccountType() AccountType
	IsActive() bool
	Base() *BaseAccount
}

// BaseAccount holds the state common to all variants.
type BaseAccount struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AccountNumber  string
	CustomerID     string
	HolderName     string
	Email          string
	Balance        decimal.Decimal
	InitialBalance decimal.Decimal
	ID             int64
	Version        int64
	Active         bool
}

// Base returns the shared state.
func (a *BaseAccount) Base() *BaseAccount {
	return a
}

// IsActive reports whether the account accepts balance changes.
func (a *BaseAccount) IsActive() bool {
	return a.Active
}

// Deposit credits amount to the balance.
func (a *BaseAccount) Deposit(amount decimal.Decimal) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}

	a.Balance = a.Balance.Add(amount)

	return nil
}

// Deactivate stops the account from accepting balance changes.
func (a *BaseAccount) Deactivate(now time.Time) {
	a.Active = false
	a.UpdatedAt = now
}

// Activate re-enables balance changes.
func (a *BaseAccount) Activate(now time.Time) {
	a.Active = true
	a.UpdatedAt = now
}

func (a *BaseAccount) checkMutable(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	if !a.Active {
		return fmt.Errorf("%w: %s", ErrInactiveAccount, a.AccountNumber)
	}

	return nil
}

// SavingsAccount is an interest-bearing account with a balance floor.
type SavingsAccount struct {
	BaseAccount

	MinimumBalance decimal.Decimal
	InterestRate   decimal.Decimal // percent per annum
}

// AccountType returns AccountTypeSavings.
func (a *SavingsAccount) AccountType() AccountType {
	return AccountTypeSavings
}

// Withdraw debits amount unless the balance would fall below MinimumBalance.
func (a *SavingsAccount) Withdraw(amount decimal.Decimal) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}

	newBalance := a.Balance.Sub(amount)
	if newBalance.LessThan(a.MinimumBalance) {
		return newMinimumBalanceViolation(amount, a.Balance, a.MinimumBalance)
	}

	a.Balance = newBalance

	return nil
}

// CalculateMonthlyInterest returns the interest one month earns on the
// current balance. The yearly figure is rounded before the monthly division.
func (a *SavingsAccount) CalculateMonthlyInterest() decimal.Decimal {
	return monthlyRate(a.Balance, a.InterestRate)
}

// ApplyMonthlyInterest deposits the monthly interest when it is positive
// and returns the amount credited.
func (a *SavingsAccount) ApplyMonthlyInterest() (decimal.Decimal, error) {
	if !a.Active {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInactiveAccount, a.AccountNumber)
	}

	interest := a.CalculateMonthlyInterest()
	if !interest.IsPositive() {
		return decimal.Zero, nil
	}

	if err := a.Deposit(interest); err != nil {
		return decimal.Zero, err
	}

	return interest, nil
}

// CheckingAccount may run a negative balance down to -OverdraftLimit.
type CheckingAccount struct {
	BaseAccount

	OverdraftLimit decimal.Decimal
	MonthlyFee     decimal.Decimal
}

// AccountType returns AccountTypeChecking.
func (a *CheckingAccount) AccountType() AccountType {
	return AccountTypeChecking
}

// Withdraw debits amount unless the balance would pass the overdraft limit.
func (a *CheckingAccount) Withdraw(amount decimal.Decimal) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}

	newBalance := a.Balance.Sub(amount)
	if newBalance.LessThan(a.OverdraftLimit.Neg()) {
		return newOverdraftViolation(amount, a.Balance, a.OverdraftLimit)
	}

	a.Balance = newBalance

	return nil
}

// AvailableBalance is the balance plus the unused overdraft.
func (a *CheckingAccount) AvailableBalance() decimal.Decimal {
	return a.Balance.Add(a.OverdraftLimit)
}

// IsInOverdraft reports a negative balance.
func (a *CheckingAccount) IsInOverdraft() bool {
	return a.Balance.IsNegative()
}

// ApplyMonthlyFee withdraws MonthlyFee when it is positive and returns the
// amount charged. A policy breach is returned to the caller untouched.
func (a *CheckingAccount) ApplyMonthlyFee() (decimal.Decimal, error) {
	if !a.Active {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInactiveAccount, a.AccountNumber)
	}

	if !a.MonthlyFee.IsPositive() {
		return decimal.Zero, nil
	}

	if err := a.Withdraw(a.MonthlyFee); err != nil {
		return decimal.Zero, err
	}

	return a.MonthlyFee, nil
}

// CloneAccount returns a deep copy of a, preserving its variant.
func CloneAccount(a Account) Account {
	switch v := a.(type) {
	case *SavingsAccount:
		cp := *v
		return &cp
	case *CheckingAccount:
		cp := *v
		return &cp
	default:
		return nil
	}
}

// AsSavings returns a as a savings account or ErrInvalidOperation.
func AsSavings(a Account) (*SavingsAccount, error) {
	s, ok := a.(*SavingsAccount)
	if !ok {
		return nil, fmt.Errorf("%w: account %s is %s, not %s",
			ErrInvalidOperation, a.Base().AccountNumber, a.AccountType(), AccountTypeSavings)
	}

	return s, nil
}

// AsChecking returns a as a checking account or ErrInvalidOperation.
func AsChecking(a Account) (*CheckingAccount, error) {
	c, ok := a.(*CheckingAccount)
	if !ok {
		return nil, fmt.Errorf("%w: account %s is %s, not %s",
			ErrInvalidOperation, a.Base().AccountNumber, a.AccountType(), AccountTypeChecking)
	}

	return c, nil
}
