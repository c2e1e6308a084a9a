package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Amount errors
	ErrInvalidAmount = errors.New("invalid amount")

	// Account errors
	ErrInactiveAccount  = errors.New("account is not active")
	ErrPolicyViolation  = errors.New("withdrawal policy violation")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidOperation = errors.New("invalid operation")

	// Storage errors
	ErrConflict      = errors.New("identifier conflict")
	ErrEntryNotFound = errors.New("ledger entry not found")
)

// Error kinds exposed to callers.
const (
	KindInvalidAmount    = "INVALID_AMOUNT"
	KindInactiveAccount  = "INACTIVE_ACCOUNT"
	KindPolicyViolation  = "POLICY_VIOLATION"
	KindAccountNotFound  = "ACCOUNT_NOT_FOUND"
	KindEntryNotFound    = "ENTRY_NOT_FOUND"
	KindInvalidOperation = "INVALID_OPERATION"
	KindConflict         = "CONFLICT"
	KindInternal         = "INTERNAL"
)

// PolicyViolationError reports a withdrawal denied by an account's floor policy.
type PolicyViolationError struct {
	Reason           string
	Amount           decimal.Decimal
	Balance          decimal.Decimal
	Limit            decimal.Decimal
	ResultingBalance decimal.Decimal
	message          string
}

func (e *PolicyViolationError) Error() string {
	return e.message
}

func (e *PolicyViolationError) Unwrap() error {
	return ErrPolicyViolation
}

// Details returns the numeric context of the violation keyed by name.
func (e *PolicyViolationError) Details() map[string]string {
	return map[string]string{
		"reason":            e.Reason,
		"amount":            FormatMoney(e.Amount),
		"balance":           FormatMoney(e.Balance),
		"limit":             FormatMoney(e.Limit),
		"resulting_balance": FormatMoney(e.ResultingBalance),
	}
}

func newMinimumBalanceViolation(amount, balance, minimum decimal.Decimal) *PolicyViolationError {
	resulting := balance.Sub(amount)
	return &PolicyViolationError{
		Reason:           "below minimum balance",
		Amount:           amount,
		Balance:          balance,
		Limit:            minimum,
		ResultingBalance: resulting,
		message: fmt.Sprintf("Withdrawal denied: Resulting balance (%s) would be below minimum balance (%s)",
			FormatMoney(resulting), FormatMoney(minimum)),
	}
}

func newOverdraftViolation(amount, balance, overdraftLimit decimal.Decimal) *PolicyViolationError {
	return &PolicyViolationError{
		Reason:           "exceeds overdraft limit",
		Amount:           amount,
		Balance:          balance,
		Limit:            overdraftLimit,
		ResultingBalance: balance.Sub(amount),
		message: fmt.Sprintf("Withdrawal denied: Amount (%s) exceeds available funds including overdraft limit (%s). Current balance: %s, Overdraft limit: %s",
			FormatMoney(amount), FormatMoney(balance.Add(overdraftLimit)), FormatMoney(balance), FormatMoney(overdraftLimit)),
	}
}

// KindOf classifies err into one of the exported error kinds.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInactiveAccount):
		return KindInactiveAccount
	case errors.Is(err, ErrPolicyViolation):
		return KindPolicyViolation
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrEntryNotFound):
		return KindEntryNotFound
	case errors.Is(err, ErrInvalidOperation):
		return KindInvalidOperation
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// AccountNotFound wraps ErrAccountNotFound with the identifier that did not resolve.
func AccountNotFound(identifier any) error {
	return fmt.Errorf("%w: %v", ErrAccountNotFound, identifier)
}

// EntryNotFound wraps ErrEntryNotFound with the missing reference code.
func EntryNotFound(reference string) error {
	return fmt.Errorf("%w: %s", ErrEntryNotFound, reference)
}
