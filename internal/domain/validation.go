package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors, all classified as invalid operations
var (
	ErrInvalidHolderName = fmt.Errorf("%w: invalid holder name", ErrInvalidOperation)
	ErrInvalidEmail      = fmt.Errorf("%w: invalid email format", ErrInvalidOperation)
	ErrInvalidRate       = fmt.Errorf("%w: invalid interest rate", ErrInvalidOperation)
)

// Validation constants
const (
	MaxHolderNameLength = 255
	MinHolderNameLength = 1
	AccountNumberPrefix = "ACC"
	ReferencePrefix     = "TXN"
)

var (
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	accountNumberRegex = regexp.MustCompile(`^ACC[0-9A-F]{8}$`)
)

// ValidateHolderName validates the account holder's name
func ValidateHolderName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinHolderNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidHolderName)
	}

	if len(name) > MaxHolderNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidHolderName, MaxHolderNameLength)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateAccountNumber checks the surface identifier format
func ValidateAccountNumber(number string) error {
	if !accountNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, number)
	}

	return nil
}

// ValidateAmount rejects non-positive amounts and sub-cent precision
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, amount)
	}

	if !IsCanonical(amount) {
		return fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalidAmount, amount, MoneyScale)
	}

	return nil
}

// ValidateInitialBalance accepts zero or a positive canonical amount
func ValidateInitialBalance(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidAmount)
	}

	if !IsCanonical(amount) {
		return fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalidAmount, amount, MoneyScale)
	}

	return nil
}

// ValidateLimit accepts a non-negative canonical policy value such as a
// minimum balance, an overdraft limit or a fee
func ValidateLimit(name string, amount decimal.Decimal) error {
	if amount.IsNegative() || !IsCanonical(amount) {
		return fmt.Errorf("%w: %s must be a non-negative amount, got %s", ErrInvalidAmount, name, amount)
	}

	return nil
}

// ValidateInterestRate accepts rates in [0, 100]
func ValidateInterestRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
