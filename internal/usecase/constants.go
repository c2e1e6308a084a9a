package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultIdentifierAttempts bounds the generate-and-check loop for new
	// account numbers and reference codes
	DefaultIdentifierAttempts = 5

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// accrual kinds used in logs and metrics
	accrualKindInterest = "interest"
	accrualKindFee      = "fee"
)
