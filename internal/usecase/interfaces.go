package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Create inserts the account and assigns its internal ID.
	// A duplicate account number yields domain.ErrConflict.
	Create(ctx context.Context, tx Transaction, account domain.Account) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByNumber(ctx context.Context, number string) (domain.Account, error)
	GetByNumberForUpdate(ctx context.Context, tx Transaction, number string) (domain.Account, error)
	// GetByNumbersForUpdate locks every named account in ascending ID order.
	// The error names the first number that does not resolve.
	GetByNumbersForUpdate(ctx context.Context, tx Transaction, numbers []string) ([]domain.Account, error)
	// Update writes balance, active flag and timestamps, bumping Version.
	// A stale Version yields domain.ErrConflict.
	Update(ctx context.Context, tx Transaction, account domain.Account) error
	List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	// Create inserts the entry and assigns its internal ID.
	// A duplicate reference code yields domain.ErrConflict.
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error)
	// ListByAccount returns matching entries most-recent-first.
	// A zero filter limit returns every match.
	ListByAccount(ctx context.Context, accountID int64, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	// SumSignedByAccount returns the signed total of all entries and their count.
	SumSignedByAccount(ctx context.Context, accountID int64) (decimal.Decimal, int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation while it fails with a transient error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdentifierGenerator produces candidate identifiers. Uniqueness is
// checked by the caller against storage.
type IdentifierGenerator interface {
	NewAccountNumber() string
	NewReferenceCode() string
	NewEventID() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// AccountCache is a read-through cache of committed account state.
type AccountCache interface {
	// Get returns domain.ErrAccountNotFound on a miss.
	Get(ctx context.Context, number string) (domain.Account, error)
	Set(ctx context.Context, account domain.Account) error
	Invalidate(ctx context.Context, numbers ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
