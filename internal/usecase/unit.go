package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
)

// Deps bundles the collaborators shared by the ledger use cases.
// Retrier, Outbox, Cache and Metrics are optional.
type Deps struct {
	TxManager          TransactionManager
	Retrier            Retrier
	Accounts           AccountRepository
	Entries            EntryRepository
	Outbox             OutboxRepository
	IDs                IdentifierGenerator
	Clock              Clock
	Cache              AccountCache
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
	IdentifierAttempts int
	TransactionTimeout time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}

	if d.IdentifierAttempts <= 0 {
		d.IdentifierAttempts = DefaultIdentifierAttempts
	}

	if d.TransactionTimeout <= 0 {
		d.TransactionTimeout = DefaultTransactionTimeout
	}

	return d
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// atomically runs fn inside one transaction. The whole unit is re-run by
// the retrier on transient failures; any error rolls the unit back.
func (d Deps) atomically(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	op := func() error {
		txCtx, cancel := context.WithTimeout(ctx, d.TransactionTimeout)
		defer cancel()

		tx, err := d.TxManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if d.Retrier == nil {
		return op()
	}

	return d.Retrier.Retry(ctx, op)
}

func (d Deps) uniqueIdentifier(ctx context.Context, generate func() string, exists func(context.Context, string) (bool, error)) (string, error) {
	for attempt := 1; attempt <= d.IdentifierAttempts; attempt++ {
		candidate := generate()

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}

		d.Logger.Warn().
			Str("candidate", candidate).
			Int("attempt", attempt).
			Msg("identifier collision, regenerating")
	}

	return "", fmt.Errorf("%w: no unique identifier after %d attempts", domain.ErrConflict, d.IdentifierAttempts)
}

func (d Deps) newAccountNumber(ctx context.Context) (string, error) {
	return d.uniqueIdentifier(ctx, d.IDs.NewAccountNumber, d.Accounts.ExistsByNumber)
}

func (d Deps) newReference(ctx context.Context) (string, error) {
	return d.uniqueIdentifier(ctx, d.IDs.NewReferenceCode, d.Entries.ExistsByReference)
}

// postEntry assigns a reference, validates and stores the entry, and
// queues its event in the same transaction.
func (d Deps) postEntry(ctx context.Context, tx Transaction, entry *domain.LedgerEntry, eventType string) error {
	ref, err := d.newReference(ctx)
	if err != nil {
		return err
	}
	entry.ReferenceCode = ref

	if err := entry.Validate(); err != nil {
		return err
	}

	if err := d.Entries.Create(ctx, tx, entry); err != nil {
		return err
	}

	return d.emit(ctx, tx, domain.NewEntryEvent(d.IDs.NewEventID(), eventType, entry))
}

func (d Deps) emit(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error {
	if d.Outbox == nil {
		return nil
	}

	return d.Outbox.Create(ctx, tx, event)
}

// getAccount reads committed state through the cache when one is configured.
func (d Deps) getAccount(ctx context.Context, number string) (domain.Account, error) {
	if d.Cache != nil {
		acct, err := d.Cache.Get(ctx, number)
		if err == nil {
			d.countCache("hit")
			return acct, nil
		}

		d.countCache("miss")
	}

	acct, err := d.Accounts.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, acct); err != nil {
			d.Logger.Warn().Err(err).Str("account_number", number).Msg("account cache set failed")
		}
	}

	return acct, nil
}

func (d Deps) invalidate(ctx context.Context, numbers ...string) {
	if d.Cache == nil {
		return
	}

	if err := d.Cache.Invalidate(ctx, numbers...); err != nil {
		d.Logger.Warn().Err(err).Strs("account_numbers", numbers).Msg("account cache invalidation failed")
	}
}

func (d Deps) countCache(result string) {
	if d.Metrics != nil {
		d.Metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (d Deps) recordSuccess(operation string, entries ...*domain.LedgerEntry) {
	if d.Metrics == nil {
		return
	}

	d.Metrics.AccountOperations.WithLabelValues(operation).Inc()

	for _, e := range entries {
		d.Metrics.AmountPosted.WithLabelValues(string(e.Type)).Add(e.Amount.InexactFloat64())
	}
}

func (d Deps) recordFailure(operation string, err error) {
	if d.Metrics != nil {
		d.Metrics.OperationErrors.WithLabelValues(operation, domain.KindOf(err)).Inc()
	}
}
