package domain

import "time"

// Event types
const (
	EventTypeAccountCreated     = "account.created"
	EventTypeAccountDeactivated = "account.deactivated"
	EventTypeAccountActivated   = "account.activated"
	EventTypeFundsDeposited     = "funds.deposited"
	EventTypeFundsWithdrawn     = "funds.withdrawn"
	EventTypeTransferCompleted  = "transfer.completed"
	EventTypeInterestApplied    = "interest.applied"
	EventTypeFeeCharged         = "fee.charged"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
	AggregateTypeEntry   = "entry"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewAccountEvent builds an account lifecycle event.
func NewAccountEvent(id, eventType string, acct Account, at time.Time) *OutboxEvent {
	base := acct.Base()

	return &OutboxEvent{
		ID:            id,
		AggregateID:   base.AccountNumber,
		AggregateType: AggregateTypeAccount,
		EventType:     eventType,
		Payload: map[string]any{
			"account_number": base.AccountNumber,
			"account_type":   string(acct.AccountType()),
			"holder_name":    base.HolderName,
			"balance":        FormatMoney(base.Balance),
			"active":         base.Active,
		},
		CreatedAt: at,
	}
}

// NewEntryEvent builds an event announcing a posted ledger entry.
func NewEntryEvent(id, eventType string, entry *LedgerEntry) *OutboxEvent {
	payload := map[string]any{
		"reference_code": entry.ReferenceCode,
		"account_number": entry.AccountNumber,
		"type":           string(entry.Type),
		"amount":         FormatMoney(entry.Amount),
		"balance_before": FormatMoney(entry.BalanceBefore),
		"balance_after":  FormatMoney(entry.BalanceAfter),
	}
	if entry.RelatedAccountNumber != "" {
		payload["related_account_number"] = entry.RelatedAccountNumber
	}

	return &OutboxEvent{
		ID:            id,
		AggregateID:   entry.ReferenceCode,
		AggregateType: AggregateTypeEntry,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     entry.CreatedAt,
	}
}
