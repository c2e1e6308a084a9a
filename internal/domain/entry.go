package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the kind of balance change an entry records.
type EntryType string

const (
	EntryTypeDeposit     EntryType = "DEPOSIT"
	EntryTypeWithdrawal  EntryType = "WITHDRAWAL"
	EntryTypeTransferIn  EntryType = "TRANSFER_IN"
	EntryTypeTransferOut EntryType = "TRANSFER_OUT"
	EntryTypeInterest    EntryType = "INTEREST"
	EntryTypeFee         EntryType = "FEE"
)

// EntryTypes lists every entry type in display order.
var EntryTypes = []EntryType{
	EntryTypeDeposit,
	EntryTypeWithdrawal,
	EntryTypeTransferIn,
	EntryTypeTransferOut,
	EntryTypeInterest,
	EntryTypeFee,
}

var entryTypeNames = map[EntryType]string{
	EntryTypeDeposit:     "Deposit",
	EntryTypeWithdrawal:  "Withdrawal",
	EntryTypeTransferIn:  "Transfer In",
	EntryTypeTransferOut: "Transfer Out",
	EntryTypeInterest:    "Interest",
	EntryTypeFee:         "Fee",
}

// Default descriptions.
const (
	DescriptionDeposit    = "Deposit"
	DescriptionWithdrawal = "Withdrawal"
	DescriptionInterest   = "Monthly interest payment"
	DescriptionFee        = "Monthly maintenance fee"
)

// ParseEntryType validates s as an entry type.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if _, ok := entryTypeNames[t]; !ok {
		return "", fmt.Errorf("%w: unknown entry type %q", ErrInvalidOperation, s)
	}

	return t, nil
}

// IsCredit reports whether the type increases the balance.
func (t EntryType) IsCredit() bool {
	switch t {
	case EntryTypeDeposit, EntryTypeTransferIn, EntryTypeInterest:
		return true
	default:
		return false
	}
}

// DisplayName returns a human-readable label.
func (t EntryType) DisplayName() string {
	return entryTypeNames[t]
}

// LedgerEntry is an immutable record of one balance change on one account.
type LedgerEntry struct {
	CreatedAt            time.Time
	AccountNumber        string
	Type                 EntryType
	Description          string
	RelatedAccountNumber string
	ReferenceCode        string
	Amount               decimal.Decimal
	BalanceBefore        decimal.Decimal
	BalanceAfter         decimal.Decimal
	ID                   int64
	AccountID            int64
}

// SignedAmount is Amount with the sign its type implies.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Type.IsCredit() {
		return e.Amount
	}

	return e.Amount.Neg()
}

// Validate checks the entry's internal consistency.
func (e *LedgerEntry) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !e.BalanceBefore.Add(e.SignedAmount()).Equal(e.BalanceAfter) {
		return fmt.Errorf("%w: entry %s balance %s plus %s does not reach %s", ErrInvalidOperation,
			e.ReferenceCode, FormatMoney(e.BalanceBefore), e.SignedAmount(), FormatMoney(e.BalanceAfter))
	}

	return nil
}

// NewEntry records a change of acct's balance from before to its current value.
func NewEntry(acct Account, typ EntryType, amount, before decimal.Decimal, description, reference string, at time.Time) *LedgerEntry {
	base := acct.Base()

	return &LedgerEntry{
		AccountID:     base.ID,
		AccountNumber: base.AccountNumber,
		Type:          typ,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  base.Balance,
		Description:   description,
		ReferenceCode: reference,
		CreatedAt:     at,
	}
}

// TransferOutDescription describes the debit leg of a transfer to target.
func TransferOutDescription(target, description string) string {
	if description == "" {
		return "Transfer to " + target
	}

	return description + " - Transfer to " + target
}

// TransferInDescription describes the credit leg of a transfer from source.
func TransferInDescription(source, description string) string {
	if description == "" {
		return "Transfer from " + source
	}

	return description + " - Transfer from " + source
}

// EntryFilter narrows an account's entry history.
type EntryFilter struct {
	Start  *time.Time
	End    *time.Time
	Type   *EntryType
	Limit  int
	Offset int
}

// Matches reports whether e satisfies the type and inclusive time bounds.
func (f EntryFilter) Matches(e *LedgerEntry) bool {
	if f.Type != nil && e.Type != *f.Type {
		return false
	}

	if f.Start != nil && e.CreatedAt.Before(*f.Start) {
		return false
	}

	if f.End != nil && e.CreatedAt.After(*f.End) {
		return false
	}

	return true
}

// AccountFilter selects accounts for listing and batch runs.
type AccountFilter struct {
	Active     *bool
	Type       *AccountType
	CustomerID string
	Limit      int
	Offset     int
}

// Matches reports whether a satisfies the filter predicates.
func (f AccountFilter) Matches(a Account) bool {
	if f.Active != nil && a.IsActive() != *f.Active {
		return false
	}

	if f.Type != nil && a.AccountType() != *f.Type {
		return false
	}

	if f.CustomerID != "" && a.Base().CustomerID != f.CustomerID {
		return false
	}

	return true
}
