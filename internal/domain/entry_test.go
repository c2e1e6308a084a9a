package domain

import (
	"errors"
	"testing"
	"time"
)

func TestEntryType_IsCredit(t *testing.T) {
	credits := map[EntryType]bool{
		EntryTypeDeposit:     true,
		EntryTypeTransferIn:  true,
		EntryTypeInterest:    true,
		EntryTypeWithdrawal:  false,
		EntryTypeTransferOut: false,
		EntryTypeFee:         false,
	}

	for typ, want := range credits {
		if got := typ.IsCredit(); got != want {
			t.Errorf("%s.IsCredit() = %v, want %v", typ, got, want)
		}
	}
}

func TestParseEntryType(t *testing.T) {
	for _, typ := range EntryTypes {
		got, err := ParseEntryType(string(typ))
		if err != nil || got != typ {
			t.Fatalf("ParseEntryType(%q) = %q, %v", typ, got, err)
		}
	}

	if _, err := ParseEntryType("REFUND"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestNewEntry_SnapshotsBalances(t *testing.T) {
	acct := newChecking("50.00")
	acct.ID = 7
	before := acct.Balance

	if err := acct.Withdraw(dec("80.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entry := NewEntry(acct, EntryTypeWithdrawal, dec("80.00"), before, DescriptionWithdrawal, "TXN1", now)

	if entry.AccountID != 7 || entry.AccountNumber != acct.AccountNumber {
		t.Errorf("unexpected owner: %d %s", entry.AccountID, entry.AccountNumber)
	}

	if !entry.BalanceBefore.Equal(dec("50.00")) || !entry.BalanceAfter.Equal(dec("-30.00")) {
		t.Errorf("unexpected snapshots: %s -> %s", entry.BalanceBefore, entry.BalanceAfter)
	}

	if !entry.SignedAmount().Equal(dec("-80.00")) {
		t.Errorf("expected signed amount -80.00, got %s", entry.SignedAmount())
	}

	if err := entry.Validate(); err != nil {
		t.Errorf("expected consistent entry, got %v", err)
	}
}

func TestLedgerEntry_ValidateRejectsBrokenSnapshot(t *testing.T) {
	entry := &LedgerEntry{
		Type:          EntryTypeDeposit,
		Amount:        dec("10"),
		BalanceBefore: dec("5"),
		BalanceAfter:  dec("5"),
	}

	if err := entry.Validate(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}

	entry.Amount = dec("0")
	if err := entry.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransferDescriptions(t *testing.T) {
	if got := TransferOutDescription("ACC2", ""); got != "Transfer to ACC2" {
		t.Errorf("unexpected default out description %q", got)
	}

	if got := TransferInDescription("ACC1", ""); got != "Transfer from ACC1" {
		t.Errorf("unexpected default in description %q", got)
	}

	if got := TransferOutDescription("ACC2", "Rent"); got != "Rent - Transfer to ACC2" {
		t.Errorf("unexpected custom out description %q", got)
	}

	if got := TransferInDescription("ACC1", "Rent"); got != "Rent - Transfer from ACC1" {
		t.Errorf("unexpected custom in description %q", got)
	}
}

func TestEntryFilter_Matches(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	fee := EntryTypeFee

	filter := EntryFilter{Start: &start, End: &end}

	tests := []struct {
		name  string
		entry *LedgerEntry
		f     EntryFilter
		want  bool
	}{
		{name: "on start bound", entry: &LedgerEntry{CreatedAt: start}, f: filter, want: true},
		{name: "on end bound", entry: &LedgerEntry{CreatedAt: end}, f: filter, want: true},
		{name: "before window", entry: &LedgerEntry{CreatedAt: start.Add(-time.Second)}, f: filter, want: false},
		{name: "after window", entry: &LedgerEntry{CreatedAt: end.Add(time.Second)}, f: filter, want: false},
		{name: "type mismatch", entry: &LedgerEntry{Type: EntryTypeDeposit}, f: EntryFilter{Type: &fee}, want: false},
		{name: "type match", entry: &LedgerEntry{Type: EntryTypeFee}, f: EntryFilter{Type: &fee}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(tt.entry); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccountFilter_Matches(t *testing.T) {
	active := true
	savings := AccountTypeSavings

	acct := newSavings("0")
	acct.CustomerID = "cust-1"

	if !(AccountFilter{Active: &active, Type: &savings, CustomerID: "cust-1"}).Matches(acct) {
		t.Error("expected filter to match")
	}

	acct.Active = false
	if (AccountFilter{Active: &active}).Matches(acct) {
		t.Error("expected inactive account to be filtered out")
	}

	if (AccountFilter{CustomerID: "other"}).Matches(acct) {
		t.Error("expected customer mismatch to be filtered out")
	}
}
