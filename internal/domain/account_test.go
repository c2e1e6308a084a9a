package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newSavings(balance string) *SavingsAccount {
	return &SavingsAccount{
		BaseAccount: BaseAccount{
			AccountNumber: "ACC0000SAV1",
			Balance:       dec(balance),
			Active:        true,
		},
		MinimumBalance: DefaultMinimumBalance,
		InterestRate:   DefaultInterestRate,
	}
}

func newChecking(balance string) *CheckingAccount {
	return &CheckingAccount{
		BaseAccount: BaseAccount{
			AccountNumber: "ACC0000CHK1",
			Balance:       dec(balance),
			Active:        true,
		},
		OverdraftLimit: DefaultOverdraftLimit,
		MonthlyFee:     DefaultMonthlyFee,
	}
}

func TestAccount_Deposit(t *testing.T) {
	tests := []struct {
		name        string
		account     Account
		amount      string
		inactive    bool
		wantBalance string
		wantErr     error
	}{
		{name: "savings deposit", account: newSavings("1000.00"), amount: "250.50", wantBalance: "1250.50"},
		{name: "checking deposit from overdraft", account: newChecking("-100.00"), amount: "100.00", wantBalance: "0"},
		{name: "zero amount", account: newSavings("1000.00"), amount: "0", wantBalance: "1000.00", wantErr: ErrInvalidAmount},
		{name: "negative amount", account: newChecking("10.00"), amount: "-5", wantBalance: "10.00", wantErr: ErrInvalidAmount},
		{name: "sub-cent amount", account: newSavings("1000.00"), amount: "0.001", wantBalance: "1000.00", wantErr: ErrInvalidAmount},
		{name: "inactive account", account: newSavings("1000.00"), amount: "10", inactive: true, wantBalance: "1000.00", wantErr: ErrInactiveAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.inactive {
				tt.account.Base().Active = false
			}

			err := tt.account.Deposit(dec(tt.amount))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := tt.account.Base().Balance; !got.Equal(dec(tt.wantBalance)) {
				t.Errorf("expected balance %s, got %s", tt.wantBalance, got)
			}
		})
	}
}

func TestAccount_InvalidAmountCheckedBeforeActive(t *testing.T) {
	acct := newChecking("10.00")
	acct.Active = false

	if err := acct.Withdraw(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSavingsAccount_Withdraw(t *testing.T) {
	tests := []struct {
		name        string
		balance     string
		amount      string
		wantBalance string
		wantErr     error
	}{
		{name: "within floor", balance: "1000.00", amount: "500.00", wantBalance: "500.00"},
		{name: "lands exactly on floor", balance: "1000.00", amount: "900.00", wantBalance: "100.00"},
		{name: "breaches floor", balance: "1000.00", amount: "950.00", wantBalance: "1000.00", wantErr: ErrPolicyViolation},
		{name: "one cent below floor", balance: "1000.00", amount: "900.01", wantBalance: "1000.00", wantErr: ErrPolicyViolation},
		{name: "non-positive", balance: "1000.00", amount: "0", wantBalance: "1000.00", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := newSavings(tt.balance)

			err := acct.Withdraw(dec(tt.amount))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !acct.Balance.Equal(dec(tt.wantBalance)) {
				t.Errorf("expected balance %s, got %s", tt.wantBalance, acct.Balance)
			}
		})
	}
}

func TestSavingsAccount_WithdrawViolationMessage(t *testing.T) {
	acct := newSavings("1000.00")

	err := acct.Withdraw(dec("950.00"))

	var pv *PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("expected PolicyViolationError, got %T", err)
	}

	want := "Withdrawal denied: Resulting balance (50.00) would be below minimum balance (100.00)"
	if pv.Error() != want {
		t.Errorf("unexpected message:\n got %q\nwant %q", pv.Error(), want)
	}

	if !pv.ResultingBalance.Equal(dec("50")) || !pv.Limit.Equal(dec("100")) {
		t.Errorf("unexpected context: %+v", pv.Details())
	}
}

func TestCheckingAccount_Withdraw(t *testing.T) {
	acct := newChecking("500.00")

	if err := acct.Withdraw(dec("900.00")); err != nil {
		t.Fatalf("expected overdraft withdrawal to succeed, got %v", err)
	}

	if !acct.Balance.Equal(dec("-400.00")) {
		t.Fatalf("expected balance -400.00, got %s", acct.Balance)
	}

	if !acct.IsInOverdraft() {
		t.Error("expected account to be in overdraft")
	}

	err := acct.Withdraw(dec("200.00"))
	if !errors.Is(err, ErrPolicyViolation) {
		t.Fatalf("expected ErrPolicyViolation, got %v", err)
	}

	if !acct.Balance.Equal(dec("-400.00")) {
		t.Fatalf("expected balance unchanged at -400.00, got %s", acct.Balance)
	}

	msg := err.Error()
	for _, part := range []string{"Amount (200.00)", "Current balance: -400.00", "Overdraft limit: 500.00"} {
		if !strings.Contains(msg, part) {
			t.Errorf("expected message to contain %q, got %q", part, msg)
		}
	}
}

func TestCheckingAccount_WithdrawToExactLimit(t *testing.T) {
	acct := newChecking("0")

	if err := acct.Withdraw(dec("500.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !acct.AvailableBalance().IsZero() {
		t.Errorf("expected zero available balance, got %s", acct.AvailableBalance())
	}
}

func TestCheckingAccount_ApplyMonthlyFee(t *testing.T) {
	t.Run("charges fee", func(t *testing.T) {
		acct := newChecking("100.00")

		fee, err := acct.ApplyMonthlyFee()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !fee.Equal(dec("10.00")) || !acct.Balance.Equal(dec("90.00")) {
			t.Errorf("expected fee 10.00 and balance 90.00, got %s and %s", fee, acct.Balance)
		}
	})

	t.Run("zero fee charges nothing", func(t *testing.T) {
		acct := newChecking("100.00")
		acct.MonthlyFee = decimal.Zero

		fee, err := acct.ApplyMonthlyFee()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !fee.IsZero() || !acct.Balance.Equal(dec("100.00")) {
			t.Errorf("expected no charge, got fee %s balance %s", fee, acct.Balance)
		}
	})

	t.Run("fee past overdraft propagates", func(t *testing.T) {
		acct := newChecking("-495.00")

		_, err := acct.ApplyMonthlyFee()
		if !errors.Is(err, ErrPolicyViolation) {
			t.Fatalf("expected ErrPolicyViolation, got %v", err)
		}

		if !acct.Active {
			t.Error("fee failure must not deactivate the account")
		}
	})
}

func TestSavingsAccount_CalculateMonthlyInterest(t *testing.T) {
	tests := []struct {
		balance string
		rate    string
		want    string
	}{
		{balance: "1000.00", rate: "2.5", want: "2.08"},
		{balance: "0", rate: "2.5", want: "0"},
		{balance: "100.00", rate: "0", want: "0"},
		// 1.5% of 10.10 is 0.1515 -> 0.15 -> 0.0125 -> 0.01
		{balance: "10.10", rate: "1.5", want: "0.01"},
		// 3% of 1234.56 is 37.0368 -> 37.04 -> 3.0867 -> 3.09
		{balance: "1234.56", rate: "3", want: "3.09"},
		// 1% of 30.00 is 0.30 -> 0.025 rounds half up to 0.03
		{balance: "30.00", rate: "1", want: "0.03"},
	}

	for _, tt := range tests {
		t.Run(tt.balance+"@"+tt.rate, func(t *testing.T) {
			acct := newSavings(tt.balance)
			acct.InterestRate = dec(tt.rate)

			if got := acct.CalculateMonthlyInterest(); !got.Equal(dec(tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSavingsAccount_ApplyMonthlyInterestTwice(t *testing.T) {
	acct := newSavings("1000.00")

	first, err := acct.ApplyMonthlyInterest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := acct.ApplyMonthlyInterest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Equal(dec("2.08")) || !second.Equal(dec("2.08")) {
		t.Fatalf("expected 2.08 twice, got %s and %s", first, second)
	}

	if !acct.Balance.Equal(dec("1004.16")) {
		t.Errorf("expected double credit to 1004.16, got %s", acct.Balance)
	}
}

func TestSavingsAccount_ApplyMonthlyInterestInactive(t *testing.T) {
	acct := newSavings("1000.00")
	acct.Deactivate(acct.UpdatedAt)

	if _, err := acct.ApplyMonthlyInterest(); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}

	if !acct.Balance.Equal(dec("1000.00")) {
		t.Errorf("expected balance unchanged, got %s", acct.Balance)
	}
}

func TestCloneAccount(t *testing.T) {
	orig := newChecking("10.00")
	cp, ok := CloneAccount(orig).(*CheckingAccount)
	if !ok {
		t.Fatalf("expected *CheckingAccount clone")
	}

	cp.Balance = dec("99")
	if !orig.Balance.Equal(dec("10.00")) {
		t.Fatalf("clone shares state with original")
	}
}

func TestAsSavings(t *testing.T) {
	if _, err := AsSavings(newChecking("0")); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}

	if _, err := AsChecking(newSavings("0")); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}
