package usecase_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
	"github.com/iho/bankcore/internal/usecase/mocks"
)

func TestReconcileAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	entries := mocks.NewMockEntryRepository(ctrl)

	acct := &domain.SavingsAccount{BaseAccount: domain.BaseAccount{
		ID: 3, AccountNumber: "ACC00000003", InitialBalance: dec("100.00"), Balance: dec("150.00"),
	}}

	accounts.EXPECT().GetByNumber(gomock.Any(), "ACC00000003").Return(acct, nil)
	entries.EXPECT().SumSignedByAccount(gomock.Any(), int64(3)).Return(dec("25.00"), int64(1), nil)

	uc := usecase.NewReconciliationUseCase(accounts, entries, nil, zerolog.Nop())

	result, err := uc.ReconcileAccount(context.Background(), "ACC00000003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsReconciled {
		t.Fatal("expected discrepancy")
	}

	assertBalance(t, result.CalculatedBalance, "125.00")
	assertBalance(t, result.Difference, "25.00")

	if result.EntryCount != 1 {
		t.Fatalf("expected 1 entry, got %d", result.EntryCount)
	}
}

func TestReconcileAccount_PropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	entries := mocks.NewMockEntryRepository(ctrl)

	accounts.EXPECT().GetByNumber(gomock.Any(), "ACC00000009").Return(nil, domain.AccountNotFound("ACC00000009"))

	uc := usecase.NewReconciliationUseCase(accounts, entries, nil, zerolog.Nop())

	if _, err := uc.ReconcileAccount(context.Background(), "ACC00000009"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestGenerateReconciliationReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	entries := mocks.NewMockEntryRepository(ctrl)

	good := &domain.CheckingAccount{BaseAccount: domain.BaseAccount{
		ID: 1, AccountNumber: "ACC00000001", InitialBalance: dec("10"), Balance: dec("5"),
	}}
	bad := &domain.CheckingAccount{BaseAccount: domain.BaseAccount{
		ID: 2, AccountNumber: "ACC00000002", InitialBalance: dec("10"), Balance: dec("99"),
	}}

	accounts.EXPECT().List(gomock.Any(), domain.AccountFilter{}).Return([]domain.Account{good, bad}, nil)
	entries.EXPECT().SumSignedByAccount(gomock.Any(), int64(1)).Return(dec("-5"), int64(1), nil)
	entries.EXPECT().SumSignedByAccount(gomock.Any(), int64(2)).Return(dec("0"), int64(0), nil)

	uc := usecase.NewReconciliationUseCase(accounts, entries, nil, zerolog.Nop())

	report, err := uc.GenerateReconciliationReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalAccounts != 2 || report.ReconciledAccounts != 1 || report.Consistent() {
		t.Fatalf("unexpected report %+v", report)
	}

	if len(report.Discrepancies) != 1 || report.Discrepancies[0].AccountNumber != "ACC00000002" {
		t.Fatalf("unexpected discrepancies %+v", report.Discrepancies)
	}
}

func TestReconcileAllAccounts_StopsOnStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	entries := mocks.NewMockEntryRepository(ctrl)
	sumErr := errors.New("timeout")

	acct := &domain.CheckingAccount{BaseAccount: domain.BaseAccount{ID: 1, AccountNumber: "ACC00000001"}}

	accounts.EXPECT().List(gomock.Any(), gomock.Any()).Return([]domain.Account{acct}, nil)
	entries.EXPECT().SumSignedByAccount(gomock.Any(), int64(1)).Return(dec("0"), int64(0), sumErr)

	uc := usecase.NewReconciliationUseCase(accounts, entries, nil, zerolog.Nop())

	if _, err := uc.ReconcileAllAccounts(context.Background()); !errors.Is(err, sumErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

// TestLedgerConsistencyUnderRandomOperations drives a random mix of
// operations and checks that every stored balance equals its opening
// balance plus its entries, and that each entry chains onto the previous.
func TestLedgerConsistencyUnderRandomOperations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	numbers := []string{
		e.savings(t, "1000.00").AccountNumber,
		e.savings(t, "250.00").AccountNumber,
		e.checking(t, "0").AccountNumber,
		e.checking(t, "75.50").AccountNumber,
	}

	amounts := []string{"0.01", "1.99", "10.00", "120.00", "480.25", "999.99"}

	for i := 0; i < 300; i++ {
		a := numbers[rng.Intn(len(numbers))]
		b := numbers[rng.Intn(len(numbers))]
		amount := dec(amounts[rng.Intn(len(amounts))])

		switch rng.Intn(5) {
		case 0:
			_, _ = e.accounts.Deposit(ctx, usecase.MovementInput{AccountNumber: a, Amount: amount})
		case 1:
			_, _ = e.accounts.Withdraw(ctx, usecase.MovementInput{AccountNumber: a, Amount: amount})
		case 2:
			_, _ = e.transfer.Transfer(ctx, usecase.CreateTransferInput{SourceAccountNumber: a, TargetAccountNumber: b, Amount: amount})
		case 3:
			_, _ = e.accrual.ApplyInterest(ctx, a)
		case 4:
			_, _ = e.accrual.ApplyMonthlyFee(ctx, a)
		}
	}

	report, err := e.recon.GenerateReconciliationReport(ctx)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if !report.Consistent() {
		t.Fatalf("ledger drifted: %+v", report.Discrepancies[0])
	}

	for _, number := range numbers {
		acct, err := e.deps.Accounts.GetByNumber(ctx, number)
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		entries, err := e.deps.Entries.ListByAccount(ctx, acct.Base().ID, domain.EntryFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}

		running := acct.Base().InitialBalance
		for i := len(entries) - 1; i >= 0; i-- {
			entry := entries[i]
			if !entry.BalanceBefore.Equal(running) {
				t.Fatalf("%s: entry %s starts at %s, expected %s", number, entry.ReferenceCode, entry.BalanceBefore, running)
			}

			running = entry.BalanceAfter
		}

		if !running.Equal(acct.Base().Balance) {
			t.Fatalf("%s: entries end at %s, stored balance %s", number, running, acct.Base().Balance)
		}

		if c, ok := acct.(*domain.CheckingAccount); ok && c.Balance.LessThan(c.OverdraftLimit.Neg()) {
			t.Fatalf("%s: balance %s passed overdraft", number, c.Balance)
		}

		if s, ok := acct.(*domain.SavingsAccount); ok && len(entries) > 0 && s.Balance.LessThan(s.MinimumBalance) {
			t.Fatalf("%s: balance %s below minimum", number, s.Balance)
		}
	}
}
