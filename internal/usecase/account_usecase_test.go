package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
	"github.com/iho/bankcore/internal/usecase/mocks"
)

func TestAccountUseCase_CreateSavingsAccount(t *testing.T) {
	e := newEnv(t)

	acct := e.savings(t, "1000.00")

	if acct.AccountNumber != "ACC00000001" {
		t.Fatalf("expected generated number ACC00000001, got %s", acct.AccountNumber)
	}

	if !acct.MinimumBalance.Equal(domain.DefaultMinimumBalance) || !acct.InterestRate.Equal(domain.DefaultInterestRate) {
		t.Fatalf("expected default savings policy, got min %s rate %s", acct.MinimumBalance, acct.InterestRate)
	}

	if !acct.Active {
		t.Fatal("new accounts must be active")
	}

	assertBalance(t, e.balance(t, acct.AccountNumber), "1000.00")

	if n := e.entryCount(t, acct.AccountNumber); n != 0 {
		t.Fatalf("opening balance must not post entries, got %d", n)
	}

	events, err := e.outbox.GetByAggregate(context.Background(), domain.AggregateTypeAccount, acct.AccountNumber, 10, 0)
	if err != nil {
		t.Fatalf("outbox: %v", err)
	}

	if len(events) != 1 || events[0].EventType != domain.EventTypeAccountCreated {
		t.Fatalf("expected one account.created event, got %+v", events)
	}

	if got := testutil.ToFloat64(e.metrics.AccountsCreated.WithLabelValues("SAVINGS")); got != 1 {
		t.Fatalf("expected accounts_created 1, got %v", got)
	}
}

func TestAccountUseCase_CreateCheckingAccountCustomPolicy(t *testing.T) {
	e := newEnv(t)

	acct, err := e.accounts.CreateCheckingAccount(context.Background(), usecase.CreateCheckingAccountInput{
		AccountHolder:  usecase.AccountHolder{HolderName: "Alan Turing", Email: "alan@example.com", InitialBalance: dec("0")},
		OverdraftLimit: decPtr("250.00"),
		MonthlyFee:     decPtr("0"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !acct.OverdraftLimit.Equal(dec("250.00")) || !acct.MonthlyFee.IsZero() {
		t.Fatalf("custom policy not applied: %+v", acct)
	}
}

func TestAccountUseCase_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.CreateSavingsAccountInput
		want  error
	}{
		{
			name:  "negative initial balance",
			input: usecase.CreateSavingsAccountInput{AccountHolder: usecase.AccountHolder{HolderName: "x", InitialBalance: dec("-1")}},
			want:  domain.ErrInvalidAmount,
		},
		{
			name:  "sub-cent initial balance",
			input: usecase.CreateSavingsAccountInput{AccountHolder: usecase.AccountHolder{HolderName: "x", InitialBalance: dec("1.001")}},
			want:  domain.ErrInvalidAmount,
		},
		{
			name:  "blank holder",
			input: usecase.CreateSavingsAccountInput{AccountHolder: usecase.AccountHolder{HolderName: "  "}},
			want:  domain.ErrInvalidHolderName,
		},
		{
			name:  "bad email",
			input: usecase.CreateSavingsAccountInput{AccountHolder: usecase.AccountHolder{HolderName: "x", Email: "nope"}},
			want:  domain.ErrInvalidEmail,
		},
		{
			name: "rate above 100",
			input: usecase.CreateSavingsAccountInput{
				AccountHolder: usecase.AccountHolder{HolderName: "x"},
				InterestRate:  decPtr("101"),
			},
			want: domain.ErrInvalidRate,
		},
		{
			name: "negative minimum",
			input: usecase.CreateSavingsAccountInput{
				AccountHolder:  usecase.AccountHolder{HolderName: "x"},
				MinimumBalance: decPtr("-5"),
			},
			want: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			// No storage call is expected for rejected input.
			uc := usecase.NewAccountUseCase(usecase.Deps{
				TxManager: mocks.NewMockTransactionManager(ctrl),
				Accounts:  mocks.NewMockAccountRepository(ctrl),
				Logger:    zerolog.Nop(),
			})

			_, err := uc.CreateSavingsAccount(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAccountUseCase_CreateRetriesIdentifierCollision(t *testing.T) {
	ctrl := gomock.NewController(t)

	txMgr := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accounts := mocks.NewMockAccountRepository(ctrl)
	ids := mocks.NewMockIdentifierGenerator(ctrl)

	txMgr.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	gomock.InOrder(
		ids.EXPECT().NewAccountNumber().Return("ACC0000DEAD"),
		ids.EXPECT().NewAccountNumber().Return("ACC0000BEEF"),
	)
	accounts.EXPECT().ExistsByNumber(gomock.Any(), "ACC0000DEAD").Return(true, nil)
	accounts.EXPECT().ExistsByNumber(gomock.Any(), "ACC0000BEEF").Return(false, nil)
	accounts.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	ids.EXPECT().NewEventID().Return("evt-1").AnyTimes()
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewAccountUseCase(usecase.Deps{
		TxManager: txMgr,
		Accounts:  accounts,
		IDs:       ids,
		Logger:    zerolog.Nop(),
	})

	acct, err := uc.CreateSavingsAccount(context.Background(), usecase.CreateSavingsAccountInput{
		AccountHolder: usecase.AccountHolder{HolderName: "Grace Hopper"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if acct.AccountNumber != "ACC0000BEEF" {
		t.Fatalf("expected the second candidate, got %s", acct.AccountNumber)
	}
}

func TestAccountUseCase_CreateGivesUpAfterBoundedAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)

	txMgr := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accounts := mocks.NewMockAccountRepository(ctrl)
	ids := mocks.NewMockIdentifierGenerator(ctrl)

	txMgr.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	ids.EXPECT().NewAccountNumber().Return("ACC0000DEAD").Times(3)
	accounts.EXPECT().ExistsByNumber(gomock.Any(), "ACC0000DEAD").Return(true, nil).Times(3)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewAccountUseCase(usecase.Deps{
		TxManager:          txMgr,
		Accounts:           accounts,
		IDs:                ids,
		Logger:             zerolog.Nop(),
		IdentifierAttempts: 3,
	})

	_, err := uc.CreateSavingsAccount(context.Background(), usecase.CreateSavingsAccountInput{
		AccountHolder: usecase.AccountHolder{HolderName: "Grace Hopper"},
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAccountUseCase_WithdrawPolicies(t *testing.T) {
	t.Run("savings floor", func(t *testing.T) {
		e := newEnv(t)
		acct := e.savings(t, "1000.00")

		_, err := e.accounts.Withdraw(context.Background(), usecase.MovementInput{
			AccountNumber: acct.AccountNumber,
			Amount:        dec("950.00"),
		})

		var violation *domain.PolicyViolationError
		if !errors.As(err, &violation) {
			t.Fatalf("expected policy violation, got %v", err)
		}

		if !violation.ResultingBalance.Equal(dec("50.00")) || !violation.Limit.Equal(dec("100.00")) {
			t.Fatalf("violation must report resulting balance and minimum, got %+v", violation)
		}

		assertBalance(t, e.balance(t, acct.AccountNumber), "1000.00")

		if n := e.entryCount(t, acct.AccountNumber); n != 0 {
			t.Fatalf("rejected withdrawal posted %d entries", n)
		}
	})

	t.Run("checking overdraft", func(t *testing.T) {
		e := newEnv(t)
		acct := e.checking(t, "500.00")
		ctx := context.Background()

		entry, err := e.accounts.Withdraw(ctx, usecase.MovementInput{AccountNumber: acct.AccountNumber, Amount: dec("900.00")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertBalance(t, entry.BalanceAfter, "-400.00")

		if entry.Description != domain.DescriptionWithdrawal {
			t.Fatalf("expected default description, got %q", entry.Description)
		}

		_, err = e.accounts.Withdraw(ctx, usecase.MovementInput{AccountNumber: acct.AccountNumber, Amount: dec("200.00")})
		if !errors.Is(err, domain.ErrPolicyViolation) {
			t.Fatalf("expected policy violation, got %v", err)
		}

		assertBalance(t, e.balance(t, acct.AccountNumber), "-400.00")
	})
}

func TestAccountUseCase_Deposit(t *testing.T) {
	e := newEnv(t)
	acct := e.savings(t, "100.00")
	ctx := context.Background()

	entry, err := e.accounts.Deposit(ctx, usecase.MovementInput{
		AccountNumber: acct.AccountNumber,
		Description:   "Salary",
		Amount:        dec("25.50"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Type != domain.EntryTypeDeposit || entry.Description != "Salary" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	assertBalance(t, entry.BalanceBefore, "100.00")
	assertBalance(t, entry.BalanceAfter, "125.50")
	assertBalance(t, e.balance(t, acct.AccountNumber), "125.50")

	for _, amount := range []string{"0", "-1", "0.001"} {
		_, err := e.accounts.Deposit(ctx, usecase.MovementInput{AccountNumber: acct.AccountNumber, Amount: dec(amount)})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	_, err = e.accounts.Deposit(ctx, usecase.MovementInput{AccountNumber: "ACCFFFFFFFF", Amount: dec("1")})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	if got := testutil.ToFloat64(e.metrics.OperationErrors.WithLabelValues("deposit", domain.KindInvalidAmount)); got != 3 {
		t.Fatalf("expected 3 invalid amount errors, got %v", got)
	}
}

func TestAccountUseCase_Lifecycle(t *testing.T) {
	e := newEnv(t)
	acct := e.checking(t, "80.00")
	ctx := context.Background()

	e.deactivate(t, acct.AccountNumber)

	_, err := e.accounts.Deposit(ctx, usecase.MovementInput{AccountNumber: acct.AccountNumber, Amount: dec("5")})
	if !errors.Is(err, domain.ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}

	_, err = e.accounts.Withdraw(ctx, usecase.MovementInput{AccountNumber: acct.AccountNumber, Amount: dec("5")})
	if !errors.Is(err, domain.ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}

	reactivated, err := e.accounts.Activate(ctx, acct.AccountNumber)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}

	if !reactivated.IsActive() {
		t.Fatal("expected active account")
	}

	assertBalance(t, e.balance(t, acct.AccountNumber), "80.00")

	if n := e.entryCount(t, acct.AccountNumber); n != 0 {
		t.Fatalf("lifecycle changes must not post entries, got %d", n)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	e := newEnv(t)
	e.savings(t, "1")
	closed := e.savings(t, "2")
	e.checking(t, "3")
	e.deactivate(t, closed.AccountNumber)

	active := true
	typ := domain.AccountTypeSavings

	got, err := e.accounts.ListAccounts(context.Background(), usecase.ListAccountsInput{Active: &active, Type: &typ})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected one active savings account, got %d", len(got))
	}

	byID, err := e.accounts.GetAccountByID(context.Background(), got[0].Base().ID)
	if err != nil || byID.Base().AccountNumber != got[0].Base().AccountNumber {
		t.Fatalf("GetAccountByID mismatch: %v", err)
	}
}

func TestAccountUseCase_UpdateFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)

	txMgr := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accounts := mocks.NewMockAccountRepository(ctrl)
	entries := mocks.NewMockEntryRepository(ctrl)
	ids := mocks.NewMockIdentifierGenerator(ctrl)

	acct := &domain.SavingsAccount{
		BaseAccount:    domain.BaseAccount{ID: 7, AccountNumber: "ACC00000007", Balance: dec("500"), Active: true},
		MinimumBalance: dec("100"),
	}
	storeErr := errors.New("disk full")

	txMgr.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	accounts.EXPECT().GetByNumberForUpdate(gomock.Any(), tx, "ACC00000007").Return(acct, nil)
	ids.EXPECT().NewReferenceCode().Return("TXN01")
	ids.EXPECT().NewEventID().Return("evt-1")
	entries.EXPECT().ExistsByReference(gomock.Any(), "TXN01").Return(false, nil)
	entries.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	accounts.EXPECT().Update(gomock.Any(), tx, acct).Return(storeErr)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewAccountUseCase(usecase.Deps{
		TxManager: txMgr,
		Accounts:  accounts,
		Entries:   entries,
		IDs:       ids,
		Logger:    zerolog.Nop(),
	})

	_, err := uc.Deposit(context.Background(), usecase.MovementInput{AccountNumber: "ACC00000007", Amount: dec("10")})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestAccountUseCase_GetAccountThroughCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	accounts := mocks.NewMockAccountRepository(ctrl)
	cache := mocks.NewMockAccountCache(ctrl)

	acct := &domain.CheckingAccount{BaseAccount: domain.BaseAccount{ID: 1, AccountNumber: "ACC00000001"}}

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), "ACC00000001").Return(nil, domain.ErrAccountNotFound),
		accounts.EXPECT().GetByNumber(gomock.Any(), "ACC00000001").Return(acct, nil),
		cache.EXPECT().Set(gomock.Any(), acct).Return(errors.New("redis down")),
		cache.EXPECT().Get(gomock.Any(), "ACC00000001").Return(acct, nil),
	)

	uc := usecase.NewAccountUseCase(usecase.Deps{
		Accounts: accounts,
		Cache:    cache,
		Logger:   zerolog.Nop(),
	})

	for i := 0; i < 2; i++ {
		got, err := uc.GetAccount(context.Background(), "ACC00000001")
		if err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}

		if got.Base().ID != 1 {
			t.Fatalf("lookup %d: unexpected account %+v", i, got.Base())
		}
	}
}
