package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/infrastructure/postgres/generated"
	"github.com/iho/bankcore/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create inserts the account and assigns its ID.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account domain.Account) error {
	base := account.Base()
	params := generated.CreateAccountParams{
		AccountNumber:  base.AccountNumber,
		AccountType:    string(account.AccountType()),
		CustomerID:     base.CustomerID,
		HolderName:     base.HolderName,
		Email:          base.Email,
		Balance:        decimalToNumeric(base.Balance),
		InitialBalance: decimalToNumeric(base.InitialBalance),
		Active:         base.Active,
		Version:        1,
		CreatedAt:      timeToPgTimestamptz(base.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(base.UpdatedAt),
	}

	switch v := account.(type) {
	case *domain.SavingsAccount:
		params.MinimumBalance = decimalToNumeric(v.MinimumBalance)
		params.InterestRate = decimalToNumeric(v.InterestRate)
	case *domain.CheckingAccount:
		params.OverdraftLimit = decimalToNumeric(v.OverdraftLimit)
		params.MonthlyFee = decimalToNumeric(v.MonthlyFee)
	}

	id, err := txQueries(tx).CreateAccount(ctx, params)
	if err != nil {
		return translateError(err, nil)
	}

	base.ID = id
	base.Version = 1

	return nil
}

// ExistsByNumber reports whether the account number is taken.
func (r *AccountRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return r.queries.AccountNumberExists(ctx, number)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		return nil, translateError(err, func() error { return domain.AccountNotFound(id) })
	}

	return rowToAccount(row)
}

// GetByNumber retrieves an account by account number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	row, err := r.queries.GetAccountByNumber(ctx, number)
	if err != nil {
		return nil, translateError(err, func() error { return domain.AccountNotFound(number) })
	}

	return rowToAccount(row)
}

// GetByNumberForUpdate retrieves an account with a FOR UPDATE lock.
func (r *AccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number string) (domain.Account, error) {
	row, err := txQueries(tx).GetAccountByNumberForUpdate(ctx, number)
	if err != nil {
		return nil, translateError(err, func() error { return domain.AccountNotFound(number) })
	}

	return rowToAccount(row)
}

// GetByNumbersForUpdate locks the named accounts ordered by ID.
func (r *AccountRepository) GetByNumbersForUpdate(ctx context.Context, tx usecase.Transaction, numbers []string) ([]domain.Account, error) {
	rows, err := txQueries(tx).GetAccountsByNumbersForUpdate(ctx, numbers)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(rows))
	accounts := make([]domain.Account, 0, len(rows))

	for _, row := range rows {
		acct, err := rowToAccount(row)
		if err != nil {
			return nil, err
		}

		found[row.AccountNumber] = true
		accounts = append(accounts, acct)
	}

	for _, number := range numbers {
		if !found[number] {
			return nil, domain.AccountNotFound(number)
		}
	}

	return accounts, nil
}

// Update writes balance, active flag and timestamp under optimistic
// version control.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account domain.Account) error {
	base := account.Base()

	affected, err := txQueries(tx).UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:        base.ID,
		Balance:   decimalToNumeric(base.Balance),
		Active:    base.Active,
		UpdatedAt: timeToPgTimestamptz(base.UpdatedAt),
		Version:   base.Version,
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("%w: account %s was modified concurrently", domain.ErrConflict, base.AccountNumber)
	}

	base.Version++

	return nil
}

// List lists accounts matching the filter ordered by ID.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	params := generated.ListAccountsParams{
		AccountType: optionalText(filter.Type),
		CustomerID:  filter.CustomerID,
		OffsetRows:  int32(filter.Offset),
		Limit:       optionalLimit(filter.Limit),
	}

	if filter.Active != nil {
		params.Active = pgtype.Bool{Bool: *filter.Active, Valid: true}
	}

	rows, err := r.queries.ListAccounts(ctx, params)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		acct, err := rowToAccount(row)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, acct)
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) (domain.Account, error) {
	base := domain.BaseAccount{
		ID:             row.ID,
		AccountNumber:  row.AccountNumber,
		CustomerID:     row.CustomerID,
		HolderName:     row.HolderName,
		Email:          row.Email,
		Balance:        numericToDecimal(row.Balance),
		InitialBalance: numericToDecimal(row.InitialBalance),
		Active:         row.Active,
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}

	switch domain.AccountType(row.AccountType) {
	case domain.AccountTypeSavings:
		return &domain.SavingsAccount{
			BaseAccount:    base,
			MinimumBalance: numericToDecimal(row.MinimumBalance),
			InterestRate:   numericToDecimal(row.InterestRate),
		}, nil
	case domain.AccountTypeChecking:
		return &domain.CheckingAccount{
			BaseAccount:    base,
			OverdraftLimit: numericToDecimal(row.OverdraftLimit),
			MonthlyFee:     numericToDecimal(row.MonthlyFee),
		}, nil
	default:
		return nil, fmt.Errorf("account %s has unknown type %q", row.AccountNumber, row.AccountType)
	}
}
