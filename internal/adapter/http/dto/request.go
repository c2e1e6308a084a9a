package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// AccountHolderRequest holds the identity fields every new account carries.
type AccountHolderRequest struct {
	CustomerID     string `json:"customer_id,omitempty"`
	HolderName     string `json:"holder_name"`
	Email          string `json:"email,omitempty"`
	InitialBalance string `json:"initial_balance"`
}

func (r AccountHolderRequest) toHolder() (usecase.AccountHolder, error) {
	initial := decimal.Zero
	if r.InitialBalance != "" {
		d, err := domain.ParseMoney(r.InitialBalance)
		if err != nil {
			return usecase.AccountHolder{}, err
		}
		initial = d
	}

	return usecase.AccountHolder{
		CustomerID:     r.CustomerID,
		HolderName:     r.HolderName,
		Email:          r.Email,
		InitialBalance: initial,
	}, nil
}

// CreateSavingsAccountRequest represents a request to open a savings account.
type CreateSavingsAccountRequest struct {
	AccountHolderRequest

	MinimumBalance string `json:"minimum_balance,omitempty"`
	InterestRate   string `json:"interest_rate,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateSavingsAccountRequest) ToUseCaseInput() (usecase.CreateSavingsAccountInput, error) {
	holder, err := r.toHolder()
	if err != nil {
		return usecase.CreateSavingsAccountInput{}, err
	}

	minimum, err := optionalMoney(r.MinimumBalance)
	if err != nil {
		return usecase.CreateSavingsAccountInput{}, err
	}

	rate, err := optionalRate(r.InterestRate)
	if err != nil {
		return usecase.CreateSavingsAccountInput{}, err
	}

	return usecase.CreateSavingsAccountInput{
		AccountHolder:  holder,
		MinimumBalance: minimum,
		InterestRate:   rate,
	}, nil
}

// CreateCheckingAccountRequest represents a request to open a checking account.
type CreateCheckingAccountRequest struct {
	AccountHolderRequest

	OverdraftLimit string `json:"overdraft_limit,omitempty"`
	MonthlyFee     string `json:"monthly_fee,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCheckingAccountRequest) ToUseCaseInput() (usecase.CreateCheckingAccountInput, error) {
	holder, err := r.toHolder()
	if err != nil {
		return usecase.CreateCheckingAccountInput{}, err
	}

	overdraft, err := optionalMoney(r.OverdraftLimit)
	if err != nil {
		return usecase.CreateCheckingAccountInput{}, err
	}

	fee, err := optionalMoney(r.MonthlyFee)
	if err != nil {
		return usecase.CreateCheckingAccountInput{}, err
	}

	return usecase.CreateCheckingAccountInput{
		AccountHolder:  holder,
		OverdraftLimit: overdraft,
		MonthlyFee:     fee,
	}, nil
}

// MovementRequest represents a deposit or withdrawal.
type MovementRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *MovementRequest) ToUseCaseInput(number string) (usecase.MovementInput, error) {
	amount, err := domain.ParseMoney(r.Amount)
	if err != nil {
		return usecase.MovementInput{}, err
	}

	return usecase.MovementInput{
		AccountNumber: number,
		Description:   r.Description,
		Amount:        amount,
	}, nil
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	SourceAccountNumber string `json:"source_account_number"`
	TargetAccountNumber string `json:"target_account_number"`
	Amount              string `json:"amount"`
	Description         string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() (usecase.CreateTransferInput, error) {
	amount, err := domain.ParseMoney(r.Amount)
	if err != nil {
		return usecase.CreateTransferInput{}, err
	}

	return usecase.CreateTransferInput{
		SourceAccountNumber: r.SourceAccountNumber,
		TargetAccountNumber: r.TargetAccountNumber,
		Description:         r.Description,
		Amount:              amount,
	}, nil
}

// AccrualRequest optionally restricts an accrual run to named accounts.
// An empty list runs over every eligible active account.
type AccrualRequest struct {
	AccountNumbers []string `json:"account_numbers,omitempty"`
}

func optionalMoney(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}

	d, err := domain.ParseMoney(s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func optionalRate(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, domain.ErrInvalidRate
	}

	return &d, nil
}
