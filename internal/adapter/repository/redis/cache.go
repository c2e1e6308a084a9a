package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
)

// AccountCache implements usecase.AccountCache using Redis.
type AccountCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewAccountCache creates a new AccountCache. Entries expire after ttl.
func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{
		client: client,
		prefix: "bankcore:account:",
		ttl:    ttl,
	}
}

// accountRecord is the cached encoding of an account, tagged by type.
type accountRecord struct {
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Type           domain.AccountType `json:"type"`
	AccountNumber  string             `json:"account_number"`
	CustomerID     string             `json:"customer_id"`
	HolderName     string             `json:"holder_name"`
	Email          string             `json:"email,omitempty"`
	Balance        decimal.Decimal    `json:"balance"`
	InitialBalance decimal.Decimal    `json:"initial_balance"`
	MinimumBalance decimal.Decimal    `json:"minimum_balance"`
	InterestRate   decimal.Decimal    `json:"interest_rate"`
	OverdraftLimit decimal.Decimal    `json:"overdraft_limit"`
	MonthlyFee     decimal.Decimal    `json:"monthly_fee"`
	ID             int64              `json:"id"`
	Version        int64              `json:"version"`
	Active         bool               `json:"active"`
}

// Get returns the cached account or domain.ErrAccountNotFound on a miss.
func (c *AccountCache) Get(ctx context.Context, number string) (domain.Account, error) {
	data, err := c.client.Get(ctx, c.prefix+number).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.AccountNotFound(number)
	}
	if err != nil {
		return nil, err
	}

	var rec accountRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode cached account %s: %w", number, err)
	}

	return rec.toAccount()
}

// Set stores the account under its number.
func (c *AccountCache) Set(ctx context.Context, account domain.Account) error {
	rec := newAccountRecord(account)

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.prefix+rec.AccountNumber, data, c.ttl).Err()
}

// Invalidate drops the named accounts.
func (c *AccountCache) Invalidate(ctx context.Context, numbers ...string) error {
	if len(numbers) == 0 {
		return nil
	}

	keys := make([]string, len(numbers))
	for i, number := range numbers {
		keys[i] = c.prefix + number
	}

	return c.client.Del(ctx, keys...).Err()
}

func newAccountRecord(account domain.Account) accountRecord {
	base := account.Base()
	rec := accountRecord{
		CreatedAt:      base.CreatedAt,
		UpdatedAt:      base.UpdatedAt,
		Type:           account.AccountType(),
		AccountNumber:  base.AccountNumber,
		CustomerID:     base.CustomerID,
		HolderName:     base.HolderName,
		Email:          base.Email,
		Balance:        base.Balance,
		InitialBalance: base.InitialBalance,
		ID:             base.ID,
		Version:        base.Version,
		Active:         base.Active,
	}

	switch v := account.(type) {
	case *domain.SavingsAccount:
		rec.MinimumBalance = v.MinimumBalance
		rec.InterestRate = v.InterestRate
	case *domain.CheckingAccount:
		rec.OverdraftLimit = v.OverdraftLimit
		rec.MonthlyFee = v.MonthlyFee
	}

	return rec
}

func (r accountRecord) toAccount() (domain.Account, error) {
	base := domain.BaseAccount{
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		AccountNumber:  r.AccountNumber,
		CustomerID:     r.CustomerID,
		HolderName:     r.HolderName,
		Email:          r.Email,
		Balance:        r.Balance,
		InitialBalance: r.InitialBalance,
		ID:             r.ID,
		Version:        r.Version,
		Active:         r.Active,
	}

	switch r.Type {
	case domain.AccountTypeSavings:
		return &domain.SavingsAccount{
			BaseAccount:    base,
			MinimumBalance: r.MinimumBalance,
			InterestRate:   r.InterestRate,
		}, nil
	case domain.AccountTypeChecking:
		return &domain.CheckingAccount{
			BaseAccount:    base,
			OverdraftLimit: r.OverdraftLimit,
			MonthlyFee:     r.MonthlyFee,
		}, nil
	default:
		return nil, fmt.Errorf("cached account %s has unknown type %q", r.AccountNumber, r.Type)
	}
}
