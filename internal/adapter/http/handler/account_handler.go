package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateSavingsAccount(ctx context.Context, input usecase.CreateSavingsAccountInput) (*domain.SavingsAccount, error)
	CreateCheckingAccount(ctx context.Context, input usecase.CreateCheckingAccountInput) (*domain.CheckingAccount, error)
	GetAccount(ctx context.Context, number string) (domain.Account, error)
	GetAccountByID(ctx context.Context, id int64) (domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]domain.Account, error)
	Deposit(ctx context.Context, input usecase.MovementInput) (*domain.LedgerEntry, error)
	Withdraw(ctx context.Context, input usecase.MovementInput) (*domain.LedgerEntry, error)
	Deactivate(ctx context.Context, number string) (domain.Account, error)
	Activate(ctx context.Context, number string) (domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// CreateSavings opens a savings account.
func (h *AccountHandler) CreateSavings(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSavingsAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accountUC.CreateSavingsAccount(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// CreateChecking opens a checking account.
func (h *AccountHandler) CreateChecking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCheckingAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accountUC.CreateCheckingAccount(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(), accountNumberParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetByID retrieves an account by internal ID.
func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "account id must be an integer")
		return
	}

	account, err := h.accountUC.GetAccountByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := parseBoolQuery(r, "active")
	if err != nil {
		writeError(w, err)
		return
	}

	input := usecase.ListAccountsInput{
		Active:     active,
		CustomerID: r.URL.Query().Get("customer_id"),
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		typ := domain.AccountType(raw)
		if !typ.Valid() {
			writeBadRequest(w, "unknown account type %q", raw)
			return
		}
		input.Type = &typ
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Deposit credits an account.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.accountUC.Deposit)
}

// Withdraw debits an account.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.accountUC.Withdraw)
}

func (h *AccountHandler) move(w http.ResponseWriter, r *http.Request,
	op func(context.Context, usecase.MovementInput) (*domain.LedgerEntry, error),
) {
	var req dto.MovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(accountNumberParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := op(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Deactivate stops an account from accepting balance changes.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, h.accountUC.Deactivate)
}

// Activate re-enables an account.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, h.accountUC.Activate)
}

func (h *AccountHandler) setActive(w http.ResponseWriter, r *http.Request,
	op func(context.Context, string) (domain.Account, error),
) {
	account, err := op(r.Context(), accountNumberParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
