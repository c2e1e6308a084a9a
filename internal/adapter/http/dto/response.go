package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// AccountResponse represents an account in API responses. Variant fields
// are present only for the matching account type.
type AccountResponse struct {
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	AccountNumber    string    `json:"account_number"`
	AccountType      string    `json:"account_type"`
	CustomerID       string    `json:"customer_id,omitempty"`
	HolderName       string    `json:"holder_name"`
	Email            string    `json:"email,omitempty"`
	Balance          string    `json:"balance"`
	InitialBalance   string    `json:"initial_balance"`
	MinimumBalance   string    `json:"minimum_balance,omitempty"`
	InterestRate     string    `json:"interest_rate,omitempty"`
	OverdraftLimit   string    `json:"overdraft_limit,omitempty"`
	MonthlyFee       string    `json:"monthly_fee,omitempty"`
	AvailableBalance string    `json:"available_balance,omitempty"`
	InOverdraft      *bool     `json:"in_overdraft,omitempty"`
	ID               int64     `json:"id"`
	Version          int64     `json:"version"`
	Active           bool      `json:"active"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a domain.Account) *AccountResponse {
	base := a.Base()
	resp := &AccountResponse{
		CreatedAt:      base.CreatedAt,
		UpdatedAt:      base.UpdatedAt,
		AccountNumber:  base.AccountNumber,
		AccountType:    string(a.AccountType()),
		CustomerID:     base.CustomerID,
		HolderName:     base.HolderName,
		Email:          base.Email,
		Balance:        domain.FormatMoney(base.Balance),
		InitialBalance: domain.FormatMoney(base.InitialBalance),
		ID:             base.ID,
		Version:        base.Version,
		Active:         base.Active,
	}

	switch v := a.(type) {
	case *domain.SavingsAccount:
		resp.MinimumBalance = domain.FormatMoney(v.MinimumBalance)
		resp.InterestRate = v.InterestRate.String()
	case *domain.CheckingAccount:
		overdraft := v.IsInOverdraft()
		resp.OverdraftLimit = domain.FormatMoney(v.OverdraftLimit)
		resp.MonthlyFee = domain.FormatMoney(v.MonthlyFee)
		resp.AvailableBalance = domain.FormatMoney(v.AvailableBalance())
		resp.InOverdraft = &overdraft
	}

	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	CreatedAt            time.Time `json:"created_at"`
	ReferenceCode        string    `json:"reference_code"`
	AccountNumber        string    `json:"account_number"`
	Type                 string    `json:"type"`
	Amount               string    `json:"amount"`
	BalanceBefore        string    `json:"balance_before"`
	BalanceAfter         string    `json:"balance_after"`
	Description          string    `json:"description"`
	RelatedAccountNumber string    `json:"related_account_number,omitempty"`
	ID                   int64     `json:"id"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		CreatedAt:            e.CreatedAt,
		ReferenceCode:        e.ReferenceCode,
		AccountNumber:        e.AccountNumber,
		Type:                 string(e.Type),
		Amount:               domain.FormatMoney(e.Amount),
		BalanceBefore:        domain.FormatMoney(e.BalanceBefore),
		BalanceAfter:         domain.FormatMoney(e.BalanceAfter),
		Description:          e.Description,
		RelatedAccountNumber: e.RelatedAccountNumber,
		ID:                   e.ID,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransferResponse represents both legs of a transfer.
type TransferResponse struct {
	Source *EntryResponse `json:"source"`
	Target *EntryResponse `json:"target"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		Source: EntryFromDomain(t.Source),
		Target: EntryFromDomain(t.Target),
	}
}

// BalanceResponse represents an account balance at a point in time.
type BalanceResponse struct {
	At            time.Time `json:"at"`
	AccountNumber string    `json:"account_number"`
	Balance       string    `json:"balance"`
}

// WindowResponse represents an account's activity over a time range.
type WindowResponse struct {
	Start              time.Time         `json:"start"`
	End                time.Time         `json:"end"`
	Totals             map[string]string `json:"totals"`
	AccountNumber      string            `json:"account_number"`
	OpeningBalance     string            `json:"opening_balance"`
	ClosingBalance     string            `json:"closing_balance"`
	Entries            []*EntryResponse  `json:"entries"`
	TransactionCount   int               `json:"transaction_count"`
	FromCurrentBalance bool              `json:"from_current_balance"`
}

// WindowFromUseCase converts a reconstructed window to response.
func WindowFromUseCase(w *usecase.Window) *WindowResponse {
	return &WindowResponse{
		Start:              w.Start,
		End:                w.End,
		Totals:             formatTotals(w.Totals),
		AccountNumber:      w.AccountNumber,
		OpeningBalance:     domain.FormatMoney(w.OpeningBalance),
		ClosingBalance:     domain.FormatMoney(w.ClosingBalance),
		Entries:            EntriesFromDomain(w.Entries),
		TransactionCount:   w.Count(),
		FromCurrentBalance: w.FromCurrentBalance,
	}
}

// MonthlyReportResponse represents a calendar month statement.
type MonthlyReportResponse struct {
	WindowResponse

	AccountType  string `json:"account_type"`
	HolderName   string `json:"holder_name"`
	TotalCredits string `json:"total_credits"`
	TotalDebits  string `json:"total_debits"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
}

// MonthlyReportFromUseCase converts a monthly report to response.
func MonthlyReportFromUseCase(r *usecase.MonthlyReport) *MonthlyReportResponse {
	return &MonthlyReportResponse{
		WindowResponse: *WindowFromUseCase(&r.Window),
		AccountType:    string(r.AccountType),
		HolderName:     r.HolderName,
		TotalCredits:   domain.FormatMoney(r.TotalCredits()),
		TotalDebits:    domain.FormatMoney(r.TotalDebits()),
		Year:           r.Year,
		Month:          int(r.Month),
	}
}

func formatTotals(totals map[domain.EntryType]decimal.Decimal) map[string]string {
	result := make(map[string]string, len(totals))
	for typ, total := range totals {
		result[string(typ)] = domain.FormatMoney(total)
	}
	return result
}

// InterestResponse represents one account's interest calculation.
type InterestResponse struct {
	CalculatedAt   time.Time      `json:"calculated_at"`
	AccountNumber  string         `json:"account_number"`
	BalanceBefore  string         `json:"balance_before,omitempty"`
	InterestRate   string         `json:"interest_rate,omitempty"`
	InterestAmount string         `json:"interest_amount,omitempty"`
	BalanceAfter   string         `json:"balance_after,omitempty"`
	Entry          *EntryResponse `json:"entry,omitempty"`
	Error          *ErrorResponse `json:"error,omitempty"`
}

// InterestFromUseCase converts an interest outcome to response.
func InterestFromUseCase(o *usecase.InterestOutcome) *InterestResponse {
	resp := &InterestResponse{
		CalculatedAt:  o.CalculatedAt,
		AccountNumber: o.AccountNumber,
	}

	if o.Failed() {
		resp.Error = NewErrorResponse(o.Err)
		return resp
	}

	resp.BalanceBefore = domain.FormatMoney(o.BalanceBefore)
	resp.InterestRate = o.InterestRate.String()
	resp.InterestAmount = domain.FormatMoney(o.InterestAmount)
	resp.BalanceAfter = domain.FormatMoney(o.BalanceAfter)
	if o.Entry != nil {
		resp.Entry = EntryFromDomain(o.Entry)
	}

	return resp
}

// FeeResponse represents one account's fee charge.
type FeeResponse struct {
	ChargedAt     time.Time      `json:"charged_at"`
	AccountNumber string         `json:"account_number"`
	BalanceBefore string         `json:"balance_before,omitempty"`
	Fee           string         `json:"fee,omitempty"`
	BalanceAfter  string         `json:"balance_after,omitempty"`
	Entry         *EntryResponse `json:"entry,omitempty"`
	Error         *ErrorResponse `json:"error,omitempty"`
}

// FeeFromUseCase converts a fee outcome to response.
func FeeFromUseCase(o *usecase.FeeOutcome) *FeeResponse {
	resp := &FeeResponse{
		ChargedAt:     o.ChargedAt,
		AccountNumber: o.AccountNumber,
	}

	if o.Failed() {
		resp.Error = NewErrorResponse(o.Err)
		return resp
	}

	resp.BalanceBefore = domain.FormatMoney(o.BalanceBefore)
	resp.Fee = domain.FormatMoney(o.Fee)
	resp.BalanceAfter = domain.FormatMoney(o.BalanceAfter)
	if o.Entry != nil {
		resp.Entry = EntryFromDomain(o.Entry)
	}

	return resp
}

// InterestRunResponse summarizes an interest accrual batch.
type InterestRunResponse struct {
	Results   []*InterestResponse `json:"results"`
	Processed int                 `json:"processed"`
	Failed    int                 `json:"failed"`
}

// InterestRunFromUseCase converts batch outcomes to response.
func InterestRunFromUseCase(outcomes []usecase.InterestOutcome) *InterestRunResponse {
	resp := &InterestRunResponse{Results: make([]*InterestResponse, len(outcomes))}
	for i := range outcomes {
		resp.Results[i] = InterestFromUseCase(&outcomes[i])
		if outcomes[i].Failed() {
			resp.Failed++
		} else {
			resp.Processed++
		}
	}
	return resp
}

// FeeRunResponse summarizes a fee accrual batch.
type FeeRunResponse struct {
	Results   []*FeeResponse `json:"results"`
	Processed int            `json:"processed"`
	Failed    int            `json:"failed"`
}

// FeeRunFromUseCase converts batch outcomes to response.
func FeeRunFromUseCase(outcomes []usecase.FeeOutcome) *FeeRunResponse {
	resp := &FeeRunResponse{Results: make([]*FeeResponse, len(outcomes))}
	for i := range outcomes {
		resp.Results[i] = FeeFromUseCase(&outcomes[i])
		if outcomes[i].Failed() {
			resp.Failed++
		} else {
			resp.Processed++
		}
	}
	return resp
}

// ReconciliationResponse represents one account's reconciliation check.
type ReconciliationResponse struct {
	LastChecked       time.Time `json:"last_checked"`
	AccountNumber     string    `json:"account_number"`
	InitialBalance    string    `json:"initial_balance"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	EntryCount        int64     `json:"entry_count"`
	IsReconciled      bool      `json:"is_reconciled"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		LastChecked:       r.LastChecked,
		AccountNumber:     r.AccountNumber,
		InitialBalance:    domain.FormatMoney(r.InitialBalance),
		RecordedBalance:   domain.FormatMoney(r.RecordedBalance),
		CalculatedBalance: domain.FormatMoney(r.CalculatedBalance),
		Difference:        domain.FormatMoney(r.Difference),
		EntryCount:        r.EntryCount,
		IsReconciled:      r.IsReconciled,
	}
}

// ReconciliationReportResponse represents a full reconciliation report.
type ReconciliationReportResponse struct {
	CheckedAt          time.Time                 `json:"checked_at"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Consistent         bool                      `json:"consistent"`
}

// ReconciliationReportFromUseCase converts a report to response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		CheckedAt:          r.CheckedAt,
		Discrepancies:      make([]*ReconciliationResponse, len(r.Discrepancies)),
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Consistent:         r.Consistent(),
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = ReconciliationFromUseCase(d)
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Details map[string]string `json:"details,omitempty"`
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
}

// NewErrorResponse classifies err and attaches any numeric context it carries.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{
		Error:   domain.KindOf(err),
		Message: err.Error(),
	}

	var violation *domain.PolicyViolationError
	if errors.As(err, &violation) {
		resp.Details = violation.Details()
	}

	return resp
}
