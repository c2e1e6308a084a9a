package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/usecase"
)

// AccrualService defines the behavior needed by AccrualHandler.
type AccrualService interface {
	CalculateInterest(ctx context.Context, number string) (*usecase.InterestOutcome, error)
	ApplyInterest(ctx context.Context, number string) (*usecase.InterestOutcome, error)
	ApplyInterestBatch(ctx context.Context, numbers []string) []usecase.InterestOutcome
	RunMonthlyAccrual(ctx context.Context) ([]usecase.InterestOutcome, error)
	ApplyMonthlyFee(ctx context.Context, number string) (*usecase.FeeOutcome, error)
	ApplyFeeBatch(ctx context.Context, numbers []string) []usecase.FeeOutcome
	RunMonthlyFees(ctx context.Context) ([]usecase.FeeOutcome, error)
}

// AccrualHandler exposes interest and fee accrual to the external scheduler.
type AccrualHandler struct {
	accrualUC AccrualService
}

// NewAccrualHandler creates a new AccrualHandler.
func NewAccrualHandler(accrualUC AccrualService) *AccrualHandler {
	return &AccrualHandler{accrualUC: accrualUC}
}

// PreviewInterest calculates next month's interest without posting it.
func (h *AccrualHandler) PreviewInterest(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.accrualUC.CalculateInterest(r.Context(), accountNumberParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InterestFromUseCase(outcome))
}

// ApplyInterest posts one month of interest to a savings account.
func (h *AccrualHandler) ApplyInterest(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.accrualUC.ApplyInterest(r.Context(), accountNumberParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InterestFromUseCase(outcome))
}

// ApplyFee charges the monthly fee to a checking account.
func (h *AccrualHandler) ApplyFee(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.accrualUC.ApplyMonthlyFee(r.Context(), accountNumberParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeeFromUseCase(outcome))
}

// RunInterest accrues interest over the named accounts, or every active
// savings account when none are named. Per-account failures are reported
// in the body; the request itself succeeds.
func (h *AccrualHandler) RunInterest(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAccrualRequest(w, r)
	if !ok {
		return
	}

	var outcomes []usecase.InterestOutcome
	if len(req.AccountNumbers) > 0 {
		outcomes = h.accrualUC.ApplyInterestBatch(r.Context(), req.AccountNumbers)
	} else {
		var err error
		outcomes, err = h.accrualUC.RunMonthlyAccrual(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, dto.InterestRunFromUseCase(outcomes))
}

// RunFees charges monthly fees over the named accounts, or every active
// checking account when none are named.
func (h *AccrualHandler) RunFees(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAccrualRequest(w, r)
	if !ok {
		return
	}

	var outcomes []usecase.FeeOutcome
	if len(req.AccountNumbers) > 0 {
		outcomes = h.accrualUC.ApplyFeeBatch(r.Context(), req.AccountNumbers)
	} else {
		var err error
		outcomes, err = h.accrualUC.RunMonthlyFees(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, dto.FeeRunFromUseCase(outcomes))
}

// decodeAccrualRequest accepts an empty body as a run over all accounts.
func decodeAccrualRequest(w http.ResponseWriter, r *http.Request) (dto.AccrualRequest, bool) {
	var req dto.AccrualRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, true
	}

	return req, decodeJSON(w, r, &req)
}
