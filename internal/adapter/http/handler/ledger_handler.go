package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	ReconstructWindow(ctx context.Context, number string, start, end time.Time) (*usecase.Window, error)
	MonthlyReport(ctx context.Context, number string, year int, month time.Month) (*usecase.MonthlyReport, error)
}

// LedgerHandler serves windowed history and statements.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Window reconstructs activity between the start and end query parameters.
func (h *LedgerHandler) Window(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeQuery(r, "start")
	if err != nil {
		writeError(w, err)
		return
	}

	end, err := parseTimeQuery(r, "end")
	if err != nil {
		writeError(w, err)
		return
	}

	if start == nil || end == nil {
		writeBadRequest(w, "start and end are required")
		return
	}

	window, err := h.ledgerUC.ReconstructWindow(r.Context(), accountNumberParam(r), *start, *end)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WindowFromUseCase(window))
}

// MonthlyReport returns the statement for the year and month query parameters.
func (h *LedgerHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeBadRequest(w, "year must be an integer")
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeBadRequest(w, "month must be an integer")
		return
	}

	report, err := h.ledgerUC.MonthlyReport(r.Context(), accountNumberParam(r), year, time.Month(month))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlyReportFromUseCase(report))
}
