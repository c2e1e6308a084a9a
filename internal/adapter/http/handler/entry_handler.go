package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error)
	GetEntry(ctx context.Context, reference string) (*domain.LedgerEntry, error)
	GetBalanceAt(ctx context.Context, number string, at time.Time) (decimal.Decimal, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
	now     func() time.Time
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, now: time.Now}
}

// ListByAccount lists an account's entries most-recent-first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
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

	input := usecase.ListEntriesInput{
		AccountNumber: accountNumberParam(r),
		Start:         start,
		End:           end,
		Limit:         parseIntQuery(r, "limit", 20),
		Offset:        parseIntQuery(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		typ, err := domain.ParseEntryType(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		input.Type = &typ
	}

	entries, err := h.entryUC.ListEntries(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Get retrieves an entry by reference code.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.GetEntry(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Balance returns the account balance at the optional 'at' time, or now.
func (h *EntryHandler) Balance(w http.ResponseWriter, r *http.Request) {
	at, err := parseTimeQuery(r, "at")
	if err != nil {
		writeError(w, err)
		return
	}

	when := h.now().UTC()
	if at != nil {
		when = *at
	}

	number := accountNumberParam(r)

	balance, err := h.entryUC.GetBalanceAt(r.Context(), number, when)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		At:            when,
		AccountNumber: number,
		Balance:       domain.FormatMoney(balance),
	})
}
