package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

type ledgerServiceStub struct {
	start, end time.Time
	year       int
	month      time.Month
}

func (s *ledgerServiceStub) ReconstructWindow(ctx context.Context, number string, start, end time.Time) (*usecase.Window, error) {
	s.start, s.end = start, end
	return &usecase.Window{
		Start:              start,
		End:                end,
		AccountNumber:      number,
		OpeningBalance:     decimal.RequireFromString("500"),
		ClosingBalance:     decimal.RequireFromString("500"),
		Totals:             map[domain.EntryType]decimal.Decimal{},
		FromCurrentBalance: true,
	}, nil
}

func (s *ledgerServiceStub) MonthlyReport(ctx context.Context, number string, year int, month time.Month) (*usecase.MonthlyReport, error) {
	s.year, s.month = year, month
	if month < time.January || month > time.December {
		return nil, domain.ErrInvalidOperation
	}
	start, end := usecase.MonthBounds(year, month)
	return &usecase.MonthlyReport{
		Window: usecase.Window{
			Start:         start,
			End:           end,
			AccountNumber: number,
			Totals: map[domain.EntryType]decimal.Decimal{
				domain.EntryTypeDeposit: decimal.RequireFromString("100"),
				domain.EntryTypeFee:     decimal.RequireFromString("10"),
			},
		},
		AccountType: domain.AccountTypeChecking,
		Year:        year,
		Month:       month,
	}, nil
}

func TestLedgerHandler_Window(t *testing.T) {
	stub := &ledgerServiceStub{}
	handler := NewLedgerHandler(stub)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/ACC00000001/window?start=2024-01-01&end=2024-01-31T23:59:59Z", nil),
		map[string]string{"number": "ACC00000001"})
	rec := httptest.NewRecorder()

	handler.Window(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.start.Day() != 1 || stub.end.Hour() != 23 {
		t.Fatalf("unexpected bounds: %v - %v", stub.start, stub.end)
	}

	var resp dto.WindowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.FromCurrentBalance || resp.OpeningBalance != "500.00" {
		t.Fatalf("expected flagged current-balance window, got %+v", resp)
	}
}

func TestLedgerHandler_Window_RequiresBounds(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/ACC00000001/window?start=2024-01-01", nil),
		map[string]string{"number": "ACC00000001"})
	rec := httptest.NewRecorder()

	handler.Window(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_MonthlyReport(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"valid", "year=2024&month=2", http.StatusOK},
		{"missing year", "month=2", http.StatusBadRequest},
		{"month out of range", "year=2024&month=13", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&ledgerServiceStub{})

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/ACC00000001/reports/monthly?"+tt.query, nil),
				map[string]string{"number": "ACC00000001"})
			rec := httptest.NewRecorder()

			handler.MonthlyReport(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp dto.MonthlyReportResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.TotalCredits != "100.00" || resp.TotalDebits != "10.00" || resp.Month != 2 {
				t.Fatalf("unexpected report: %+v", resp)
			}
			if resp.End.Day() != 29 {
				t.Fatalf("expected leap-year February to end on the 29th, got %v", resp.End)
			}
		})
	}
}
