package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

type transferServiceStub struct {
	transferFn func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error)
}

func (s *transferServiceStub) Transfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
	return s.transferFn(ctx, input)
}

func TestTransferHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateTransferInput

	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
			captured = input
			return &domain.Transfer{
				Source: &domain.LedgerEntry{ReferenceCode: "TXN1", Type: domain.EntryTypeTransferOut, Amount: input.Amount, RelatedAccountNumber: input.TargetAccountNumber},
				Target: &domain.LedgerEntry{ReferenceCode: "TXN2", Type: domain.EntryTypeTransferIn, Amount: input.Amount, RelatedAccountNumber: input.SourceAccountNumber},
			}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		SourceAccountNumber: "ACC00000001",
		TargetAccountNumber: "ACC00000002",
		Amount:              "100",
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if captured.SourceAccountNumber != "ACC00000001" || captured.TargetAccountNumber != "ACC00000002" {
		t.Fatalf("unexpected input: %+v", captured)
	}
	if !captured.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected amount 100, got %s", captured.Amount)
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Source.RelatedAccountNumber != "ACC00000002" || resp.Target.RelatedAccountNumber != "ACC00000001" {
		t.Fatalf("expected legs to cross-reference, got %+v %+v", resp.Source, resp.Target)
	}
}

func TestTransferHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "invalid json",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantKind:   domain.KindInvalidOperation,
		},
		{
			name:       "invalid amount",
			body:       `{"source_account_number":"ACC00000001","target_account_number":"ACC00000002","amount":"abc"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   domain.KindInvalidAmount,
		},
		{
			name:       "self transfer",
			body:       `{"source_account_number":"ACC00000001","target_account_number":"ACC00000001","amount":"5"}`,
			serviceErr: domain.ErrSelfTransfer,
			wantStatus: http.StatusBadRequest,
			wantKind:   domain.KindInvalidOperation,
		},
		{
			name:       "unknown target",
			body:       `{"source_account_number":"ACC00000001","target_account_number":"ACC0000FFFF","amount":"5"}`,
			serviceErr: domain.AccountNotFound("ACC0000FFFF"),
			wantStatus: http.StatusNotFound,
			wantKind:   domain.KindAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := NewTransferHandler(&transferServiceStub{
				transferFn: func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
					called = true
					return nil, tt.serviceErr
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/transfers", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.serviceErr == nil && called {
				t.Fatalf("service should not be called for rejected request")
			}
			if resp := decodeError(t, rec); resp.Error != tt.wantKind {
				t.Fatalf("expected kind %s, got %+v", tt.wantKind, resp)
			}
		})
	}
}
