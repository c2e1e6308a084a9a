package domain

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "10", want: "10.00"},
		{in: "10.5", want: "10.50"},
		{in: " 0.01 ", want: "0.01"},
		{in: "10.500", want: "10.50"},
		{in: "10.505", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if FormatMoney(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, FormatMoney(got))
			}
		})
	}
}

func TestRound2HalfUp(t *testing.T) {
	tests := map[string]string{
		"2.085":  "2.09",
		"2.084":  "2.08",
		"-2.085": "-2.09",
		"0.005":  "0.01",
	}

	for in, want := range tests {
		if got := Round2(dec(in)); !got.Equal(dec(want)) {
			t.Errorf("Round2(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestMonthlyRateRoundsTwice(t *testing.T) {
	// 1% of 5.99 is 0.0599 -> 0.06 -> 0.005 -> 0.01; one division would give 0.00.
	if got := monthlyRate(dec("5.99"), dec("1")); !got.Equal(dec("0.01")) {
		t.Fatalf("expected two-stage result 0.01, got %s", got)
	}
}
