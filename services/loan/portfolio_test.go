package loan

import (
	"math"
	"testing"

	"github.com/stackvault/client-sdk-go/types"
)

func TestLoanToValue(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		value  uint64
		want   float64
	}{
		{"half", 500, 1000, 50},
		{"capped", 900, 1000, MaxLoanToValue},
		{"zero value", 10, 0, 0},
		{"zero amount", 0, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoanToValue(tt.amount, tt.value); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LoanToValue(%d, %d) = %v, want %v", tt.amount, tt.value, got, tt.want)
			}
		})
	}
}

func TestTotalRepayment(t *testing.T) {
	if got := TotalRepayment(200, DefaultInterestRate); math.Abs(got-210) > 1e-9 {
		t.Errorf("TotalRepayment(200, 5) = %v, want 210", got)
	}
	if got := TotalRepayment(200, 0); got != 200 {
		t.Errorf("TotalRepayment(200, 0) = %v, want 200", got)
	}
}

func sampleTokens() []types.TokenRecord {
	return []types.TokenRecord{
		{ID: 1, Locked: true, LoanAmount: 400, LoanActive: true},
		{ID: 2},
		{ID: 3, Locked: true},
		{ID: 4, LoanAmount: 300, LoanRepaid: true},
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(sampleTokens())
	want := Summary{Locked: 2, Unlocked: 2, AvailableForLoan: 0, LoansTaken: 2, TotalLoanAmount: 700}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}

	got = Summarize([]types.TokenRecord{{Locked: true}, {Locked: true}, {Locked: true, LoanAmount: 5}})
	if got.AvailableForLoan != 2 {
		t.Errorf("AvailableForLoan = %d, want 2", got.AvailableForLoan)
	}

	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestFilterRepaid(t *testing.T) {
	tokens := sampleTokens()
	if got := FilterRepaid(tokens, true); len(got) != 4 {
		t.Errorf("showRepaid=true kept %d tokens, want 4", len(got))
	}
	got := FilterRepaid(tokens, false)
	if len(got) != 3 {
		t.Fatalf("showRepaid=false kept %d tokens, want 3", len(got))
	}
	for _, tok := range got {
		if tok.LoanRepaid {
			t.Errorf("token %d is repaid but was kept", tok.ID)
		}
	}
}
