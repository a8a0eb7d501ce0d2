package billing

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{64.74, "$64.74"},
		{575, "$575.00"},
		{1743, "$1,743.00"},
		{4980, "$4,980.00"},
		{1234567.5, "$1,234,567.50"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.in); got != c.want {
			t.Fatalf("FormatCurrency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPaymentSummary(t *testing.T) {
	weekly := PaymentOption{SetupFee: 1743, WeeklyPayment: 64.74, TotalWeeks: 50}
	if got := PaymentSummary(weekly); got != "$1,743.00 today, then $64.74/week for 50 weeks" {
		t.Fatalf("unexpected summary: %q", got)
	}

	oneTime := PaymentOption{SetupFee: 4731}
	if got := PaymentSummary(oneTime); got != "$4,731.00 one-time payment" {
		t.Fatalf("unexpected summary: %q", got)
	}
}
