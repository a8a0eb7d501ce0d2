package billing

// BNPL provider identifiers. The set is fixed; quotes carry static provider
// metadata plus a computed per-payment amount.
const (
	BNPLProviderSezzle   = "sezzle"
	BNPLProviderAffirm   = "affirm"
	BNPLProviderKlarna   = "klarna"
	BNPLProviderAfterpay = "afterpay"
	BNPLProviderCashApp  = "cashapp"
)

// BNPLQuotes returns the fixed list of external financing quotes for a
// program price. These are descriptive only: eligibility, approval and the
// final interest terms are decided by the provider at checkout.
func BNPLQuotes(programPrice float64) []BNPLOption {
	return []BNPLOption{
		{
			ID:               BNPLProviderSezzle,
			Provider:         BNPLProviderSezzle,
			Name:             "Sezzle",
			Description:      "Split into 4 interest-free payments",
			TotalAmount:      programPrice,
			NumberOfPayments: 4,
			PaymentAmount:    round2(programPrice / 4),
			Frequency:        "every 2 weeks",
			InterestFree:     true,
			MinAmount:        35,
			MaxAmount:        2500,
			Terms:            "4 payments over 6 weeks, 0% APR, soft credit check only",
		},
		{
			ID:               BNPLProviderAffirm,
			Provider:         BNPLProviderAffirm,
			Name:             "Affirm",
			Description:      "Monthly payments over 3-36 months",
			TotalAmount:      programPrice,
			NumberOfPayments: 12,
			PaymentAmount:    round2(programPrice / 12),
			Frequency:        "monthly",
			InterestFree:     false,
			MinAmount:        50,
			MaxAmount:        30000,
			Terms:            "0-36% APR based on credit, terms from 3 to 36 months",
		},
		{
			ID:               BNPLProviderKlarna,
			Provider:         BNPLProviderKlarna,
			Name:             "Klarna",
			Description:      "Pay in 4 or monthly financing",
			TotalAmount:      programPrice,
			NumberOfPayments: 4,
			PaymentAmount:    round2(programPrice / 4),
			Frequency:        "every 2 weeks",
			InterestFree:     true,
			MinAmount:        10,
			MaxAmount:        10000,
			Terms:            "4 interest-free payments, longer financing subject to approval",
		},
		{
			ID:               BNPLProviderAfterpay,
			Provider:         BNPLProviderAfterpay,
			Name:             "Afterpay",
			Description:      "Split into 4 interest-free payments",
			TotalAmount:      programPrice,
			NumberOfPayments: 4,
			PaymentAmount:    round2(programPrice / 4),
			Frequency:        "every 2 weeks",
			InterestFree:     true,
			MinAmount:        1,
			MaxAmount:        4000,
			Terms:            "4 payments over 6 weeks, 0% APR, no credit impact",
		},
		{
			ID:           BNPLProviderCashApp,
			Provider:     BNPLProviderCashApp,
			Name:         "Cash App Afterpay",
			Description:  "Pay over time through Cash App",
			TotalAmount:  programPrice,
			InterestFree: true,
			MinAmount:    1,
			MaxAmount:    4000,
			Terms:        "Payment schedule presented in Cash App at checkout",
		},
	}
}
