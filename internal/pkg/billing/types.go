package billing

// ProgramPricing is the immutable pricing configuration for one training
// program. It is passed into every calculation explicitly; there is no
// package-level default program.
type ProgramPricing struct {
	// FullPrice is the fixed total tuition in USD. It never changes once a
	// student is enrolled; only derived balances change.
	FullPrice float64
	// TotalHoursRequired is the number of training hours needed to complete
	// the program.
	TotalHoursRequired int
	// VendorCost is the portion of the setup fee owed to the curriculum
	// vendor (Milady related-instruction courses).
	VendorCost float64
}

// PaymentOption describes one installment plan variant.
type PaymentOption struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	SetupFee        float64 `json:"setup_fee"`
	SetupFeePercent int     `json:"setup_fee_percent"`
	WeeklyPayment   float64 `json:"weekly_payment"`
	TotalWeeks      int     `json:"total_weeks"`
	TotalCost       float64 `json:"total_cost"`
	Savings         float64 `json:"savings"`
	Recommended     bool    `json:"recommended"`
	Badge           string  `json:"badge,omitempty"`
}

// PayInFullOption is the one-time-payment variant with its fixed discount.
type PayInFullOption struct {
	Amount          float64 `json:"amount"`
	Discount        float64 `json:"discount"`
	DiscountPercent int     `json:"discount_percent"`
	Savings         float64 `json:"savings"`
}

// BNPLOption is a descriptive quote for an external buy-now-pay-later
// product. Approval and final terms are determined by the provider at
// checkout, not by this engine.
type BNPLOption struct {
	ID               string  `json:"id"`
	Provider         string  `json:"provider"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	TotalAmount      float64 `json:"total_amount"`
	NumberOfPayments int     `json:"number_of_payments,omitempty"`
	PaymentAmount    float64 `json:"payment_amount,omitempty"`
	Frequency        string  `json:"frequency,omitempty"`
	InterestFree     bool    `json:"interest_free"`
	MinAmount        float64 `json:"min_amount,omitempty"`
	MaxAmount        float64 `json:"max_amount,omitempty"`
	Terms            string  `json:"terms"`
}

// CustomSetupFeeResult is the derived outcome of a user-proposed setup fee.
// Derived fields are reported even when IsValid is false so callers can show
// what-would-happen feedback next to the error.
type CustomSetupFeeResult struct {
	SetupFee         float64 `json:"setup_fee"`
	SetupFeePercent  int     `json:"setup_fee_percent"`
	RemainingBalance float64 `json:"remaining_balance"`
	WeeklyPayment    float64 `json:"weekly_payment"`
	TotalWeeks       int     `json:"total_weeks"`
	MiladyPortion    float64 `json:"milady_portion"`
	ElevatePortion   float64 `json:"elevate_portion"`
	IsValid          bool    `json:"is_valid"`
	Error            string  `json:"error,omitempty"`
}

// PaymentOptionsResult bundles every payment variant derived for one
// student's progress state.
type PaymentOptionsResult struct {
	ProgramPrice     float64         `json:"program_price"`
	FullPrice        float64         `json:"full_price"`
	AmountPaid       float64         `json:"amount_paid"`
	RemainingBalance float64         `json:"remaining_balance"`
	HoursRemaining   int             `json:"hours_remaining"`
	WeeksRemaining   int             `json:"weeks_remaining"`
	MinSetupFee      float64         `json:"min_setup_fee"`
	WeeklyPayment    float64         `json:"weekly_payment"`
	WeeksLeftToPay   int             `json:"weeks_left_to_pay"`
	PaymentPlans     []PaymentOption `json:"payment_plans"`
	PayInFull        PayInFullOption `json:"pay_in_full"`
	BNPLOptions      []BNPLOption    `json:"bnpl_options"`
}
