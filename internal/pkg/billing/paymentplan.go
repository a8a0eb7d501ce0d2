package billing

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MiladyCost is the fixed per-student cost of the Milady related
	// instruction curriculum that is always covered by the setup fee.
	MiladyCost = 295.0

	// SetupFeeMinimumRate is the enforced minimum setup fee as a share of
	// the full program price.
	SetupFeeMinimumRate = 0.35

	// PayInFullDiscountRate is the fixed discount for paying the full
	// tuition up front.
	PayInFullDiscountRate = 0.05
)

// DefaultHoursPerWeek is the assumed training pace when a student has not
// chosen one yet.
const DefaultHoursPerWeek HoursPerWeek = 40

// ErrInvalidHoursPerWeek is returned by NewHoursPerWeek for zero or negative
// pace values.
var ErrInvalidHoursPerWeek = errors.New("hours per week must be a positive integer")

// HoursPerWeek is a validated, strictly positive training pace. Constructing
// it through NewHoursPerWeek is the boundary check that keeps the calculator
// free of division-by-zero guards.
type HoursPerWeek int

// NewHoursPerWeek validates a caller-supplied pace value.
func NewHoursPerWeek(v int) (HoursPerWeek, error) {
	if v <= 0 {
		return 0, ErrInvalidHoursPerWeek
	}
	return HoursPerWeek(v), nil
}

// PlanState is the two-state plan lifecycle of an enrollment: either no
// installment plan has been established yet (recompute freely), or a plan is
// active and its weekly amount is fixed for the life of the plan.
type PlanState struct {
	Active        bool
	WeeklyPayment float64
}

// Unenrolled is the plan state before an installment plan is chosen.
func Unenrolled() PlanState {
	return PlanState{}
}

// ActivePlan is the plan state once a weekly amount has been locked in at
// enrollment. The amount is never recalculated from the shrinking balance.
func ActivePlan(weeklyPayment float64) PlanState {
	return PlanState{Active: true, WeeklyPayment: weeklyPayment}
}

// roundDollars rounds to whole currency units, half away from zero, which is
// half-up for the non-negative amounts this engine works with.
func roundDollars(v float64) float64 {
	return math.Round(v)
}

// round2 rounds to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round2 rounds to cents using the engine's half-up convention. Exported for
// callers that derive their own display amounts from a program price.
func Round2(v float64) float64 {
	return round2(v)
}

// MinimumSetupFee returns the enforced 35% setup fee floor for a program
// price, rounded to whole dollars.
func MinimumSetupFee(programPrice float64) float64 {
	return roundDollars(programPrice * SetupFeeMinimumRate)
}

// CalculateCustomSetupFee derives the plan that results from a user-proposed
// setup fee against the default Milady vendor cost. Fees below the 35% floor
// yield IsValid=false with a displayable error; fees at or above the program
// price are treated as payment in full.
func CalculateCustomSetupFee(customSetupFee, programPrice float64, weeksRemaining int) CustomSetupFeeResult {
	return calculateCustomSetupFee(customSetupFee, programPrice, weeksRemaining, MiladyCost)
}

// CustomSetupFee is CalculateCustomSetupFee against this program's own price
// and vendor cost.
func (p ProgramPricing) CustomSetupFee(customSetupFee float64, weeksRemaining int) CustomSetupFeeResult {
	vendorCost := p.VendorCost
	if vendorCost == 0 {
		vendorCost = MiladyCost
	}
	return calculateCustomSetupFee(customSetupFee, p.FullPrice, weeksRemaining, vendorCost)
}

func calculateCustomSetupFee(customSetupFee, programPrice float64, weeksRemaining int, vendorCost float64) CustomSetupFeeResult {
	minSetupFee := MinimumSetupFee(programPrice)

	// At or above the full price the fee is clamped and there is nothing
	// left to finance.
	if customSetupFee >= programPrice {
		return CustomSetupFeeResult{
			SetupFee:         programPrice,
			SetupFeePercent:  100,
			RemainingBalance: 0,
			WeeklyPayment:    0,
			TotalWeeks:       0,
			MiladyPortion:    vendorCost,
			ElevatePortion:   programPrice - vendorCost,
			IsValid:          true,
		}
	}

	remainingBalance := programPrice - customSetupFee
	weeklyPayment := 0.0
	if weeksRemaining > 0 {
		weeklyPayment = round2(remainingBalance / float64(weeksRemaining))
	}

	result := CustomSetupFeeResult{
		SetupFee:         customSetupFee,
		SetupFeePercent:  int(roundDollars(customSetupFee / programPrice * 100)),
		RemainingBalance: remainingBalance,
		WeeklyPayment:    weeklyPayment,
		TotalWeeks:       weeksRemaining,
		MiladyPortion:    vendorCost,
		// Not clamped: a fee below the vendor cost reports a negative
		// platform portion. Display value only; the 35% floor keeps this
		// positive for every current program price.
		ElevatePortion: customSetupFee - vendorCost,
		IsValid:        true,
	}

	if customSetupFee < minSetupFee {
		result.IsValid = false
		result.Error = fmt.Sprintf("Minimum setup fee is %s (35%% of program price)", FormatCurrency(minSetupFee))
	}
	return result
}

// PaymentOptions derives every payment variant for a student's current
// progress and plan state. hoursPerWeek is validated by construction; the
// other inputs come from the enrollment record and are trusted.
func (p ProgramPricing) PaymentOptions(hoursPerWeek HoursPerWeek, transferHours int, amountPaid float64, plan PlanState) PaymentOptionsResult {
	hoursRemaining := p.TotalHoursRequired - transferHours
	if hoursRemaining < 0 {
		hoursRemaining = 0
	}

	weeksRemaining := 0
	if hoursRemaining > 0 {
		weeksRemaining = int(math.Ceil(float64(hoursRemaining) / float64(hoursPerWeek)))
	}

	remainingBalance := p.FullPrice - amountPaid
	minSetupFee := MinimumSetupFee(p.FullPrice)

	calculatedWeekly := 0.0
	if weeksRemaining > 0 {
		calculatedWeekly = round2((p.FullPrice - minSetupFee) / float64(weeksRemaining))
	}

	// Plan stickiness: an established plan keeps its weekly amount for its
	// whole life, it is never recomputed from the shrinking balance.
	weeklyPayment := calculatedWeekly
	if plan.Active {
		weeklyPayment = plan.WeeklyPayment
	}

	weeksLeftToPay := 0
	if weeklyPayment > 0 {
		weeksLeftToPay = int(math.Ceil(remainingBalance / weeklyPayment))
	}

	payInFullAmount := roundDollars(p.FullPrice * (1 - PayInFullDiscountRate))
	payInFull := PayInFullOption{
		Amount:          payInFullAmount,
		Discount:        p.FullPrice - payInFullAmount,
		DiscountPercent: int(roundDollars(PayInFullDiscountRate * 100)),
		Savings:         p.FullPrice - payInFullAmount,
	}

	// A single recommended plan today; the slice shape leaves room for more
	// setup-fee tiers.
	plans := []PaymentOption{
		{
			ID:              "standard",
			Name:            "Setup Fee + Weekly Payments",
			Description:     "Pay the setup fee today, then automatic weekly payments every Friday",
			SetupFee:        minSetupFee,
			SetupFeePercent: int(roundDollars(SetupFeeMinimumRate * 100)),
			WeeklyPayment:   calculatedWeekly,
			TotalWeeks:      weeksRemaining,
			TotalCost:       p.FullPrice,
			Recommended:     true,
			Badge:           "Most Popular",
		},
	}

	return PaymentOptionsResult{
		ProgramPrice:     p.FullPrice,
		FullPrice:        p.FullPrice,
		AmountPaid:       amountPaid,
		RemainingBalance: remainingBalance,
		HoursRemaining:   hoursRemaining,
		WeeksRemaining:   weeksRemaining,
		MinSetupFee:      minSetupFee,
		WeeklyPayment:    weeklyPayment,
		WeeksLeftToPay:   weeksLeftToPay,
		PaymentPlans:     plans,
		PayInFull:        payInFull,
		BNPLOptions:      BNPLQuotes(p.FullPrice),
	}
}
