package programs

import (
	"fmt"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
)

// Program slugs of the built-in catalog.
const (
	SlugBarber       = "barber-apprenticeship"
	SlugCosmetology  = "cosmetology-apprenticeship"
	SlugEsthetician  = "esthetician-apprenticeship"
	SlugNailTech     = "nail-technician-apprenticeship"
	SlugDSP          = "direct-support-professional"
	SlugHVAC         = "hvac-technician"
	SlugCPR          = "cpr-certification"
	SlugTaxPrep      = "tax-prep-financial"
	SlugPeerRecovery = "peer-recovery-coach"
)

// PaymentSplit divides a received amount between the curriculum vendor and
// the platform. Unknown programs keep the full amount on the platform side.
type PaymentSplit struct {
	Total      float64 `json:"total"`
	Vendor     float64 `json:"vendor"`
	Elevate    float64 `json:"elevate"`
	VendorName string  `json:"vendor_name,omitempty"`
}

// MonthlyPlan is a fixed-term installment preset shown next to the weekly
// plan. Terms are presentation metadata; money still moves through the
// weekly plan or an external provider.
type MonthlyPlan struct {
	Months        int     `json:"months"`
	MonthlyAmount float64 `json:"monthly_amount"`
	TotalAmount   float64 `json:"total_amount"`
	Label         string  `json:"label"`
}

// catalog is the built-in program payment configuration. Prices are flat for
// apprenticeship programs: transfer hours shorten time in program, never the
// fee. Vendor costs are the per-student Milady curriculum prices.
var catalog = []models.Program{
	{
		Slug:               SlugBarber,
		Label:              "Registered Barber Apprenticeship",
		FullPrice:          4980,
		IsFlatFee:          true,
		TotalHoursRequired: 2000,
		VendorName:         models.VendorMilady,
		VendorCost:         295,
		Description:        "DOL Registered Apprenticeship sponsorship, employer coordination, compliance reporting and Milady theory related instruction.",
		IsActive:           true,
	},
	{
		Slug:               SlugCosmetology,
		Label:              "Registered Cosmetology Apprenticeship",
		FullPrice:          4980,
		IsFlatFee:          true,
		TotalHoursRequired: 1500,
		VendorName:         models.VendorMilady,
		VendorCost:         295,
		Description:        "Registered Cosmetology Apprenticeship sponsorship, oversight and Milady theory related instruction.",
		IsActive:           true,
	},
	{
		Slug:               SlugEsthetician,
		Label:              "Registered Esthetician Apprenticeship",
		FullPrice:          3480,
		IsFlatFee:          true,
		TotalHoursRequired: 700,
		VendorName:         models.VendorMilady,
		VendorCost:         195,
		Description:        "Registered Esthetician Apprenticeship sponsorship, oversight and Milady theory related instruction.",
		IsActive:           true,
	},
	{
		Slug:               SlugNailTech,
		Label:              "Registered Nail Technician Apprenticeship",
		FullPrice:          2980,
		IsFlatFee:          true,
		TotalHoursRequired: 450,
		VendorName:         models.VendorMilady,
		VendorCost:         145,
		Description:        "Registered Nail Technician Apprenticeship sponsorship, oversight and Milady theory related instruction.",
		IsActive:           true,
	},
	{
		Slug:               SlugDSP,
		Label:              "Direct Support Professional (DSP)",
		FullPrice:          4325,
		TotalHoursRequired: 600,
		Description:        "Certified Direct Support Professional training with job placement assistance.",
		IsActive:           true,
	},
	{
		Slug:               SlugHVAC,
		Label:              "HVAC Technician",
		FullPrice:          5000,
		TotalHoursRequired: 800,
		Description:        "HVAC installation and repair certification including EPA certification.",
		IsActive:           true,
	},
	{
		Slug:               SlugCPR,
		Label:              "CPR Certification",
		FullPrice:          575,
		TotalHoursRequired: 8,
		Description:        "American Heart Association CPR/AED certification.",
		IsActive:           true,
	},
	{
		Slug:               SlugTaxPrep,
		Label:              "Tax Prep & Financial Services",
		FullPrice:          4950,
		TotalHoursRequired: 400,
		Description:        "IRS-certified tax preparer training with business startup guidance.",
		IsActive:           true,
	},
	{
		Slug:               SlugPeerRecovery,
		Label:              "Peer Recovery Coach",
		FullPrice:          4750,
		TotalHoursRequired: 500,
		Description:        "Certified peer recovery specialist training with trauma-informed care.",
		IsActive:           true,
	},
}

// All returns a copy of the built-in catalog.
func All() []models.Program {
	out := make([]models.Program, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the payment configuration for a program slug, or nil when the
// slug is unknown.
func Get(slug string) *models.Program {
	for i := range catalog {
		if catalog[i].Slug == slug {
			p := catalog[i]
			return &p
		}
	}
	return nil
}

// Pricing converts a program into the calculator's pricing configuration.
func Pricing(p *models.Program) billing.ProgramPricing {
	return billing.PricingFor(p)
}

// MonthlyPlans returns the pay-in-full / 4 / 6 / 12 month presets for a
// program price.
func MonthlyPlans(price float64) []MonthlyPlan {
	plans := []MonthlyPlan{
		{Months: 1, MonthlyAmount: price, TotalAmount: price, Label: "Pay in Full"},
	}
	for _, months := range []int{4, 6, 12} {
		plans = append(plans, MonthlyPlan{
			Months:        months,
			MonthlyAmount: billing.Round2(price / float64(months)),
			TotalAmount:   price,
			Label:         fmt.Sprintf("%d-Month Plan", months),
		})
	}
	return plans
}

// Split divides a received amount between vendor and platform for a program.
func Split(slug string, totalAmount float64) PaymentSplit {
	p := Get(slug)
	if p == nil || !p.HasVendor() {
		return PaymentSplit{Total: totalAmount, Elevate: totalAmount}
	}
	return PaymentSplit{
		Total:      totalAmount,
		Vendor:     p.VendorCost,
		Elevate:    totalAmount - p.VendorCost,
		VendorName: p.VendorName,
	}
}
