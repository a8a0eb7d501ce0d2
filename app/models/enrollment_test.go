package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstablishPlanLocksAmount(t *testing.T) {
	e := &Enrollment{}

	e.EstablishPlan(64.74)
	assert.True(t, e.PlanEstablished)
	assert.Equal(t, 64.74, e.WeeklyPaymentAmount)

	// A second establish attempt never changes an active plan.
	e.EstablishPlan(100)
	assert.Equal(t, 64.74, e.WeeklyPaymentAmount)
}

func TestEnrollmentValidate(t *testing.T) {
	e := &Enrollment{HoursPerWeek: 40, TransferHours: 0}
	assert.NoError(t, e.Validate())

	assert.Error(t, (&Enrollment{HoursPerWeek: 0}).Validate())
	assert.Error(t, (&Enrollment{HoursPerWeek: 80}).Validate())
	assert.Error(t, (&Enrollment{HoursPerWeek: 40, TransferHours: -1}).Validate())
}

func TestEnrollmentIsActive(t *testing.T) {
	assert.True(t, (&Enrollment{Status: EnrollmentStatusActive}).IsActive())
	assert.False(t, (&Enrollment{Status: EnrollmentStatusPaidInFull}).IsActive())
	assert.False(t, (&Enrollment{Status: EnrollmentStatusWithdrawn}).IsActive())
}

func TestProgramHasVendor(t *testing.T) {
	assert.True(t, (&Program{VendorName: VendorMilady, VendorCost: 295}).HasVendor())
	assert.False(t, (&Program{VendorName: VendorMilady}).HasVendor(), "zero cost means nothing is owed")
	assert.False(t, (&Program{VendorCost: 295}).HasVendor())
	assert.False(t, (&Program{}).HasVendor())
}

func TestPaymentLinkIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	link := &PaymentLink{ExpiresAt: now.Add(24 * time.Hour)}

	assert.False(t, link.IsExpired(now))
	assert.True(t, link.IsExpired(now.Add(25*time.Hour)))
}

func TestStudentPaymentIsCompleted(t *testing.T) {
	assert.True(t, (&StudentPayment{Status: PaymentStatusCompleted}).IsCompleted())
	assert.False(t, (&StudentPayment{Status: PaymentStatusPending}).IsCompleted())
	assert.False(t, (&StudentPayment{Status: PaymentStatusFailed}).IsCompleted())
}

func TestMiladyLicenseIsAssigned(t *testing.T) {
	userID := uint(7)
	assert.True(t, (&MiladyLicense{AssignedUserID: &userID}).IsAssigned())
	assert.False(t, (&MiladyLicense{}).IsAssigned())
}
