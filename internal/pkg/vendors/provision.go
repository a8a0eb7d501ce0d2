package vendors

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/elevateforhumanity/elevate/app/models"
)

// LicensePurchaser is implemented by MiladyClient and faked in tests.
type LicensePurchaser interface {
	PurchaseLicense(ctx context.Context, req MiladyPurchaseRequest) (*MiladyPurchaseResponse, error)
}

// ProvisionService hands a student their vendor curriculum access once the
// setup fee lands. Pre-purchased license codes are used first; per-student
// API purchases are the fallback, and everything else lands in the manual
// queue for staff.
type ProvisionService struct {
	db     *gorm.DB
	client LicensePurchaser
	now    func() time.Time
}

func NewProvisionService(db *gorm.DB, client LicensePurchaser) *ProvisionService {
	return &ProvisionService{db: db, client: client, now: time.Now}
}

// ProvisionCurriculum runs after a completed setup fee. Programs without a
// vendor are a no-op. The recorded VendorPayment amount is the program's
// vendor cost, not the whole fee.
func (s *ProvisionService) ProvisionCurriculum(ctx context.Context, user *models.User, program *models.Program, studentPaymentID uint) (*models.VendorPayment, error) {
	if program == nil || !program.HasVendor() {
		return nil, nil
	}
	if user == nil {
		return nil, errors.New("user is required")
	}

	vp := &models.VendorPayment{
		UserID:           user.ID,
		VendorName:       program.VendorName,
		ProgramSlug:      program.Slug,
		Amount:           program.VendorCost,
		Status:           models.VendorPaymentStatusPending,
		StudentPaymentID: studentPaymentID,
	}
	if err := s.db.Create(vp).Error; err != nil {
		return nil, err
	}

	// Cheapest path first: hand out a pre-purchased license code.
	if license, err := s.assignStockedLicense(user.ID, program.Slug); err == nil && license != nil {
		vp.Status = models.VendorPaymentStatusCompleted
		if err := s.db.Save(vp).Error; err != nil {
			return vp, err
		}
		log.Printf("Assigned stocked %s license %s to user %d", program.VendorName, license.Code, user.ID)
		return vp, nil
	}

	if s.client == nil {
		return s.queueManual(vp, "no vendor client configured")
	}

	resp, err := s.client.PurchaseLicense(ctx, MiladyPurchaseRequest{
		ProgramSlug:  program.Slug,
		StudentName:  user.Name,
		StudentEmail: user.Email,
		Amount:       program.VendorCost,
	})
	if err != nil {
		if errors.Is(err, ErrMiladyNotConfigured) {
			return s.queueManual(vp, err.Error())
		}
		vp.Status = models.VendorPaymentStatusFailed
		vp.ErrorMessage = err.Error()
		if saveErr := s.db.Save(vp).Error; saveErr != nil {
			return vp, saveErr
		}
		return vp, fmt.Errorf("vendor purchase for user %d: %w", user.ID, err)
	}

	now := s.now()
	license := &models.MiladyLicense{
		ProgramSlug:    program.Slug,
		Code:           resp.LicenseCode,
		AssignedUserID: &user.ID,
		AssignedAt:     &now,
	}
	if err := s.db.Create(license).Error; err != nil {
		return vp, err
	}

	vp.Status = models.VendorPaymentStatusCompleted
	if err := s.db.Save(vp).Error; err != nil {
		return vp, err
	}
	return vp, nil
}

// assignStockedLicense claims the oldest unassigned license code for the
// program, if any.
func (s *ProvisionService) assignStockedLicense(userID uint, programSlug string) (*models.MiladyLicense, error) {
	var license models.MiladyLicense
	err := s.db.Where("program_slug = ? AND assigned_user_id IS NULL", programSlug).
		Order("created_at ASC").
		First(&license).Error
	if err != nil {
		return nil, err
	}

	now := s.now()
	license.AssignedUserID = &userID
	license.AssignedAt = &now
	if err := s.db.Save(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

func (s *ProvisionService) queueManual(vp *models.VendorPayment, reason string) (*models.VendorPayment, error) {
	vp.Status = models.VendorPaymentStatusQueued
	vp.ErrorMessage = reason
	if err := s.db.Save(vp).Error; err != nil {
		return vp, err
	}
	log.Printf("Queued manual %s purchase for user %d: %s", vp.VendorName, vp.UserID, reason)
	return vp, nil
}

// PendingManualPurchases lists vendor purchases waiting on staff.
func (s *ProvisionService) PendingManualPurchases() ([]models.VendorPayment, error) {
	var out []models.VendorPayment
	err := s.db.Where("status = ?", models.VendorPaymentStatusQueued).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
