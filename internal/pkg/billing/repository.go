package billing

import (
	"time"

	"github.com/elevateforhumanity/elevate/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetProgramBySlug(slug string) (*models.Program, error)
	GetEnrollment(id uint) (*models.Enrollment, error)
	GetEnrollmentByUserAndProgram(userID uint, programSlug string) (*models.Enrollment, error)
	ListActiveEnrollments(programSlug string) ([]models.Enrollment, error)
	SaveEnrollment(e *models.Enrollment) error
	SumCompletedPayments(enrollmentID uint) (float64, error)
	LastCompletedPayment(enrollmentID uint) (*models.StudentPayment, error)
	CreatePayment(p *models.StudentPayment) error
	GetPaymentByProviderID(provider, providerPaymentID string) (*models.StudentPayment, error)
	CreatePaymentLink(l *models.PaymentLink) error
	CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetProgramBySlug(slug string) (*models.Program, error) {
	var p models.Program
	if err := r.db.Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) GetEnrollment(id uint) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := r.db.Preload("User").Preload("Program").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *gormRepository) GetEnrollmentByUserAndProgram(userID uint, programSlug string) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.db.Preload("User").Preload("Program").
		Where("user_id = ? AND program_slug = ?", userID, programSlug).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *gormRepository) ListActiveEnrollments(programSlug string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	q := r.db.Preload("User").Preload("Program").
		Where("status = ?", models.EnrollmentStatusActive)
	if programSlug != "" {
		q = q.Where("program_slug = ?", programSlug)
	}
	err := q.Find(&enrollments).Error
	return enrollments, err
}

func (r *gormRepository) SaveEnrollment(e *models.Enrollment) error {
	return r.db.Save(e).Error
}

func (r *gormRepository) SumCompletedPayments(enrollmentID uint) (float64, error) {
	var total float64
	err := r.db.Model(&models.StudentPayment{}).
		Where("enrollment_id = ? AND status = ?", enrollmentID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *gormRepository) LastCompletedPayment(enrollmentID uint) (*models.StudentPayment, error) {
	var p models.StudentPayment
	err := r.db.Where("enrollment_id = ? AND status = ?", enrollmentID, models.PaymentStatusCompleted).
		Order("paid_at DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) CreatePayment(p *models.StudentPayment) error {
	return r.db.Create(p).Error
}

func (r *gormRepository) GetPaymentByProviderID(provider, providerPaymentID string) (*models.StudentPayment, error) {
	_ = provider
	var p models.StudentPayment
	err := r.db.Where("provider_payment_id = ?", providerPaymentID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) CreatePaymentLink(l *models.PaymentLink) error {
	return r.db.Create(l).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.PaymentWebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.PaymentWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
