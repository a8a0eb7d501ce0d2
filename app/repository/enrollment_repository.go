package repository

import (
	"gorm.io/gorm"

	"github.com/elevateforhumanity/elevate/app/models"
)

// enrollmentRepository implements the EnrollmentRepository interface
type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository instance
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Create creates a new enrollment in the database
func (r *enrollmentRepository) Create(enrollment *models.Enrollment) error {
	return r.db.Create(enrollment).Error
}

// GetByID retrieves an enrollment with its user and program
func (r *enrollmentRepository) GetByID(id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.Preload("User").Preload("Program").First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetByUserAndProgram retrieves a student's enrollment in one program
func (r *enrollmentRepository) GetByUserAndProgram(userID uint, programSlug string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.Preload("User").Preload("Program").
		Where("user_id = ? AND program_slug = ?", userID, programSlug).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListByUser returns all of a student's enrollments
func (r *enrollmentRepository) ListByUser(userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.Preload("Program").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// ListActive returns active enrollments, optionally filtered by program
func (r *enrollmentRepository) ListActive(programSlug string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	q := r.db.Preload("User").Preload("Program").
		Where("status = ?", models.EnrollmentStatusActive)
	if programSlug != "" {
		q = q.Where("program_slug = ?", programSlug)
	}
	err := q.Find(&enrollments).Error
	return enrollments, err
}

// Update updates an existing enrollment
func (r *enrollmentRepository) Update(enrollment *models.Enrollment) error {
	return r.db.Save(enrollment).Error
}

// CountByStatus counts enrollments in one lifecycle status
func (r *enrollmentRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
