package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/elevateforhumanity/elevate/app/models"
)

// programRepository implements the ProgramRepository interface
type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository creates a new program repository instance
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

// Create creates a new program in the database
func (r *programRepository) Create(program *models.Program) error {
	return r.db.Create(program).Error
}

// GetBySlug retrieves a program by its slug
func (r *programRepository) GetBySlug(slug string) (*models.Program, error) {
	var program models.Program
	err := r.db.Where("slug = ?", slug).First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// ListActive returns every program currently open for enrollment
func (r *programRepository) ListActive() ([]models.Program, error) {
	var programs []models.Program
	err := r.db.Where("is_active = ?", true).Order("label ASC").Find(&programs).Error
	return programs, err
}

// Update updates an existing program
func (r *programRepository) Update(program *models.Program) error {
	return r.db.Save(program).Error
}

// Upsert inserts the program or refreshes its pricing fields when the slug
// already exists. Used to sync the built-in catalog at startup.
func (r *programRepository) Upsert(program *models.Program) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label", "full_price", "is_flat_fee", "total_hours_required",
			"vendor_name", "vendor_cost", "description", "is_active",
		}),
	}).Create(program).Error
}
