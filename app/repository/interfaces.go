package repository

import (
	"gorm.io/gorm"

	"github.com/elevateforhumanity/elevate/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
}

// ProgramRepository defines the interface for program catalog operations
type ProgramRepository interface {
	Create(program *models.Program) error
	GetBySlug(slug string) (*models.Program, error)
	ListActive() ([]models.Program, error)
	Update(program *models.Program) error
	Upsert(program *models.Program) error
}

// EnrollmentRepository defines the interface for enrollment operations
type EnrollmentRepository interface {
	Create(enrollment *models.Enrollment) error
	GetByID(id uint) (*models.Enrollment, error)
	GetByUserAndProgram(userID uint, programSlug string) (*models.Enrollment, error)
	ListByUser(userID uint) ([]models.Enrollment, error)
	ListActive(programSlug string) ([]models.Enrollment, error)
	Update(enrollment *models.Enrollment) error
	CountByStatus(status string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Program    ProgramRepository
	Enrollment EnrollmentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Program:    NewProgramRepository(db),
		Enrollment: NewEnrollmentRepository(db),
	}
}
