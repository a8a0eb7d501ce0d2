package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	EnrollmentStatusActive     = "active"
	EnrollmentStatusCompleted  = "completed"
	EnrollmentStatusWithdrawn  = "withdrawn"
	EnrollmentStatusPaidInFull = "paid_in_full"
)

// Enrollment ties a student to a program together with the progress state
// the payment-plan calculator reads: training pace, credited transfer hours
// and the installment plan once one is established.
//
// The plan lifecycle is explicit: PlanEstablished=false means no installment
// plan has been chosen yet and the weekly amount may be recomputed freely;
// once true, WeeklyPaymentAmount is fixed for the life of the plan even as
// the balance shrinks.
type Enrollment struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Reference           string         `gorm:"type:varchar(36);not null;uniqueIndex" json:"reference"`
	UserID              uint           `gorm:"not null;index:ux_enrollments_user_program,unique,priority:1" json:"user_id"`
	ProgramSlug         string         `gorm:"type:varchar(100);not null;index:ux_enrollments_user_program,unique,priority:2" json:"program_slug"`
	Status              string         `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	HoursPerWeek        int            `gorm:"not null;default:40" json:"hours_per_week" validate:"gt=0,lte=60"`
	TransferHours       int            `gorm:"not null;default:0" json:"transfer_hours" validate:"gte=0"`
	PlanEstablished     bool           `gorm:"default:false" json:"plan_established"`
	WeeklyPaymentAmount float64        `gorm:"type:decimal(10,2);default:0" json:"weekly_payment_amount"`
	SetupFeePaid        float64        `gorm:"type:decimal(10,2);default:0" json:"setup_fee_paid"`
	EnrolledAt          time.Time      `gorm:"type:timestamp;not null" json:"enrolled_at"`
	CompletedAt         *time.Time     `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Program *Program `gorm:"foreignKey:ProgramSlug;references:Slug" json:"program,omitempty"`
}

func (e *Enrollment) Validate() error {
	v := validator.New()

	return v.Struct(e)
}

// EstablishPlan locks the weekly installment amount in. It is a no-op when a
// plan already exists; the amount of an active plan never changes.
func (e *Enrollment) EstablishPlan(weeklyAmount float64) {
	if e.PlanEstablished {
		return
	}
	e.PlanEstablished = true
	e.WeeklyPaymentAmount = weeklyAmount
}

// IsActive reports whether the enrollment still accrues weekly payments.
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
