package models

import "time"

const (
	VendorPaymentStatusPending   = "pending"
	VendorPaymentStatusCompleted = "completed"
	VendorPaymentStatusFailed    = "failed"
	VendorPaymentStatusQueued    = "queued_manual"
)

// VendorPayment records money owed or paid to a curriculum vendor for one
// student, e.g. the Milady course purchase triggered by a setup-fee payment.
type VendorPayment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	VendorName       string    `gorm:"type:varchar(50);not null;index" json:"vendor_name"`
	ProgramSlug      string    `gorm:"type:varchar(100);not null;index" json:"program_slug"`
	Amount           float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status           string    `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	StudentPaymentID uint      `gorm:"default:0;index" json:"student_payment_id"`
	ErrorMessage     string    `gorm:"type:text" json:"error_message"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MiladyLicense is one pre-purchased vendor license code. Codes are assigned
// to students as a cheaper alternative to per-student API purchases.
type MiladyLicense struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProgramSlug    string     `gorm:"type:varchar(100);not null;index" json:"program_slug"`
	Code           string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"code"`
	AssignedUserID *uint      `gorm:"default:null;index" json:"assigned_user_id,omitempty"`
	AssignedAt     *time.Time `gorm:"type:timestamp;default:null" json:"assigned_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsAssigned reports whether the code has already been handed out.
func (l *MiladyLicense) IsAssigned() bool {
	return l.AssignedUserID != nil
}
