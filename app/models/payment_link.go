package models

import "time"

const (
	PaymentLinkStatusActive  = "active"
	PaymentLinkStatusUsed    = "used"
	PaymentLinkStatusExpired = "expired"
)

// PaymentLink records a hosted checkout link issued to a student, typically
// the weekly Friday payment link. Links expire after seven days.
type PaymentLink struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	EnrollmentID   uint       `gorm:"not null;index" json:"enrollment_id"`
	ProviderLinkID string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"provider_link_id"`
	URL            string     `gorm:"type:varchar(500);not null" json:"url"`
	Amount         float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Type           string     `gorm:"type:varchar(32);not null;default:'weekly_payment'" json:"type"`
	Status         string     `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	ExpiresAt      time.Time  `gorm:"type:timestamp;not null" json:"expires_at"`
	UsedAt         *time.Time `gorm:"type:timestamp;default:null" json:"used_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired reports whether the link may no longer be paid.
func (l *PaymentLink) IsExpired(now time.Time) bool {
	return l.Status == PaymentLinkStatusExpired || now.After(l.ExpiresAt)
}
