package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

const (
	PaymentTypeSetupFee  = "setup_fee"
	PaymentTypeWeekly    = "weekly_payment"
	PaymentTypePayInFull = "pay_in_full"
)

// StudentPayment is one payment fact against an enrollment. The cumulative
// sum of completed payments is the amountPaid input of the payment-plan
// calculator; this table is append-only from the webhook handler's point of
// view.
type StudentPayment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Reference         string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"reference"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	EnrollmentID      uint       `gorm:"not null;index" json:"enrollment_id"`
	Amount            float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Type              string     `gorm:"type:varchar(32);not null;default:'weekly_payment'" json:"type"`
	Status            string     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	ProviderPaymentID string     `gorm:"type:varchar(191);default:'';index" json:"provider_payment_id"`
	PaidAt            *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsCompleted reports whether the payment counts toward the balance.
func (p *StudentPayment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
