package models

import "time"

// Vendor name constants used across program and payment models.
const (
	VendorMilady = "milady"
)

// Program is one training program of the catalog with its fixed tuition
// pricing. FullPrice is flat: transferred hours shorten the time in program,
// never the fee.
type Program struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Slug               string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug" validate:"required,min=3,max=100"`
	Label              string    `gorm:"type:varchar(200);not null" json:"label" validate:"required,max=200"`
	FullPrice          float64   `gorm:"type:decimal(10,2);not null" json:"full_price" validate:"gt=0"`
	IsFlatFee          bool      `gorm:"default:true" json:"is_flat_fee"`
	TotalHoursRequired int       `gorm:"not null;default:0" json:"total_hours_required" validate:"gte=0"`
	VendorName         string    `gorm:"type:varchar(50);default:''" json:"vendor_name"`
	VendorCost         float64   `gorm:"type:decimal(10,2);default:0" json:"vendor_cost" validate:"gte=0"`
	Description        string    `gorm:"type:text" json:"description"`
	IsActive           bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasVendor reports whether part of the setup fee is owed to an external
// curriculum vendor.
func (p *Program) HasVendor() bool {
	return p.VendorName != "" && p.VendorCost > 0
}
