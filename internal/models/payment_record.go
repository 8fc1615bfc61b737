package models

import (
	"time"

	"github.com/internbridge/trustguard/internal/enum"
)

// PaymentRecord tracks whether a company paid a stipend installment on time.
type PaymentRecord struct {
	ID        string             `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID string             `gorm:"column:company_id;type:uuid;index;not null" json:"companyId"`
	Status    enum.PaymentStatus `gorm:"column:status;type:varchar(50);not null" json:"status"`
	DueAt     time.Time          `gorm:"column:due_at;type:timestamp" json:"dueAt"`
	PaidAt    *time.Time         `gorm:"column:paid_at;type:timestamp" json:"paidAt"`
	CreatedAt time.Time          `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (PaymentRecord) TableName() string {
	return "payment_tracking"
}
