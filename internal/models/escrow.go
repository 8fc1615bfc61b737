package models

import (
	"time"

	"github.com/internbridge/trustguard/internal/enum"
)

// EscrowTransaction is owned exclusively by the escrow service. Status only
// moves forward: pending -> held -> released, or pending -> failed.
type EscrowTransaction struct {
	ID           string            `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID    string            `gorm:"column:company_id;type:uuid;index;not null" json:"companyId"`
	InternshipID string            `gorm:"column:internship_id;type:uuid;index;not null" json:"internshipId"`
	StudentID    *string           `gorm:"column:student_id;type:uuid" json:"studentId"`
	Amount       int64             `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Status       enum.EscrowStatus `gorm:"column:status;type:varchar(50);index;default:'pending'" json:"status"`
	PaymentRef   string            `gorm:"column:payment_ref;type:varchar(100);uniqueIndex;not null" json:"paymentRef"`
	DepositedAt  *time.Time        `gorm:"column:deposited_at;type:timestamp" json:"depositedAt"`
	ReleasedAt   *time.Time        `gorm:"column:released_at;type:timestamp" json:"releasedAt"`
	CreatedAt    time.Time         `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (EscrowTransaction) TableName() string {
	return "escrow_transactions"
}

// EscrowDeposit is the per-company deposit history, appended when a deposit
// is confirmed.
type EscrowDeposit struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID     string    `gorm:"column:company_id;type:uuid;index;not null" json:"companyId"`
	TransactionID string    `gorm:"column:transaction_id;type:uuid;index;not null" json:"transactionId"`
	InternshipID  string    `gorm:"column:internship_id;type:uuid;not null" json:"internshipId"`
	Amount        int64     `gorm:"column:amount;type:bigint;not null" json:"amount"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (EscrowDeposit) TableName() string {
	return "escrow_deposits"
}
