package models

import "time"

// FraudReport is a student-filed report against a company.
type FraudReport struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID  string    `gorm:"column:company_id;type:uuid;index;not null" json:"companyId"`
	ReporterID string    `gorm:"column:reporter_id;type:uuid;not null" json:"reporterId"`
	Reason     string    `gorm:"column:reason;type:text" json:"reason"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;index;default:current_timestamp" json:"createdAt"`
}

func (FraudReport) TableName() string {
	return "scam_reports"
}
