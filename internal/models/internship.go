package models

import "time"

// Internship is a listing posted by a company.
type Internship struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID     string    `gorm:"column:company_id;type:uuid;index;not null" json:"companyId"`
	Title         string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description   string    `gorm:"column:description;type:text" json:"description"`
	StipendAmount int64     `gorm:"column:stipend_amount;type:bigint;default:0" json:"stipendAmount"`
	Positions     int       `gorm:"column:positions;type:integer;default:1" json:"positions"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;index;default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (Internship) TableName() string {
	return "internships"
}
