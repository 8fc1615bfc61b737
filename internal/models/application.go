package models

import (
	"time"

	"github.com/internbridge/trustguard/internal/enum"
)

// Application tracks a student application to a listing. FirstResponseAt is
// the timestamp of the first status change away from "submitted"; it stays
// nil when the company never responded.
type Application struct {
	ID              string                 `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID       string                 `gorm:"column:company_id;type:uuid;index;not null" json:"companyId"`
	InternshipID    string                 `gorm:"column:internship_id;type:uuid;index;not null" json:"internshipId"`
	StudentID       string                 `gorm:"column:student_id;type:uuid;index;not null" json:"studentId"`
	Status          enum.ApplicationStatus `gorm:"column:status;type:varchar(50);default:'submitted'" json:"status"`
	SubmittedAt     time.Time              `gorm:"column:submitted_at;type:timestamp;not null" json:"submittedAt"`
	FirstResponseAt *time.Time             `gorm:"column:first_response_at;type:timestamp" json:"firstResponseAt"`
}

func (Application) TableName() string {
	return "applications"
}
