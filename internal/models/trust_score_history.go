package models

import "time"

// TrustScoreHistory is an immutable audit row appended on every score
// computation. Rows are never updated or deleted.
type TrustScoreHistory struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID string    `gorm:"column:company_id;type:uuid;index;not null" json:"companyId"`
	Score     int       `gorm:"column:score;type:integer;not null" json:"score"`
	Reason    string    `gorm:"column:reason;type:varchar(255)" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (TrustScoreHistory) TableName() string {
	return "trust_score_history"
}
