package dto

import "time"

// TrustScore is the derived 0-100 employer reputation value.
type TrustScore struct {
	CompanyID   string    `json:"companyId"`
	Score       int       `json:"score"`
	LastUpdated time.Time `json:"lastUpdated"`
}
