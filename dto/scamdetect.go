package dto

import "github.com/internbridge/trustguard/internal/enum"

// Listing is the evaluation input for a listing that may not be persisted yet.
type Listing struct {
	CompanyID     string `json:"companyId"`
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	StipendAmount int64  `json:"stipendAmount"`
	Positions     int    `json:"positions"`
}

// Verdict is the scam evaluation result. It is produced fresh per evaluation
// and never persisted as authoritative state.
type Verdict struct {
	IsScam         bool                `json:"isScam"`
	RiskScore      int                 `json:"riskScore"`
	Flags          []string            `json:"flags"`
	Recommendation enum.Recommendation `json:"recommendation"`
}

// BehaviorCheck is the result of inspecting a company's recent listing activity.
type BehaviorCheck struct {
	Suspicious   bool   `json:"suspicious"`
	Reason       string `json:"reason,omitempty"`
	ListingCount int    `json:"listingCount"`
}

// AbuseResult reports the 24h fraud report aggregation outcome.
type AbuseResult struct {
	Suspended   bool `json:"suspended"`
	ReportCount int  `json:"reportCount"`
}
