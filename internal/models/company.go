package models

import (
	"time"
)

// Company represents an employer on the platform, including the behavioral
// trust signals the scoring engine reads and the escrow account balance.
type Company struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`

	// trust signals, recomputed by periodic jobs; rates are 0-100
	ResponseRate       float64 `gorm:"column:response_rate;type:numeric;default:0" json:"responseRate"`
	PaymentReliability float64 `gorm:"column:payment_reliability;type:numeric;default:0" json:"paymentReliability"`
	InternRatings      float64 `gorm:"column:intern_ratings;type:numeric;default:0" json:"internRatings"`
	CompletionRate     float64 `gorm:"column:completion_rate;type:numeric;default:0" json:"completionRate"`
	GhostingIncidents  int     `gorm:"column:ghosting_incidents;type:integer;default:0" json:"ghostingIncidents"`

	// derived trust score, only ever written by the trust score engine
	TrustScore          int        `gorm:"column:trust_score;type:integer;default:50" json:"trustScore"`
	TrustScoreUpdatedAt *time.Time `gorm:"column:trust_score_updated_at;type:timestamp" json:"trustScoreUpdatedAt"`

	// suspension flags, one-way from the abuse aggregator
	IsSuspended      bool   `gorm:"column:is_suspended;default:false" json:"isSuspended"`
	SuspensionReason string `gorm:"column:suspension_reason;type:varchar(255)" json:"suspensionReason"`
	FlagCount        int    `gorm:"column:flag_count;type:integer;default:0" json:"flagCount"`

	// escrow account: sum of currently held transaction amounts, minor units
	EscrowBalance int64 `gorm:"column:escrow_balance;type:bigint;default:0" json:"escrowBalance"`
}

func (Company) TableName() string {
	return "companies"
}

// TrustSignals is the read view handed to the trust score engine.
type TrustSignals struct {
	ResponseRate       float64
	PaymentReliability float64
	InternRatings      float64
	CompletionRate     float64
	GhostingIncidents  int
}

func (c *Company) Signals() TrustSignals {
	return TrustSignals{
		ResponseRate:       c.ResponseRate,
		PaymentReliability: c.PaymentReliability,
		InternRatings:      c.InternRatings,
		CompletionRate:     c.CompletionRate,
		GhostingIncidents:  c.GhostingIncidents,
	}
}
