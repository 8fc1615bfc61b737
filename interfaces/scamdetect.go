package interfaces

import (
	"context"

	"github.com/internbridge/trustguard/dto"
)

type ScamDetectionService interface {
	Evaluate(listing dto.Listing, employerTrustScore int) dto.Verdict
	EvaluateListing(ctx context.Context, listing dto.Listing) (*dto.Verdict, error)
	CheckCompanyBehavior(ctx context.Context, companyID string) (*dto.BehaviorCheck, error)
}
