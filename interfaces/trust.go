package interfaces

import (
	"context"

	"github.com/internbridge/trustguard/dto"
)

// TrustScoreService derives employer reputation from behavioral signals.
type TrustScoreService interface {
	ComputeScore(ctx context.Context, companyID string) (*dto.TrustScore, error)
	UpdateResponseRate(ctx context.Context, companyID string) (float64, error)
	UpdatePaymentReliability(ctx context.Context, companyID string) (float64, error)
	RecomputeAll(ctx context.Context) (int, error)
}
