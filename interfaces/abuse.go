package interfaces

import (
	"context"

	"github.com/internbridge/trustguard/dto"
)

type AbuseService interface {
	AggregateReports(ctx context.Context, companyID string) (*dto.AbuseResult, error)
}
