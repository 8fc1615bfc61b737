package interfaces

import (
	"context"
	"time"
)

type FraudReportRepository interface {
	CountSince(ctx context.Context, companyID string, since time.Time) (int64, error)
}
