package interfaces

import (
	"context"
	"time"

	"github.com/internbridge/trustguard/internal/models"
)

// TrustScoreHistoryRepository owns trust score persistence. RecordScore
// commits the company's score and the audit row together in one database
// transaction; the score is never stored without its history entry.
type TrustScoreHistoryRepository interface {
	RecordScore(ctx context.Context, companyID string, score int, updatedAt time.Time, reason string) error
	ListByCompany(ctx context.Context, companyID string, limit int) ([]models.TrustScoreHistory, error)
}
