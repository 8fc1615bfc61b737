package interfaces

import (
	"context"

	"github.com/internbridge/trustguard/internal/models"
)

type PaymentRecordRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]models.PaymentRecord, error)
}
