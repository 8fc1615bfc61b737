package interfaces

import (
	"context"

	"github.com/internbridge/trustguard/internal/models"
)

type ApplicationRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]models.Application, error)
}
