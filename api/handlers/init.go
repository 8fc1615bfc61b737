package handlers

import (
	"github.com/internbridge/trustguard/internal/repository"
	"github.com/internbridge/trustguard/services"
)

type APIHandlers struct {
	Trust    *TrustHandler
	Listings *ListingsHandler
	Reports  *ReportsHandler
	Escrow   *EscrowHandler
}

func InitHandlers(s *services.Services, repos *repository.Repositories) *APIHandlers {
	return &APIHandlers{
		Trust:    NewTrustHandler(s.TrustScoreService, s.ScamDetectionService, repos.TrustScoreHistoryRepository),
		Listings: NewListingsHandler(s.ScamDetectionService),
		Reports:  NewReportsHandler(s.AbuseService),
		Escrow:   NewEscrowHandler(s.EscrowService),
	}
}
