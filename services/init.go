package services

import (
	"github.com/internbridge/trustguard/config"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/repository"
	"github.com/internbridge/trustguard/services/abuse"
	"github.com/internbridge/trustguard/services/escrow"
	"github.com/internbridge/trustguard/services/events"
	"github.com/internbridge/trustguard/services/payments"
	"github.com/internbridge/trustguard/services/scamdetect"
	"github.com/internbridge/trustguard/services/trust"
)

type Services struct {
	EventPublisher       interfaces.EventPublisher
	TrustScoreService    interfaces.TrustScoreService
	ScamDetectionService interfaces.ScamDetectionService
	AbuseService         interfaces.AbuseService
	EscrowService        interfaces.EscrowService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	publisherConfig := &events.PublisherConfig{
		MessageTTL:          events.DefaultMessageTTL,
		MaxRetries:          events.DefaultMaxRetries,
		PublishTimeout:      events.DefaultPublishTimeout,
		ReconnectBackoff:    events.DefaultReconnectBackoff,
		MaxReconnectBackoff: events.DefaultMaxReconnectBackoff,
	}

	publisher, err := events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log, publisherConfig)
	if err != nil {
		return nil, err
	}

	gateway := payments.NewPaymentGatewayService(cfg.PaymentGatewayConfig)

	services := Services{
		EventPublisher: publisher,
		TrustScoreService: trust.NewTrustScoreService(
			trust.DefaultConfig(),
			repos.CompanyRepository,
			repos.ApplicationRepository,
			repos.PaymentRecordRepository,
			repos.TrustScoreHistoryRepository,
			log,
		),
		ScamDetectionService: scamdetect.NewScamDetectionService(
			scamdetect.DefaultConfig(),
			repos.CompanyRepository,
			repos.InternshipRepository,
			publisher,
			log,
		),
		AbuseService: abuse.NewAbuseService(
			abuse.DefaultConfig(),
			repos.CompanyRepository,
			repos.FraudReportRepository,
			publisher,
			log,
		),
		EscrowService: escrow.NewEscrowService(
			escrow.DefaultConfig(),
			repos.EscrowTransactionRepository,
			repos.CompanyRepository,
			gateway,
			publisher,
			log,
		),
	}

	return &services, nil
}
