package abuse

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/internbridge/trustguard/dto"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/enum"
	trusterr "github.com/internbridge/trustguard/internal/errors"
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/repository"
	"github.com/internbridge/trustguard/internal/tracing"
	"github.com/internbridge/trustguard/internal/utils"
)

const suspensionReason = "Multiple scam reports in 24 hours"

type Config struct {
	ReportWindow     time.Duration
	SuspendThreshold int
}

func DefaultConfig() Config {
	return Config{
		ReportWindow:     24 * time.Hour,
		SuspendThreshold: 3,
	}
}

type abuseService struct {
	cfg       Config
	companies interfaces.CompanyRepository
	reports   interfaces.FraudReportRepository
	publisher interfaces.EventPublisher
	log       logger.Logger
}

func NewAbuseService(
	cfg Config,
	companies interfaces.CompanyRepository,
	reports interfaces.FraudReportRepository,
	publisher interfaces.EventPublisher,
	log logger.Logger,
) interfaces.AbuseService {
	return &abuseService{
		cfg:       cfg,
		companies: companies,
		reports:   reports,
		publisher: publisher,
		log:       log,
	}
}

// AggregateReports counts fraud reports in the trailing window and suspends
// the company once the threshold is reached. Below the threshold this is a
// pure read; calling it repeatedly mutates nothing. The suspension is
// one-way from here; re-activation is an administrative action elsewhere.
func (s *abuseService) AggregateReports(ctx context.Context, companyID string) (*dto.AbuseResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "AbuseService.AggregateReports")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagCompany(span, companyID)

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if err == repository.ErrCompanyNotFound {
			return nil, trusterr.ErrEmployerNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	since := utils.Now().Add(-s.cfg.ReportWindow)
	count, err := s.reports.CountSince(ctx, companyID, since)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	span.LogKV("reportCount", count)

	result := &dto.AbuseResult{ReportCount: int(count)}

	if int(count) < s.cfg.SuspendThreshold {
		return result, nil
	}

	result.Suspended = true
	if company.IsSuspended {
		// already suspended, nothing more to record
		return result, nil
	}

	if err := s.companies.Suspend(ctx, companyID, suspensionReason, int(count)); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	s.log.Warnf("Company %s auto-suspended due to %d reports", companyID, count)

	if s.publisher != nil {
		event := dto.EmployerSuspended{
			CompanyID:   companyID,
			Reason:      suspensionReason,
			ReportCount: int(count),
		}
		if err := s.publisher.PublishEvent(ctx, companyID, enum.EventEmployerSuspended, event); err != nil {
			s.log.Errorf("Failed to publish employer suspended event: %v", err)
		}
	}

	return result, nil
}
