package trust

import (
	"context"
	"math"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/internbridge/trustguard/dto"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/enum"
	trusterr "github.com/internbridge/trustguard/internal/errors"
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/models"
	"github.com/internbridge/trustguard/internal/repository"
	"github.com/internbridge/trustguard/internal/tracing"
	"github.com/internbridge/trustguard/internal/utils"
)

// Config carries the scoring weights. Weights are fixed at construction;
// there is deliberately no way to change them at runtime.
type Config struct {
	ResponseRateWeight       float64
	PaymentReliabilityWeight float64
	InternRatingsWeight      float64
	CompletionRateWeight     float64
	// GhostingPenalty is subtracted once per ghosting incident. The product
	// team signed off on each incident costing a full trust point, linear and
	// unbounded before clamping.
	GhostingPenalty float64
	// ResponseWindow is how quickly a company must react to an application
	// for it to count as a response.
	ResponseWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		ResponseRateWeight:       0.25,
		PaymentReliabilityWeight: 0.30,
		InternRatingsWeight:      0.20,
		CompletionRateWeight:     0.15,
		GhostingPenalty:          1.0,
		ResponseWindow:           7 * 24 * time.Hour,
	}
}

type trustScoreService struct {
	cfg          Config
	companies    interfaces.CompanyRepository
	applications interfaces.ApplicationRepository
	payments     interfaces.PaymentRecordRepository
	history      interfaces.TrustScoreHistoryRepository
	log          logger.Logger
}

func NewTrustScoreService(
	cfg Config,
	companies interfaces.CompanyRepository,
	applications interfaces.ApplicationRepository,
	payments interfaces.PaymentRecordRepository,
	history interfaces.TrustScoreHistoryRepository,
	log logger.Logger,
) interfaces.TrustScoreService {
	return &trustScoreService{
		cfg:          cfg,
		companies:    companies,
		applications: applications,
		payments:     payments,
		history:      history,
		log:          log,
	}
}

// ComputeScore recomputes the trust score from the company's current signals
// and persists it together with its audit row in one transaction. The score is
// always the deterministic function of the signals; callers can never set it
// directly.
func (s *trustScoreService) ComputeScore(ctx context.Context, companyID string) (*dto.TrustScore, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "TrustScoreService.ComputeScore")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagCompany(span, companyID)

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if err == repository.ErrCompanyNotFound {
			return nil, trusterr.ErrEmployerNotFound
		}
		tracing.TraceErr(span, err)
		return nil, mapDeadline(ctx, err)
	}

	score := s.scoreFromSignals(company.Signals())
	span.LogKV("score", score)

	now := utils.Now()
	if err := s.history.RecordScore(ctx, companyID, score, now, "Automated calculation"); err != nil {
		if err == repository.ErrCompanyNotFound {
			return nil, trusterr.ErrEmployerNotFound
		}
		tracing.TraceErr(span, err)
		return nil, mapDeadline(ctx, err)
	}

	return &dto.TrustScore{
		CompanyID:   companyID,
		Score:       score,
		LastUpdated: now,
	}, nil
}

// scoreFromSignals is the fixed scoring formula: weighted sum of the four
// rates minus one point per ghosting incident, rounded half away from zero
// and clamped to [0,100].
func (s *trustScoreService) scoreFromSignals(signals models.TrustSignals) int {
	raw := signals.ResponseRate*s.cfg.ResponseRateWeight +
		signals.PaymentReliability*s.cfg.PaymentReliabilityWeight +
		signals.InternRatings*s.cfg.InternRatingsWeight +
		signals.CompletionRate*s.cfg.CompletionRateWeight -
		float64(signals.GhostingIncidents)*s.cfg.GhostingPenalty

	score := int(math.Round(raw))

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// UpdateResponseRate recomputes the percentage of applications whose first
// status change away from "submitted" happened within the response window.
// Applications the company never responded to count against the rate.
func (s *trustScoreService) UpdateResponseRate(ctx context.Context, companyID string) (float64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "TrustScoreService.UpdateResponseRate")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagCompany(span, companyID)

	applications, err := s.applications.ListByCompany(ctx, companyID)
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, mapDeadline(ctx, err)
	}

	rate := responseRate(applications, s.cfg.ResponseWindow)
	span.LogKV("responseRate", rate)

	if err := s.companies.UpdateResponseRate(ctx, companyID, rate); err != nil {
		if err == repository.ErrCompanyNotFound {
			return 0, trusterr.ErrEmployerNotFound
		}
		tracing.TraceErr(span, err)
		return 0, mapDeadline(ctx, err)
	}

	return rate, nil
}

func responseRate(applications []models.Application, window time.Duration) float64 {
	if len(applications) == 0 {
		return 0
	}

	responded := 0
	for _, app := range applications {
		if app.FirstResponseAt == nil {
			continue
		}
		if app.FirstResponseAt.Sub(app.SubmittedAt) <= window {
			responded++
		}
	}

	return float64(responded) / float64(len(applications)) * 100
}

// UpdatePaymentReliability recomputes the percentage of payment tracking
// records that were paid on time. No records yields 0, not an error.
func (s *trustScoreService) UpdatePaymentReliability(ctx context.Context, companyID string) (float64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "TrustScoreService.UpdatePaymentReliability")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagCompany(span, companyID)

	records, err := s.payments.ListByCompany(ctx, companyID)
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, mapDeadline(ctx, err)
	}

	if len(records) == 0 {
		return 0, nil
	}

	onTime := 0
	for _, record := range records {
		if record.Status == enum.PaymentOnTime {
			onTime++
		}
	}
	rate := float64(onTime) / float64(len(records)) * 100
	span.LogKV("paymentReliability", rate)

	if err := s.companies.UpdatePaymentReliability(ctx, companyID, rate); err != nil {
		if err == repository.ErrCompanyNotFound {
			return 0, trusterr.ErrEmployerNotFound
		}
		tracing.TraceErr(span, err)
		return 0, mapDeadline(ctx, err)
	}

	return rate, nil
}

// RecomputeAll refreshes signals and scores for every company. Used by the
// nightly cron job; per-company failures are logged and skipped.
func (s *trustScoreService) RecomputeAll(ctx context.Context) (int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "TrustScoreService.RecomputeAll")
	defer span.Finish()
	tracing.TagComponentService(span)

	ids, err := s.companies.ListIDs(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, mapDeadline(ctx, err)
	}

	updated := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			// shutdown mid-sweep; the rest picks up next run
			break
		}
		if _, err := s.UpdateResponseRate(ctx, id); err != nil {
			s.log.Errorf("Failed to update response rate for company %s: %v", id, err)
			continue
		}
		if _, err := s.UpdatePaymentReliability(ctx, id); err != nil {
			s.log.Errorf("Failed to update payment reliability for company %s: %v", id, err)
			continue
		}
		if _, err := s.ComputeScore(ctx, id); err != nil {
			s.log.Errorf("Failed to compute trust score for company %s: %v", id, err)
			continue
		}
		updated++
	}

	span.LogKV("updated", updated)
	return updated, nil
}

// mapDeadline turns a context deadline expiry into the timeout sentinel so
// callers can tell a slow collaborator from a broken one.
func mapDeadline(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return trusterr.ErrTimeout
	}
	return err
}
