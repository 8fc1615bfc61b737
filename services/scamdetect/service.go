package scamdetect

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/internbridge/trustguard/dto"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/enum"
	trusterr "github.com/internbridge/trustguard/internal/errors"
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/repository"
	"github.com/internbridge/trustguard/internal/tracing"
	"github.com/internbridge/trustguard/internal/utils"
)

// Config carries the detection keyword list, thresholds and risk weights.
// Injected at construction and never mutated, so tests can substitute
// fixtures without touching globals.
type Config struct {
	Keywords             []string
	KeywordRisk          int
	HighStipendThreshold int64
	HighStipendRisk      int
	MaxPositions         int
	TooManyPositionsRisk int
	MinDescriptionLength int
	VagueDescriptionRisk int
	LowTrustThreshold    int
	LowTrustRisk         int

	ReviewThreshold int
	RejectThreshold int

	BehaviorWindow       time.Duration
	MaxListingsPerWindow int
	MaxDuplicateListings int
}

func DefaultConfig() Config {
	return Config{
		Keywords: []string{
			"registration fee", "pay to apply", "deposit required",
			"earn from home", "guaranteed income", "no experience needed",
			"work from phone", "easy money", "investment opportunity",
		},
		KeywordRisk:          20,
		HighStipendThreshold: 50000,
		HighStipendRisk:      15,
		MaxPositions:         50,
		TooManyPositionsRisk: 25,
		MinDescriptionLength: 50,
		VagueDescriptionRisk: 10,
		LowTrustThreshold:    30,
		LowTrustRisk:         30,

		ReviewThreshold: 30,
		RejectThreshold: 50,

		BehaviorWindow:       24 * time.Hour,
		MaxListingsPerWindow: 20,
		MaxDuplicateListings: 5,
	}
}

type scamDetectionService struct {
	cfg         Config
	companies   interfaces.CompanyRepository
	internships interfaces.InternshipRepository
	publisher   interfaces.EventPublisher
	log         logger.Logger
}

func NewScamDetectionService(
	cfg Config,
	companies interfaces.CompanyRepository,
	internships interfaces.InternshipRepository,
	publisher interfaces.EventPublisher,
	log logger.Logger,
) interfaces.ScamDetectionService {
	return &scamDetectionService{
		cfg:         cfg,
		companies:   companies,
		internships: internships,
		publisher:   publisher,
		log:         log,
	}
}

// Evaluate is a pure function over the listing and the employer trust score.
// Risk accumulates additively and is never capped. Flags are recorded in
// evaluation order: keywords in list order, then stipend, positions,
// description length, trust score. Same inputs always give the same verdict.
func (s *scamDetectionService) Evaluate(listing dto.Listing, employerTrustScore int) dto.Verdict {
	flags := []string{}
	riskScore := 0

	text := strings.ToLower(listing.Title + " " + listing.Description)

	for _, keyword := range s.cfg.Keywords {
		if strings.Contains(text, keyword) {
			flags = append(flags, fmt.Sprintf("Contains suspicious keyword: %q", keyword))
			riskScore += s.cfg.KeywordRisk
		}
	}

	if listing.StipendAmount > s.cfg.HighStipendThreshold {
		flags = append(flags, "Unusually high stipend for entry-level position")
		riskScore += s.cfg.HighStipendRisk
	}

	if listing.Positions > s.cfg.MaxPositions {
		flags = append(flags, "Suspiciously high number of positions")
		riskScore += s.cfg.TooManyPositionsRisk
	}

	// MinDescriptionLength is a character threshold, not a byte count
	if utf8.RuneCountInString(listing.Description) < s.cfg.MinDescriptionLength {
		flags = append(flags, "Description too vague or short")
		riskScore += s.cfg.VagueDescriptionRisk
	}

	if employerTrustScore < s.cfg.LowTrustThreshold {
		flags = append(flags, "Company has low trust score")
		riskScore += s.cfg.LowTrustRisk
	}

	recommendation := enum.RecommendationApprove
	switch {
	case riskScore >= s.cfg.RejectThreshold:
		recommendation = enum.RecommendationReject
	case riskScore >= s.cfg.ReviewThreshold:
		recommendation = enum.RecommendationReview
	}

	return dto.Verdict{
		IsScam:         riskScore >= s.cfg.RejectThreshold,
		RiskScore:      riskScore,
		Flags:          flags,
		Recommendation: recommendation,
	}
}

// EvaluateListing looks up the employer's trust score and evaluates the
// listing against it. A review or reject verdict is published for the
// moderation queue.
func (s *scamDetectionService) EvaluateListing(ctx context.Context, listing dto.Listing) (*dto.Verdict, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ScamDetectionService.EvaluateListing")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagCompany(span, listing.CompanyID)

	company, err := s.companies.GetByID(ctx, listing.CompanyID)
	if err != nil {
		if err == repository.ErrCompanyNotFound {
			return nil, trusterr.ErrEmployerNotFound
		}
		tracing.TraceErr(span, err)
		return nil, mapDeadline(ctx, err)
	}

	verdict := s.Evaluate(listing, company.TrustScore)
	span.LogKV("riskScore", verdict.RiskScore, "recommendation", verdict.Recommendation.String())

	if verdict.Recommendation != enum.RecommendationApprove && s.publisher != nil {
		event := dto.ListingFlagged{
			CompanyID:      listing.CompanyID,
			Title:          listing.Title,
			RiskScore:      verdict.RiskScore,
			Flags:          verdict.Flags,
			Recommendation: verdict.Recommendation.String(),
		}
		if err := s.publisher.PublishEvent(ctx, listing.CompanyID, enum.EventListingFlagged, event); err != nil {
			// moderation consumers catch up from the DLQ; the verdict stands
			s.log.Errorf("Failed to publish listing flagged event: %v", err)
		}
	}

	return &verdict, nil
}

// CheckCompanyBehavior inspects listings created in the trailing window.
// The checks are an ordered list of predicates and the first satisfied one
// wins; that order is a documented contract, not an accident:
//  1. more than MaxListingsPerWindow listings -> "Too many listings in short time"
//  2. more than MaxDuplicateListings identical (title, description) pairs
//     -> "Multiple identical listings"
func (s *scamDetectionService) CheckCompanyBehavior(ctx context.Context, companyID string) (*dto.BehaviorCheck, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ScamDetectionService.CheckCompanyBehavior")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagCompany(span, companyID)

	since := utils.Now().Add(-s.cfg.BehaviorWindow)
	recent, err := s.internships.ListByCompanySince(ctx, companyID, since)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, mapDeadline(ctx, err)
	}

	check := &dto.BehaviorCheck{ListingCount: len(recent)}

	if len(recent) > s.cfg.MaxListingsPerWindow {
		s.log.Warnf("Company %s posted %d listings in the trailing window", companyID, len(recent))
		check.Suspicious = true
		check.Reason = "Too many listings in short time"
		return check, nil
	}

	duplicates := 0
	seen := make(map[string]int, len(recent))
	for _, listing := range recent {
		key := listing.Title + "\x00" + listing.Description
		seen[key]++
		if seen[key] > 1 {
			duplicates++
		}
	}

	if duplicates > s.cfg.MaxDuplicateListings {
		check.Suspicious = true
		check.Reason = "Multiple identical listings"
		return check, nil
	}

	return check, nil
}

func mapDeadline(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return trusterr.ErrTimeout
	}
	return err
}
