package abuse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/internbridge/trustguard/internal/enum"
	trusterr "github.com/internbridge/trustguard/internal/errors"
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/models"
	"github.com/internbridge/trustguard/internal/repository"
)

type mockCompanyRepository struct {
	mock.Mock
}

func (m *mockCompanyRepository) GetByID(ctx context.Context, companyID string) (*models.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *mockCompanyRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCompanyRepository) UpdateResponseRate(ctx context.Context, companyID string, rate float64) error {
	args := m.Called(ctx, companyID, rate)
	return args.Error(0)
}

func (m *mockCompanyRepository) UpdatePaymentReliability(ctx context.Context, companyID string, rate float64) error {
	args := m.Called(ctx, companyID, rate)
	return args.Error(0)
}

func (m *mockCompanyRepository) Suspend(ctx context.Context, companyID, reason string, flagCount int) error {
	args := m.Called(ctx, companyID, reason, flagCount)
	return args.Error(0)
}

type mockFraudReportRepository struct {
	mock.Mock
}

func (m *mockFraudReportRepository) CountSince(ctx context.Context, companyID string, since time.Time) (int64, error) {
	args := m.Called(ctx, companyID, since)
	return args.Get(0).(int64), args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishEvent(ctx context.Context, entityId string, eventType enum.EventType, message interface{}) error {
	args := m.Called(ctx, entityId, eventType, message)
	return args.Error(0)
}

func (m *mockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func newTestService(companies *mockCompanyRepository, reports *mockFraudReportRepository, publisher *mockEventPublisher) *abuseService {
	return &abuseService{
		cfg:       DefaultConfig(),
		companies: companies,
		reports:   reports,
		publisher: publisher,
		log:       getLogger(),
	}
}

func TestAggregateReports_BelowThreshold(t *testing.T) {
	// Arrange
	companies := new(mockCompanyRepository)
	reports := new(mockFraudReportRepository)
	svc := newTestService(companies, reports, nil)

	companies.On("GetByID", mock.Anything, "c1").Return(&models.Company{ID: "c1"}, nil)
	reports.On("CountSince", mock.Anything, "c1", mock.Anything).Return(int64(2), nil)

	// Act
	result, err := svc.AggregateReports(context.Background(), "c1")

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Suspended)
	assert.Equal(t, 2, result.ReportCount)
	companies.AssertNotCalled(t, "Suspend", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregateReports_SuspendsAtThreshold(t *testing.T) {
	companies := new(mockCompanyRepository)
	reports := new(mockFraudReportRepository)
	publisher := new(mockEventPublisher)
	svc := newTestService(companies, reports, publisher)

	companies.On("GetByID", mock.Anything, "c1").Return(&models.Company{ID: "c1"}, nil)
	reports.On("CountSince", mock.Anything, "c1", mock.Anything).Return(int64(3), nil)
	companies.On("Suspend", mock.Anything, "c1", "Multiple scam reports in 24 hours", 3).Return(nil)
	publisher.On("PublishEvent", mock.Anything, "c1", enum.EventEmployerSuspended, mock.Anything).Return(nil)

	result, err := svc.AggregateReports(context.Background(), "c1")

	require.NoError(t, err)
	assert.True(t, result.Suspended)
	assert.Equal(t, 3, result.ReportCount)
	companies.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAggregateReports_AlreadySuspended(t *testing.T) {
	companies := new(mockCompanyRepository)
	reports := new(mockFraudReportRepository)
	publisher := new(mockEventPublisher)
	svc := newTestService(companies, reports, publisher)

	companies.On("GetByID", mock.Anything, "c1").Return(&models.Company{ID: "c1", IsSuspended: true}, nil)
	reports.On("CountSince", mock.Anything, "c1", mock.Anything).Return(int64(5), nil)

	result, err := svc.AggregateReports(context.Background(), "c1")

	// the flag is reported but never set twice
	require.NoError(t, err)
	assert.True(t, result.Suspended)
	companies.AssertNotCalled(t, "Suspend", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregateReports_CompanyNotFound(t *testing.T) {
	companies := new(mockCompanyRepository)
	svc := newTestService(companies, nil, nil)

	companies.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrCompanyNotFound)

	result, err := svc.AggregateReports(context.Background(), "missing")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, trusterr.ErrEmployerNotFound)
}

func TestAggregateReports_WindowIsTrailing24h(t *testing.T) {
	companies := new(mockCompanyRepository)
	reports := new(mockFraudReportRepository)
	svc := newTestService(companies, reports, nil)

	companies.On("GetByID", mock.Anything, "c1").Return(&models.Company{ID: "c1"}, nil)

	var capturedSince time.Time
	reports.On("CountSince", mock.Anything, "c1", mock.MatchedBy(func(since time.Time) bool {
		capturedSince = since
		return true
	})).Return(int64(0), nil)

	before := time.Now().UTC().Add(-24 * time.Hour)
	_, err := svc.AggregateReports(context.Background(), "c1")
	after := time.Now().UTC().Add(-24 * time.Hour)

	require.NoError(t, err)
	assert.False(t, capturedSince.Before(before))
	assert.False(t, capturedSince.After(after))
}
