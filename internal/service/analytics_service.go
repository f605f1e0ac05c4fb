package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"laundry-pos/internal/auth"
	"laundry-pos/internal/model"
	"laundry-pos/internal/repository"

	"github.com/rs/zerolog"
)

// topCustomerLimit caps the customer frequency view.
const topCustomerLimit = 10

// revenueWindowMonths is the trailing window of the monthly revenue view.
const revenueWindowMonths = 6

// analyticsService implements AnalyticsService, turning raw aggregate
// buckets into the labelled dashboard views.
type analyticsService struct {
	repo   repository.AnalyticsRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo repository.AnalyticsRepository, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "analytics").Logger(),
	}
}

var serviceTypeLabels = map[string]string{
	"wash_dry":  "Wash & Dry",
	"wash_only": "Wash Only",
	"dry_only":  "Dry Only",
	"mixed":     "Mixed Services",
}

// Report computes all six dashboard views. Each view queries the order
// set independently; staleness across views under concurrent writes is
// acceptable.
func (s *analyticsService) Report(ctx context.Context, p *auth.Principal) (*model.AnalyticsReport, error) {
	if !auth.Can(p, auth.ActionViewAnalytics) {
		return nil, model.ErrForbidden
	}

	report := &model.AnalyticsReport{
		ServiceTypes:       []model.ServiceTypeCount{},
		DayOfWeek:          []model.DayOfWeekCount{},
		Revenue:            []model.RevenuePoint{},
		CustomerFrequency:  []model.CustomerFrequency{},
		PeakHours:          []model.HourCount{},
		StatusDistribution: []model.StatusCount{},
	}

	serviceTypes, err := s.repo.ServiceTypeCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load service type distribution: %w", err)
	}
	for _, b := range serviceTypes {
		report.ServiceTypes = append(report.ServiceTypes, model.ServiceTypeCount{
			ServiceType: serviceTypeLabel(b.ServiceType),
			Count:       b.Count,
		})
	}

	weekdays, err := s.repo.WeekdayCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load day-of-week distribution: %w", err)
	}
	for _, b := range weekdays {
		report.DayOfWeek = append(report.DayOfWeek, model.DayOfWeekCount{
			Day:   b.Day,
			Count: b.Count,
		})
	}

	since := s.now().AddDate(0, -revenueWindowMonths, 0)
	revenue, err := s.repo.MonthlyRevenue(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly revenue: %w", err)
	}
	for _, b := range revenue {
		report.Revenue = append(report.Revenue, model.RevenuePoint{
			Period: monthLabel(b.Month),
			Amount: b.Amount,
		})
	}

	customers, err := s.repo.TopCustomers(ctx, topCustomerLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer frequency: %w", err)
	}
	for _, b := range customers {
		report.CustomerFrequency = append(report.CustomerFrequency, model.CustomerFrequency{
			CustomerName: b.CustomerName,
			OrderCount:   b.OrderCount,
			TotalSpent:   b.TotalSpent,
		})
	}

	hours, err := s.repo.HourlyCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load peak hours: %w", err)
	}
	for _, b := range hours {
		report.PeakHours = append(report.PeakHours, model.HourCount{
			Hour:  fmt.Sprintf("%d:00", b.Hour),
			Count: b.Count,
		})
	}

	statuses, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load status distribution: %w", err)
	}
	for _, b := range statuses {
		report.StatusDistribution = append(report.StatusDistribution, model.StatusCount{
			Status: capitalize(b.Status),
			Count:  b.Count,
		})
	}

	s.logger.Debug().Msg("analytics report assembled")
	return report, nil
}

// serviceTypeLabel maps a raw service type to its display name.
// Unrecognised values pass through untouched.
func serviceTypeLabel(serviceType string) string {
	if label, ok := serviceTypeLabels[serviceType]; ok {
		return label
	}
	return serviceType
}

// monthLabel formats a "2006-01" month key as "Jan 2006". Unparseable
// keys pass through untouched.
func monthLabel(month string) string {
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return parsed.Format("Jan 2006")
}

// capitalize upper-cases the first letter of a status value.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
