package services

import (
	"database/sql"
	"errors"
	"strings"

	"fleetops/internal/domain"
	"fleetops/internal/domain/models"
	"fleetops/internal/finance"
	"fleetops/internal/repositories"
)

// ReportService assembles the read-side views: weekly report, fleet
// rollup, flag dashboard and year-over-year comparison. All computation
// happens in the finance package over loaded snapshots.
type ReportService struct {
	TripsRepo  repositories.TripsRepository
	DieselRepo repositories.DieselRepository
	ConfigRepo repositories.ConfigRepository
	RequestID  string
}

func (s ReportService) loadTripsWithCosts(status, currency string) ([]models.Trip, error) {
	trips, err := s.TripsRepo.ListTrips(status, currency)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load trips", Err: err}
	}
	if err := s.TripsRepo.AttachChildren(trips); err != nil {
		return nil, domain.InternalError{Msg: "failed to load trip costs", Err: err}
	}
	return trips, nil
}

// WeeklyReports buckets all closed-out trips into Monday-Sunday weeks.
func (s ReportService) WeeklyReports() ([]finance.WeeklyReport, error) {
	trips, err := s.loadTripsWithCosts("", "")
	if err != nil {
		return nil, err
	}
	return finance.BuildWeeklyReports(trips), nil
}

// FleetReport rolls up all trips of one currency.
func (s ReportService) FleetReport(currency string) (finance.FleetReport, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = models.CurrencyZAR
	}
	if !models.ValidCurrency(currency) {
		return finance.FleetReport{}, domain.ValidationError{Field: "currency", Msg: "must be ZAR or USD"}
	}
	trips, err := s.loadTripsWithCosts("", currency)
	if err != nil {
		return finance.FleetReport{}, err
	}
	return finance.AggregateFleetReport(trips, currency), nil
}

// FlaggedCosts builds the cross-trip triage dashboard.
func (s ReportService) FlaggedCosts() ([]models.FlaggedCost, error) {
	trips, err := s.loadTripsWithCosts("", "")
	if err != nil {
		return nil, err
	}
	return finance.CollectFlaggedCosts(trips), nil
}

// YoYComparison compares the admin-entered snapshot for year against the
// year before it. A missing previous year compares against the zero
// snapshot, which guards every delta to {0,0}.
func (s ReportService) YoYComparison(year int) (finance.YoYComparison, error) {
	current, err := s.ConfigRepo.GetYTD(year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.YoYComparison{}, domain.NotFoundError{Resource: "ytd metrics"}
		}
		return finance.YoYComparison{}, domain.InternalError{Msg: "failed to load ytd metrics", Err: err}
	}
	previous, err := s.ConfigRepo.GetYTD(year - 1)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return finance.YoYComparison{}, domain.InternalError{Msg: "failed to load ytd metrics", Err: err}
		}
		previous = models.YTDMetrics{Year: year - 1}
	}
	return finance.CompareYTD(current, previous), nil
}

// DebriefQueue lists diesel records awaiting or holding a debrief.
func (s ReportService) DebriefQueue(fleetNumber string) ([]models.DieselRecord, error) {
	records, err := s.DieselRepo.List(repositories.DieselFilter{
		FleetNumber: fleetNumber,
		DebriefOnly: true,
	})
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load debrief queue", Err: err}
	}
	return records, nil
}
