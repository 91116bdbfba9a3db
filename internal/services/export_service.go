package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"fleetops/internal/domain/models"
	"fleetops/internal/finance"
	"fleetops/internal/utils"
)

// ExportService renders the weekly and debrief reports as CSV. Loaders
// are injectable so the writers test without a database.
type ExportService struct {
	Reports       ReportService
	RequestID     string
	WeeklyLoader  func() ([]finance.WeeklyReport, error)
	DebriefLoader func(fleetNumber string) ([]models.DieselRecord, error)
	NormLoader    func() ([]models.DieselNorm, error)
}

var weeklyCSVHeader = []string{
	"week", "startDate", "endDate", "tripCount",
	"totalRevenue", "totalCosts", "grossProfit", "profitMarginPct",
	"totalKilometers", "ipk", "cpk",
}

// WriteWeeklyCSV streams the weekly report, most recent week first.
func (s ExportService) WriteWeeklyCSV(w io.Writer) error {
	reports, err := s.loadWeekly()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(weeklyCSVHeader); err != nil {
		return err
	}
	for _, r := range reports {
		row := []string{
			fmt.Sprintf("%d-W%02d", r.Year, r.Week),
			r.StartDate,
			r.EndDate,
			strconv.Itoa(r.TripCount),
			utils.FormatMoney(r.TotalRevenue),
			utils.FormatMoney(r.TotalCosts),
			utils.FormatMoney(r.GrossProfit),
			fmt.Sprintf("%.2f", r.ProfitMarginPercent),
			fmt.Sprintf("%.1f", r.TotalKilometers),
			fmt.Sprintf("%.3f", r.IPK),
			fmt.Sprintf("%.3f", r.CPK),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	utils.LogEvent(s.RequestID, "exports", "weekly_csv", fmt.Sprintf("rows=%d", len(reports)))
	return cw.Error()
}

var debriefCSVHeader = []string{
	"fleetNumber", "date", "driverName",
	"previousKmReading", "kmReading", "litresFilled",
	"kmPerLitre", "expectedKmPerLitre", "variancePct", "performanceStatus",
	"notes", "debriefDate", "debriefSigned",
}

// WriteDebriefCSV streams the diesel debrief report for one fleet, or all
// fleets when fleetNumber is empty.
func (s ExportService) WriteDebriefCSV(w io.Writer, fleetNumber string) error {
	records, err := s.loadDebrief(fleetNumber)
	if err != nil {
		return err
	}
	norms, err := s.loadNorms()
	if err != nil {
		return err
	}
	expected := map[string]float64{}
	for _, n := range norms {
		expected[n.FleetNumber] = n.ExpectedKmPerLitre
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(debriefCSVHeader); err != nil {
		return err
	}
	for _, d := range records {
		row := []string{
			d.FleetNumber,
			d.Date,
			d.DriverName,
			fmt.Sprintf("%.0f", d.PreviousKmReading),
			fmt.Sprintf("%.0f", d.KmReading),
			fmt.Sprintf("%.1f", d.LitresFilled),
			fmt.Sprintf("%.2f", d.KmPerLitre),
			fmt.Sprintf("%.2f", expected[d.FleetNumber]),
			fmt.Sprintf("%.2f", d.EfficiencyVariance),
			d.PerformanceStatus,
			d.DebriefNotes,
			d.DebriefDate,
			strconv.FormatBool(d.DebriefSigned),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	utils.LogEvent(s.RequestID, "exports", "debrief_csv", fmt.Sprintf("rows=%d", len(records)))
	return cw.Error()
}

func (s ExportService) loadWeekly() ([]finance.WeeklyReport, error) {
	if s.WeeklyLoader != nil {
		return s.WeeklyLoader()
	}
	return s.Reports.WeeklyReports()
}

func (s ExportService) loadDebrief(fleetNumber string) ([]models.DieselRecord, error) {
	if s.DebriefLoader != nil {
		return s.DebriefLoader(fleetNumber)
	}
	return s.Reports.DebriefQueue(fleetNumber)
}

func (s ExportService) loadNorms() ([]models.DieselNorm, error) {
	if s.NormLoader != nil {
		return s.NormLoader()
	}
	return s.Reports.ConfigRepo.ListNorms()
}
