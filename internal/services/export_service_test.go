package services

import (
	"bytes"
	"strings"
	"testing"

	"fleetops/internal/domain/models"
	"fleetops/internal/finance"
)

func TestWriteWeeklyCSV(t *testing.T) {
	svc := ExportService{
		WeeklyLoader: func() ([]finance.WeeklyReport, error) {
			return []finance.WeeklyReport{
				{
					Year: 2026, Week: 6,
					StartDate: "2026-02-02", EndDate: "2026-02-08",
					TripCount: 2, TotalRevenue: 15000, TotalCosts: 4000, GrossProfit: 11000,
					ProfitMarginPercent: 73.33, TotalKilometers: 1500,
					IPK: 10, CPK: 2.667,
				},
			}, nil
		},
	}

	var buf bytes.Buffer
	if err := svc.WriteWeeklyCSV(&buf); err != nil {
		t.Fatalf("write error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "week,startDate,endDate,tripCount") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	row := lines[1]
	for _, want := range []string{"2026-W06", "2026-02-02", "2026-02-08", "15000.00", "11000.00", "10.000"} {
		if !strings.Contains(row, want) {
			t.Fatalf("row missing %q: %s", want, row)
		}
	}
}

func TestWriteDebriefCSV(t *testing.T) {
	svc := ExportService{
		DebriefLoader: func(fleetNumber string) ([]models.DieselRecord, error) {
			if fleetNumber != "TRK-014" {
				t.Fatalf("fleet filter not forwarded, got %q", fleetNumber)
			}
			return []models.DieselRecord{
				{
					FleetNumber: "TRK-014", Date: "2026-02-03", DriverName: "Sipho",
					PreviousKmReading: 100000, KmReading: 101170, LitresFilled: 450,
					KmPerLitre: 2.6, EfficiencyVariance: -13.33,
					PerformanceStatus: models.PerformancePoor,
					DebriefDate:       "2026-02-05", DebriefSigned: true,
				},
			}, nil
		},
		NormLoader: func() ([]models.DieselNorm, error) {
			return []models.DieselNorm{{FleetNumber: "TRK-014", ExpectedKmPerLitre: 3.0}}, nil
		},
	}

	var buf bytes.Buffer
	if err := svc.WriteDebriefCSV(&buf, "TRK-014"); err != nil {
		t.Fatalf("write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"fleetNumber,date,driverName", "TRK-014", "2.60", "3.00", "-13.33", "poor", "true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
