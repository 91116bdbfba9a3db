package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"fleetops/internal/utils"
)

// DebriefDocService renders the printable debrief sheet a driver signs
// after an anomalous diesel record. Loader is injectable for tests.
type DebriefDocService struct {
	Diesel    DieselService
	Reports   ReportService
	RequestID string
	Loader    func(id int64) (debriefDocData, error)
}

type debriefDocData struct {
	RecordID          int64
	FleetNumber       string
	Date              string
	DriverName        string
	FuelStation       string
	LitresFilled      float64
	DistanceKm        float64
	KmPerLitre        float64
	ExpectedKmPerL    float64
	VariancePercent   float64
	PerformanceStatus string
	ProbeReading      *float64
	ProbeDiscrepancy  *float64
	TotalCost         float64
	Currency          string
	DebriefNotes      string
}

// GenerateDebriefSheet produces the PDF bytes and a download filename.
func (s DebriefDocService) GenerateDebriefSheet(recordID int64) ([]byte, string, error) {
	data, err := s.loadDebriefDocData(recordID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_debrief", fmt.Sprintf("diesel_id=%d", recordID))
	return buildDebriefPDF(data)
}

func (s DebriefDocService) loadDebriefDocData(recordID int64) (debriefDocData, error) {
	if s.Loader != nil {
		return s.Loader(recordID)
	}
	var out debriefDocData
	rec, err := s.Diesel.DieselRepo.GetByID(recordID)
	if err != nil {
		return out, err
	}
	out.RecordID = rec.ID
	out.FleetNumber = rec.FleetNumber
	out.Date = rec.Date
	out.DriverName = rec.DriverName
	out.FuelStation = rec.FuelStation
	out.LitresFilled = rec.LitresFilled
	out.DistanceKm = rec.DistanceTravelled
	out.KmPerLitre = rec.KmPerLitre
	out.VariancePercent = rec.EfficiencyVariance
	out.PerformanceStatus = rec.PerformanceStatus
	out.ProbeReading = rec.ProbeReading
	out.ProbeDiscrepancy = rec.ProbeDiscrepancy
	out.TotalCost = rec.TotalCost
	out.Currency = rec.Currency
	out.DebriefNotes = rec.DebriefNotes

	if norm, err := s.Reports.ConfigRepo.GetNorm(rec.FleetNumber); err == nil {
		out.ExpectedKmPerL = norm.ExpectedKmPerLitre
	}
	return out, nil
}

func buildDebriefPDF(d debriefDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Diesel Debrief", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DIESEL DEBRIEF SHEET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Fleet           : %s", safe(d.FleetNumber)),
		fmt.Sprintf("Fill date       : %s", safe(d.Date)),
		fmt.Sprintf("Driver          : %s", safe(d.DriverName)),
		fmt.Sprintf("Fuel station    : %s", safe(d.FuelStation)),
		fmt.Sprintf("Litres filled   : %.1f L", d.LitresFilled),
		fmt.Sprintf("Distance        : %.0f km", d.DistanceKm),
		fmt.Sprintf("Actual KM/L     : %.2f", d.KmPerLitre),
		fmt.Sprintf("Expected KM/L   : %.2f", d.ExpectedKmPerL),
		fmt.Sprintf("Variance        : %s", utils.FormatPercent(d.VariancePercent)),
		fmt.Sprintf("Classification  : %s", strings.ToUpper(safe(d.PerformanceStatus))),
		fmt.Sprintf("Total cost      : %s", utils.FormatCurrency(d.TotalCost, d.Currency)),
	}
	if d.ProbeReading != nil {
		lines = append(lines, fmt.Sprintf("Probe reading   : %.1f L", *d.ProbeReading))
	}
	if d.ProbeDiscrepancy != nil {
		lines = append(lines, fmt.Sprintf("Probe variance  : %.1f L", *d.ProbeDiscrepancy))
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Debrief notes")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	notes := d.DebriefNotes
	if strings.TrimSpace(notes) == "" {
		notes = "-"
	}
	pdf.MultiCell(0, 6, notes, "", "L", false)

	pdf.Ln(16)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(90, 8, "Driver signature: ______________________")
	pdf.Cell(0, 8, "Manager signature: ______________________")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("debrief-%s-%s.pdf", strings.ToLower(d.FleetNumber), d.Date)
	return buf.Bytes(), name, nil
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
