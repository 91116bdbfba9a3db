package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleetops/internal/http/middleware"
	"fleetops/internal/repositories"
	"fleetops/internal/services"

	"github.com/gin-gonic/gin"
)

func reportService(c *gin.Context) services.ReportService {
	return services.ReportService{
		TripsRepo:  repositories.TripsRepository{},
		DieselRepo: repositories.DieselRepository{},
		ConfigRepo: repositories.ConfigRepository{},
		RequestID:  middleware.GetRequestID(c),
	}
}

// GET /api/reports/weekly
func GetWeeklyReports(c *gin.Context) {
	reports, err := reportService(c).WeeklyReports()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GET /api/reports/fleet?currency=ZAR
func GetFleetReport(c *gin.Context) {
	report, err := reportService(c).FleetReport(c.Query("currency"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/reports/flagged-costs
func GetFlaggedCosts(c *gin.Context) {
	flagged, err := reportService(c).FlaggedCosts()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, flagged)
}

// GET /api/reports/yoy?year=2026
func GetYoYComparison(c *gin.Context) {
	year := time.Now().Year()
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			RespondError(c, http.StatusBadRequest, "year must be a valid four digit year", nil)
			return
		}
		year = parsed
	}
	comparison, err := reportService(c).YoYComparison(year)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// GET /api/reports/debrief-queue?fleetNumber=TRK-014
func GetDebriefQueue(c *gin.Context) {
	records, err := reportService(c).DebriefQueue(c.Query("fleetNumber"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GET /api/reports/weekly/export
func ExportWeeklyCSV(c *gin.Context) {
	svc := services.ExportService{
		Reports:   reportService(c),
		RequestID: middleware.GetRequestID(c),
	}
	c.Header("Content-Disposition", `attachment; filename="weekly-report.csv"`)
	c.Header("Content-Type", "text/csv")
	if err := svc.WriteWeeklyCSV(c.Writer); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GET /api/reports/debrief/export?fleetNumber=TRK-014
func ExportDebriefCSV(c *gin.Context) {
	svc := services.ExportService{
		Reports:   reportService(c),
		RequestID: middleware.GetRequestID(c),
	}
	c.Header("Content-Disposition", `attachment; filename="diesel-debrief.csv"`)
	c.Header("Content-Type", "text/csv")
	if err := svc.WriteDebriefCSV(c.Writer, c.Query("fleetNumber")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
