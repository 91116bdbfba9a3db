package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fleetops/internal/domain/models"
	"fleetops/internal/repositories"
	"fleetops/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/norms
func GetDieselNorms(c *gin.Context) {
	norms, err := repositories.ConfigRepository{}.ListNorms()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load diesel norms", err)
		return
	}
	c.JSON(http.StatusOK, norms)
}

// PUT /api/norms/:fleetNumber
func UpsertDieselNorm(c *gin.Context) {
	fleet := utils.NormalizeFleet(c.Param("fleetNumber"))
	if fleet == "" {
		RespondError(c, http.StatusBadRequest, "fleet number required", nil)
		return
	}
	var norm models.DieselNorm
	if !BindJSONOrError(c, &norm) {
		return
	}
	norm.FleetNumber = fleet
	if norm.ExpectedKmPerLitre <= 0 {
		RespondError(c, http.StatusBadRequest, "expectedKmPerLitre must be positive", nil)
		return
	}
	if norm.TolerancePercent <= 0 {
		RespondError(c, http.StatusBadRequest, "tolerancePercent must be positive", nil)
		return
	}
	if err := (repositories.ConfigRepository{}).UpsertNorm(norm); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to store diesel norm", err)
		return
	}
	c.JSON(http.StatusOK, norm)
}

// GET /api/ytd-metrics
func GetYTDMetrics(c *gin.Context) {
	metrics, err := repositories.ConfigRepository{}.ListYTD()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load ytd metrics", err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// PUT /api/ytd-metrics/:year
func UpsertYTDMetrics(c *gin.Context) {
	year, err := strconv.Atoi(strings.TrimSpace(c.Param("year")))
	if err != nil || year < 2000 || year > 2100 {
		RespondError(c, http.StatusBadRequest, "year must be a valid four digit year", nil)
		return
	}
	var m models.YTDMetrics
	if !BindJSONOrError(c, &m) {
		return
	}
	m.Year = year
	if err := (repositories.ConfigRepository{}).UpsertYTD(m); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to store ytd metrics", err)
		return
	}
	c.JSON(http.StatusOK, m)
}
