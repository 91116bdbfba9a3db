package handlers

import (
	"net/http"
	"strings"

	"fleetops/internal/domain/models"
	"fleetops/internal/http/middleware"
	"fleetops/internal/repositories"
	"fleetops/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/missed-loads
func GetMissedLoads(c *gin.Context) {
	loads, err := repositories.MissedLoadsRepository{}.List()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load missed loads", err)
		return
	}
	c.JSON(http.StatusOK, loads)
}

// POST /api/missed-loads
func CreateMissedLoad(c *gin.Context) {
	var m models.MissedLoad
	if !BindJSONOrError(c, &m) {
		return
	}
	m.ClientName = utils.TrimOrEmpty(m.ClientName)
	m.Route = utils.TrimOrEmpty(m.Route)
	m.Reason = utils.TrimOrEmpty(m.Reason)
	if m.ClientName == "" || m.Route == "" || m.Reason == "" {
		RespondError(c, http.StatusBadRequest, "clientName, route and reason are required", nil)
		return
	}
	if _, err := utils.ParseDate(m.RequestedDate); err != nil {
		RespondError(c, http.StatusBadRequest, "requestedDate must be a valid date", nil)
		return
	}
	if m.EstimatedRevenue < 0 {
		RespondError(c, http.StatusBadRequest, "estimatedRevenue must not be negative", nil)
		return
	}
	m.Currency = strings.ToUpper(utils.TrimOrEmpty(m.Currency))
	if m.Currency != "" && !models.ValidCurrency(m.Currency) {
		RespondError(c, http.StatusBadRequest, "currency must be ZAR or USD", nil)
		return
	}
	m.RecordedBy = middleware.ActorName(c)
	if err := (repositories.MissedLoadsRepository{}).Insert(&m); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to store missed load", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// DELETE /api/missed-loads/:id
func DeleteMissedLoad(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := (repositories.MissedLoadsRepository{}).Delete(id); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete missed load", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/activity/:entityType/:entityId
func GetActivityLog(c *gin.Context) {
	entityType := strings.TrimSpace(c.Param("entityType"))
	entityID := strings.TrimSpace(c.Param("entityId"))
	if entityType == "" || entityID == "" {
		RespondError(c, http.StatusBadRequest, "entity type and id required", nil)
		return
	}
	entries, err := repositories.ActivityRepository{}.ListByEntity(entityType, entityID, 0)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load activity log", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
