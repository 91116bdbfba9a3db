package handlers

import (
	"net/http"

	"fleetops/internal/domain/models"
	"fleetops/internal/finance"
	"fleetops/internal/http/middleware"
	"fleetops/internal/repositories"
	"fleetops/internal/services"

	"github.com/gin-gonic/gin"
)

// TripWithKPIs is the list/detail payload: the trip plus its computed
// financial summary.
type TripWithKPIs struct {
	Trip models.Trip       `json:"trip"`
	KPIs finance.KPIResult `json:"kpis"`
}

func tripService(c *gin.Context) services.TripService {
	return services.TripService{
		TripsRepo:    repositories.TripsRepository{},
		CostsRepo:    repositories.CostsRepository{},
		ActivityRepo: repositories.ActivityRepository{},
		RequestID:    middleware.GetRequestID(c),
		Actor:        middleware.ActorName(c),
	}
}

// GET /api/trips?status=active&currency=ZAR
func GetTrips(c *gin.Context) {
	repo := repositories.TripsRepository{}
	trips, err := repo.ListTrips(c.Query("status"), c.Query("currency"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load trips", err)
		return
	}
	if err := repo.AttachChildren(trips); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load trip costs", err)
		return
	}

	out := make([]TripWithKPIs, 0, len(trips))
	for _, t := range trips {
		out = append(out, TripWithKPIs{Trip: t, KPIs: finance.ComputeTripKPIs(t)})
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/trips/:id
func GetTripByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	trip, err := repositories.TripsRepository{}.GetByID(id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "trip not found", nil)
		return
	}
	c.JSON(http.StatusOK, TripWithKPIs{Trip: trip, KPIs: finance.ComputeTripKPIs(trip)})
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var t models.Trip
	if !BindJSONOrError(c, &t) {
		return
	}
	svc := tripService(c)
	if err := svc.CreateTrip(&t); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, TripWithKPIs{Trip: t, KPIs: finance.ComputeTripKPIs(t)})
}

// PUT /api/trips/:id
func UpdateTrip(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var t models.Trip
	if !BindJSONOrError(c, &t) {
		return
	}
	t.ID = id
	svc := tripService(c)
	if err := svc.UpdateTrip(&t); err != nil {
		RespondDomainError(c, err)
		return
	}
	trip, err := svc.TripsRepo.GetByID(id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to reload trip", err)
		return
	}
	c.JSON(http.StatusOK, TripWithKPIs{Trip: trip, KPIs: finance.ComputeTripKPIs(trip)})
}

// DELETE /api/trips/:id
func DeleteTrip(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := tripService(c).DeleteTrip(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/trips/:id/complete
func CompleteTrip(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := tripService(c).CompleteTrip(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": models.TripStatusCompleted})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/trips/:id/status
func AdvanceTripStatus(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := tripService(c).AdvanceStatus(id, req.Status); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": req.Status})
}

// POST /api/trips/:id/costs
func AddCostEntry(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var entry models.CostEntry
	if !BindJSONOrError(c, &entry) {
		return
	}
	entry.TripID = id
	if err := tripService(c).AddCostEntry(&entry); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// POST /api/trips/:id/additional-costs
func AddAdditionalCost(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var extra models.AdditionalCost
	if !BindJSONOrError(c, &extra) {
		return
	}
	extra.TripID = id
	repo := repositories.CostsRepository{}
	if err := repo.InsertAdditional(&extra); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to store additional cost", err)
		return
	}
	c.JSON(http.StatusCreated, extra)
}

// POST /api/trips/:id/delays
func AddDelayReason(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var d models.DelayReason
	if !BindJSONOrError(c, &d) {
		return
	}
	d.TripID = id
	repo := repositories.CostsRepository{}
	if err := repo.InsertDelay(&d); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to store delay reason", err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

type flagRequest struct {
	Reason string `json:"reason"`
}

// POST /api/costs/:id/flag
func FlagCostEntry(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req flagRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := tripService(c).FlagCost(id, req.Reason); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "investigationStatus": models.InvestigationPending})
}

type investigationRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/costs/:id/investigation
func UpdateInvestigation(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req investigationRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	autoCompleted, err := tripService(c).UpdateInvestigation(id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": req.Status, "tripAutoCompleted": autoCompleted})
}
