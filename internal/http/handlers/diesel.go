package handlers

import (
	"net/http"

	"fleetops/internal/domain/models"
	"fleetops/internal/http/middleware"
	"fleetops/internal/repositories"
	"fleetops/internal/services"

	"github.com/gin-gonic/gin"
)

func dieselService(c *gin.Context) services.DieselService {
	return services.DieselService{
		DieselRepo:   repositories.DieselRepository{},
		TripsRepo:    repositories.TripsRepository{},
		CostsRepo:    repositories.CostsRepository{},
		ConfigRepo:   repositories.ConfigRepository{},
		ActivityRepo: repositories.ActivityRepository{},
		RequestID:    middleware.GetRequestID(c),
		Actor:        middleware.ActorName(c),
	}
}

// GET /api/diesel?fleetNumber=TRK-014&startDate=...&endDate=...&debriefOnly=true
func GetDieselRecords(c *gin.Context) {
	filter := repositories.DieselFilter{
		FleetNumber: c.Query("fleetNumber"),
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
		DebriefOnly: c.Query("debriefOnly") == "true",
	}
	records, err := repositories.DieselRepository{}.List(filter)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load diesel records", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GET /api/diesel/:id
func GetDieselByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	rec, err := repositories.DieselRepository{}.GetByID(id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "diesel record not found", nil)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// POST /api/diesel
func CreateDieselRecord(c *gin.Context) {
	var rec models.DieselRecord
	if !BindJSONOrError(c, &rec) {
		return
	}
	if err := dieselService(c).CreateRecord(&rec); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// PUT /api/diesel/:id
func UpdateDieselRecord(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var rec models.DieselRecord
	if !BindJSONOrError(c, &rec) {
		return
	}
	rec.ID = id
	if err := dieselService(c).UpdateRecord(&rec); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DELETE /api/diesel/:id
func DeleteDieselRecord(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	svc := dieselService(c)
	rec, err := svc.DieselRepo.GetByID(id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "diesel record not found", nil)
		return
	}
	if rec.TripID != 0 {
		// Linked records are unlinked first so the trip's fuel cost entry
		// goes with the record.
		if err := svc.Unlink(id); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	if err := svc.DieselRepo.Delete(id); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete diesel record", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/diesel/import  (multipart field "file")
func ImportDieselCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "csv file required in field 'file'", err)
		return
	}
	defer file.Close()

	imported, rejected, err := dieselService(c).ImportCSV(file)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": len(imported),
		"rejected": rejected,
		"records":  imported,
	})
}

type probeVerifyRequest struct {
	Notes string `json:"notes"`
}

// POST /api/diesel/:id/verify-probe
func VerifyProbe(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req probeVerifyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := dieselService(c).VerifyProbe(id, req.Notes); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type debriefRequest struct {
	Date   string `json:"date" binding:"required"`
	Notes  string `json:"notes"`
	Signed bool   `json:"signed"`
}

// POST /api/diesel/:id/debrief
func RecordDebrief(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req debriefRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := dieselService(c).RecordDebrief(id, req.Date, req.Notes, req.Signed); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type linkRequest struct {
	TripID int64 `json:"tripId" binding:"required"`
}

// POST /api/diesel/:id/link
func LinkDieselToTrip(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req linkRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := dieselService(c).Link(id, req.TripID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tripId": req.TripID})
}

// POST /api/diesel/:id/unlink
func UnlinkDiesel(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := dieselService(c).Unlink(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/diesel/:id/debrief-sheet
func DownloadDebriefSheet(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	svc := services.DebriefDocService{
		Diesel:    dieselService(c),
		Reports:   reportService(c),
		RequestID: middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateDebriefSheet(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
