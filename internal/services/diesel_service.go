package services

import (
	"fmt"
	"io"
	"strings"

	"fleetops/internal/domain"
	"fleetops/internal/domain/models"
	"fleetops/internal/fuel"
	"fleetops/internal/repositories"
	"fleetops/internal/utils"
)

// DieselService owns fuel-fill records: manual capture, CSV import, the
// probe verification workflow and the trip linkage invariant.
type DieselService struct {
	DieselRepo   repositories.DieselRepository
	TripsRepo    repositories.TripsRepository
	CostsRepo    repositories.CostsRepository
	ConfigRepo   repositories.ConfigRepository
	ActivityRepo repositories.ActivityRepository
	RequestID    string
	Actor        string
}

func (s DieselService) validate(d *models.DieselRecord) error {
	d.FleetNumber = utils.NormalizeFleet(d.FleetNumber)
	d.DriverName = utils.TrimOrEmpty(d.DriverName)
	d.FuelStation = utils.TrimOrEmpty(d.FuelStation)
	d.Currency = strings.ToUpper(utils.TrimOrEmpty(d.Currency))
	if d.Currency == "" {
		d.Currency = models.CurrencyZAR
	}

	if d.FleetNumber == "" {
		return domain.ValidationError{Field: "fleetNumber", Msg: "required"}
	}
	if _, err := utils.ParseDate(d.Date); err != nil {
		return domain.ValidationError{Field: "date", Msg: "invalid date"}
	}
	if d.LitresFilled <= 0 {
		return domain.ValidationError{Field: "litresFilled", Msg: "must be positive"}
	}
	if d.KmReading < 0 || d.PreviousKmReading < 0 {
		return domain.ValidationError{Field: "kmReading", Msg: "must not be negative"}
	}
	if !models.ValidCurrency(d.Currency) {
		return domain.ValidationError{Field: "currency", Msg: "must be ZAR or USD"}
	}
	return nil
}

func (s DieselService) normFor(fleetNumber string) *models.DieselNorm {
	norm, err := s.ConfigRepo.GetNorm(fleetNumber)
	if err != nil {
		return nil
	}
	return &norm
}

// CreateRecord validates, derives and stores one fill event.
func (s DieselService) CreateRecord(d *models.DieselRecord) error {
	if err := s.validate(d); err != nil {
		return err
	}
	fuel.Derive(d, s.normFor(d.FleetNumber))
	if err := s.DieselRepo.Insert(d); err != nil {
		return domain.InternalError{Msg: "failed to store diesel record", Err: err}
	}
	s.logActivity(d.ID, "create", fmt.Sprintf("fleet=%s litres=%.1f", d.FleetNumber, d.LitresFilled))
	return nil
}

// UpdateRecord re-validates and re-derives after an edit. A linked trip's
// fuel cost entry is refreshed so the amount tracks the record.
func (s DieselService) UpdateRecord(d *models.DieselRecord) error {
	if d.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "required"}
	}
	existing, err := s.DieselRepo.GetByID(d.ID)
	if err != nil {
		return domain.NotFoundError{Resource: "diesel record", Err: err}
	}
	if err := s.validate(d); err != nil {
		return err
	}
	d.TripID = existing.TripID
	fuel.Derive(d, s.normFor(d.FleetNumber))
	if err := s.DieselRepo.Update(*d); err != nil {
		return domain.InternalError{Msg: "failed to update diesel record", Err: err}
	}

	if existing.TripID != 0 {
		// Re-sync the linked cost entry with the new total.
		if _, err := s.CostsRepo.DeleteByDiesel(existing.TripID, d.ID); err != nil {
			return domain.InternalError{Msg: "failed to refresh linked cost entry", Err: err}
		}
		if err := s.insertLinkedCost(existing.TripID, *d); err != nil {
			return err
		}
	}
	s.logActivity(d.ID, "update", "")
	return nil
}

// ImportCSV parses and stores a diesel CSV batch. Row-level failures are
// reported back without aborting the batch.
func (s DieselService) ImportCSV(r io.Reader) (imported []models.DieselRecord, rejected []fuel.RowError, err error) {
	records, rowErrs, err := fuel.ParseCSV(r)
	if err != nil {
		return nil, nil, domain.ValidationError{Field: "file", Msg: err.Error()}
	}
	rejected = rowErrs

	norms := map[string]*models.DieselNorm{}
	for i := range records {
		rec := &records[i]
		norm, ok := norms[rec.FleetNumber]
		if !ok {
			norm = s.normFor(rec.FleetNumber)
			norms[rec.FleetNumber] = norm
		}
		fuel.Derive(rec, norm)
		if err := s.DieselRepo.Insert(rec); err != nil {
			rejected = append(rejected, fuel.RowError{Line: 0, Msg: fmt.Sprintf("fleet %s %s: %v", rec.FleetNumber, rec.Date, err)})
			continue
		}
		imported = append(imported, *rec)
	}
	utils.LogEvent(s.RequestID, "diesel", "import_csv", fmt.Sprintf("imported=%d rejected=%d", len(imported), len(rejected)))
	return imported, rejected, nil
}

// VerifyProbe marks a record's probe reading as checked. When the
// discrepancy crosses the hard-warning threshold the reviewer must leave
// investigation notes; the data itself is already accepted and stored.
func (s DieselService) VerifyProbe(id int64, notes string) error {
	rec, err := s.DieselRepo.GetByID(id)
	if err != nil {
		return domain.NotFoundError{Resource: "diesel record", Err: err}
	}
	if rec.ProbeReading == nil {
		return domain.ConflictError{Resource: "diesel record", Msg: "no probe reading captured"}
	}
	notes = utils.TrimOrEmpty(notes)
	if fuel.HasProbeWarning(rec) && notes == "" {
		return domain.ValidationError{Field: "notes", Msg: "investigation notes required for discrepancy above 50 litres"}
	}
	rec.ProbeVerified = true
	rec.ProbeNotes = notes
	if err := s.DieselRepo.Update(rec); err != nil {
		return domain.InternalError{Msg: "failed to verify probe", Err: err}
	}
	s.logActivity(id, "probe_verify", "")
	return nil
}

// RecordDebrief captures the outcome of an efficiency debrief session.
func (s DieselService) RecordDebrief(id int64, date, notes string, signed bool) error {
	rec, err := s.DieselRepo.GetByID(id)
	if err != nil {
		return domain.NotFoundError{Resource: "diesel record", Err: err}
	}
	if !rec.RequiresDebrief {
		return domain.ConflictError{Resource: "diesel record", Msg: "record does not require a debrief"}
	}
	if _, err := utils.ParseDate(date); err != nil {
		return domain.ValidationError{Field: "debriefDate", Msg: "invalid date"}
	}
	rec.DebriefDate = date
	rec.DebriefNotes = utils.TrimOrEmpty(notes)
	rec.DebriefSigned = signed
	if err := s.DieselRepo.Update(rec); err != nil {
		return domain.InternalError{Msg: "failed to record debrief", Err: err}
	}
	s.logActivity(id, "debrief", "")
	return nil
}

// Link attaches a diesel record to a trip and creates its single fuel
// cost entry. Linking an already linked record is a conflict; the 1:1
// entry-per-linkage invariant is enforced here and nowhere else.
func (s DieselService) Link(dieselID, tripID int64) error {
	rec, err := s.DieselRepo.GetByID(dieselID)
	if err != nil {
		return domain.NotFoundError{Resource: "diesel record", Err: err}
	}
	if rec.TripID != 0 {
		return domain.ConflictError{Resource: "diesel record", Msg: "already linked to a trip"}
	}
	trip, err := s.TripsRepo.GetByID(tripID)
	if err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	if n, err := s.CostsRepo.CountByDiesel(dieselID); err == nil && n > 0 {
		return domain.ConflictError{Resource: "diesel record", Msg: "cost entry already exists for this record"}
	}

	if err := s.DieselRepo.SetTripLink(dieselID, tripID); err != nil {
		return domain.InternalError{Msg: "failed to link diesel record", Err: err}
	}
	if err := s.insertLinkedCost(trip.ID, rec); err != nil {
		// Roll the reference back so a failed insert cannot leave a
		// linked record without its cost entry.
		_ = s.DieselRepo.SetTripLink(dieselID, 0)
		return err
	}
	s.logActivity(dieselID, "link", fmt.Sprintf("trip_id=%d", tripID))
	return nil
}

// Unlink detaches the record and removes exactly the cost entry the
// linkage created, restoring the trip's cost list to its pre-link state.
func (s DieselService) Unlink(dieselID int64) error {
	rec, err := s.DieselRepo.GetByID(dieselID)
	if err != nil {
		return domain.NotFoundError{Resource: "diesel record", Err: err}
	}
	if rec.TripID == 0 {
		return domain.ConflictError{Resource: "diesel record", Msg: "not linked to a trip"}
	}
	if _, err := s.CostsRepo.DeleteByDiesel(rec.TripID, dieselID); err != nil {
		return domain.InternalError{Msg: "failed to remove linked cost entry", Err: err}
	}
	if err := s.DieselRepo.SetTripLink(dieselID, 0); err != nil {
		return domain.InternalError{Msg: "failed to unlink diesel record", Err: err}
	}
	s.logActivity(dieselID, "unlink", fmt.Sprintf("trip_id=%d", rec.TripID))
	return nil
}

func (s DieselService) insertLinkedCost(tripID int64, rec models.DieselRecord) error {
	entry := models.CostEntry{
		TripID:         tripID,
		Category:       models.CostCategoryFuel,
		Amount:         rec.TotalCost,
		Date:           rec.Date,
		Notes:          fmt.Sprintf("Diesel fill %s @ %s", rec.FleetNumber, rec.FuelStation),
		SourceDieselID: rec.ID,
	}
	if err := s.CostsRepo.Insert(&entry); err != nil {
		return domain.InternalError{Msg: "failed to create fuel cost entry", Err: err}
	}
	return nil
}

func (s DieselService) logActivity(id int64, action, details string) {
	entry := models.ActivityLog{
		EntityType:  "diesel",
		EntityID:    fmt.Sprintf("%d", id),
		Action:      action,
		Details:     details,
		PerformedBy: s.Actor,
	}
	if err := s.ActivityRepo.Insert(&entry); err != nil {
		utils.LogError(s.RequestID, "diesel", "activity_log", err)
	}
	utils.LogEvent(s.RequestID, "diesel", action, fmt.Sprintf("diesel_id=%d %s", id, details))
}
