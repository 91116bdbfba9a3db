package services

import (
	"fmt"
	"strings"

	"fleetops/internal/domain"
	"fleetops/internal/domain/models"
	"fleetops/internal/finance"
	"fleetops/internal/repositories"
	"fleetops/internal/utils"
)

// TripService owns the trip lifecycle: creation, edits, cost entry,
// flag workflow and the status state machine.
type TripService struct {
	TripsRepo    repositories.TripsRepository
	CostsRepo    repositories.CostsRepository
	ActivityRepo repositories.ActivityRepository
	RequestID    string
	Actor        string
}

func (s TripService) validateTrip(t *models.Trip) error {
	t.FleetNumber = utils.NormalizeFleet(t.FleetNumber)
	t.DriverName = utils.TrimOrEmpty(t.DriverName)
	t.ClientName = utils.TrimOrEmpty(t.ClientName)
	t.Route = utils.TrimOrEmpty(t.Route)
	t.RevenueCurrency = strings.ToUpper(utils.TrimOrEmpty(t.RevenueCurrency))

	if t.FleetNumber == "" {
		return domain.ValidationError{Field: "fleetNumber", Msg: "required"}
	}
	if t.DriverName == "" {
		return domain.ValidationError{Field: "driverName", Msg: "required"}
	}
	if t.ClientName == "" {
		return domain.ValidationError{Field: "clientName", Msg: "required"}
	}
	if t.ClientType != models.ClientTypeInternal && t.ClientType != models.ClientTypeExternal {
		return domain.ValidationError{Field: "clientType", Msg: "must be internal or external"}
	}
	if !models.ValidCurrency(t.RevenueCurrency) {
		return domain.ValidationError{Field: "revenueCurrency", Msg: "must be ZAR or USD"}
	}
	if t.BaseRevenue < 0 {
		return domain.ValidationError{Field: "baseRevenue", Msg: "must not be negative"}
	}
	if t.DistanceKm < 0 {
		return domain.ValidationError{Field: "distanceKm", Msg: "must not be negative"}
	}

	start, err := utils.ParseDate(t.StartDate)
	if err != nil {
		return domain.ValidationError{Field: "startDate", Msg: "invalid date"}
	}
	end, err := utils.ParseDate(t.EndDate)
	if err != nil {
		return domain.ValidationError{Field: "endDate", Msg: "invalid date"}
	}
	if end.Before(start) {
		return domain.ValidationError{Field: "endDate", Msg: "must not be before startDate"}
	}
	return nil
}

// CreateTrip stores a new active trip with no costs.
func (s TripService) CreateTrip(t *models.Trip) error {
	if err := s.validateTrip(t); err != nil {
		return err
	}
	t.Status = models.TripStatusActive
	if utils.TrimOrEmpty(t.PaymentStatus) == "" {
		t.PaymentStatus = "unpaid"
	}
	if err := s.TripsRepo.Insert(t); err != nil {
		return domain.InternalError{Msg: "failed to store trip", Err: err}
	}
	s.logActivity("trip", t.ID, "create", fmt.Sprintf("fleet=%s client=%s", t.FleetNumber, t.ClientName))
	return nil
}

// UpdateTrip rewrites editable fields. The id and the owned cost
// collections are preserved across edits; status moves only through
// AdvanceStatus.
func (s TripService) UpdateTrip(t *models.Trip) error {
	if t.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "required"}
	}
	if err := s.validateTrip(t); err != nil {
		return err
	}
	if _, err := s.TripsRepo.GetByID(t.ID); err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err := s.TripsRepo.Update(*t); err != nil {
		return domain.InternalError{Msg: "failed to update trip", Err: err}
	}
	s.logActivity("trip", t.ID, "update", "")
	return nil
}

// AddCostEntry appends an expense line to an active trip.
func (s TripService) AddCostEntry(c *models.CostEntry) error {
	if c.TripID <= 0 {
		return domain.ValidationError{Field: "tripId", Msg: "required"}
	}
	if c.Amount < 0 {
		return domain.ValidationError{Field: "amount", Msg: "must not be negative"}
	}
	if utils.TrimOrEmpty(c.Category) == "" {
		return domain.ValidationError{Field: "category", Msg: "required"}
	}
	if _, err := utils.ParseDate(c.Date); err != nil {
		return domain.ValidationError{Field: "date", Msg: "invalid date"}
	}
	if c.IsFlagged && c.InvestigationStatus == "" {
		c.InvestigationStatus = models.InvestigationPending
		c.FlaggedAt = utils.NowStamp()
	}
	if _, err := s.TripsRepo.GetByID(c.TripID); err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err := s.CostsRepo.Insert(c); err != nil {
		return domain.InternalError{Msg: "failed to store cost entry", Err: err}
	}
	s.logActivity("trip", c.TripID, "add_cost", fmt.Sprintf("category=%s amount=%.2f", c.Category, c.Amount))
	return nil
}

// FlagCost marks a cost entry for investigation (pending).
func (s TripService) FlagCost(costID int64, reason string) error {
	c, err := s.CostsRepo.GetByID(costID)
	if err != nil {
		return domain.NotFoundError{Resource: "cost entry", Err: err}
	}
	if c.IsFlagged && c.InvestigationStatus != models.InvestigationResolved {
		return domain.ConflictError{Resource: "cost entry", Msg: "already under investigation"}
	}
	if err := s.CostsRepo.Flag(costID, utils.TrimOrEmpty(reason), utils.NowStamp()); err != nil {
		return domain.InternalError{Msg: "failed to flag cost entry", Err: err}
	}
	s.logActivity("trip", c.TripID, "flag_cost", fmt.Sprintf("cost_id=%d", costID))
	return nil
}

// UpdateInvestigation moves a flag through pending -> in-progress ->
// resolved. Flags are never deleted, only resolved.
func (s TripService) UpdateInvestigation(costID int64, target string) (autoCompleted bool, err error) {
	c, err := s.CostsRepo.GetByID(costID)
	if err != nil {
		return false, domain.NotFoundError{Resource: "cost entry", Err: err}
	}
	if !c.IsFlagged {
		return false, domain.ConflictError{Resource: "cost entry", Msg: "not flagged"}
	}
	if !models.ValidInvestigationTransition(c.InvestigationStatus, target) {
		return false, domain.ConflictError{
			Resource: "investigation",
			Msg:      fmt.Sprintf("cannot move from %s to %s", c.InvestigationStatus, target),
		}
	}

	resolvedAt := ""
	if target == models.InvestigationResolved {
		resolvedAt = utils.NowStamp()
	}
	if err := s.CostsRepo.SetInvestigationStatus(costID, target, resolvedAt); err != nil {
		return false, domain.InternalError{Msg: "failed to update investigation", Err: err}
	}
	s.logActivity("trip", c.TripID, "investigation", fmt.Sprintf("cost_id=%d status=%s", costID, target))

	// Resolving the last open flag makes the trip eligible for
	// auto-completion.
	if target == models.InvestigationResolved {
		trip, err := s.TripsRepo.GetByID(c.TripID)
		if err == nil && finance.ShouldAutoCompleteTrip(trip) {
			if ok, err := s.TripsRepo.UpdateStatus(trip.ID, models.TripStatusActive, models.TripStatusCompleted); err == nil && ok {
				s.logActivity("trip", trip.ID, "auto_complete", "all flags resolved")
				return true, nil
			}
		}
	}
	return false, nil
}

// CompleteTrip is the manual active -> completed transition, gated on
// zero unresolved flags.
func (s TripService) CompleteTrip(tripID int64) error {
	trip, err := s.TripsRepo.GetByID(tripID)
	if err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	if trip.Status != models.TripStatusActive {
		return domain.ConflictError{Resource: "trip", Msg: "only active trips can be completed"}
	}
	if !finance.CanCompleteTrip(trip) {
		return domain.ConflictError{
			Resource: "trip",
			Msg:      fmt.Sprintf("%d unresolved flagged cost entries", finance.CountUnresolvedFlags(trip.Costs)),
		}
	}
	ok, err := s.TripsRepo.UpdateStatus(tripID, models.TripStatusActive, models.TripStatusCompleted)
	if err != nil {
		return domain.InternalError{Msg: "failed to complete trip", Err: err}
	}
	if !ok {
		return domain.ConflictError{Resource: "trip", Msg: "status changed concurrently"}
	}
	s.logActivity("trip", tripID, "complete", "")
	return nil
}

// AdvanceStatus moves a trip one step forward (completed -> invoiced ->
// paid). The active -> completed step goes through CompleteTrip so the
// flag gate always applies.
func (s TripService) AdvanceStatus(tripID int64, target string) error {
	trip, err := s.TripsRepo.GetByID(tripID)
	if err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	if target == models.TripStatusCompleted {
		return s.CompleteTrip(tripID)
	}
	if models.NextStatus(trip.Status) != target {
		return domain.ConflictError{
			Resource: "trip",
			Msg:      fmt.Sprintf("cannot move from %s to %s", trip.Status, target),
		}
	}
	ok, err := s.TripsRepo.UpdateStatus(tripID, trip.Status, target)
	if err != nil {
		return domain.InternalError{Msg: "failed to advance trip status", Err: err}
	}
	if !ok {
		return domain.ConflictError{Resource: "trip", Msg: "status changed concurrently"}
	}
	s.logActivity("trip", tripID, "status", target)
	return nil
}

// DeleteTrip removes the trip with its owned rows; linked diesel records
// survive with the reference cleared.
func (s TripService) DeleteTrip(tripID int64) error {
	if _, err := s.TripsRepo.GetByID(tripID); err != nil {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err := s.TripsRepo.Delete(tripID); err != nil {
		return domain.InternalError{Msg: "failed to delete trip", Err: err}
	}
	s.logActivity("trip", tripID, "delete", "")
	return nil
}

func (s TripService) logActivity(entityType string, entityID int64, action, details string) {
	entry := models.ActivityLog{
		EntityType:  entityType,
		EntityID:    fmt.Sprintf("%d", entityID),
		Action:      action,
		Details:     details,
		PerformedBy: s.Actor,
	}
	if err := s.ActivityRepo.Insert(&entry); err != nil {
		utils.LogError(s.RequestID, "trips", "activity_log", err)
	}
	utils.LogEvent(s.RequestID, "trips", action, fmt.Sprintf("%s_id=%d %s", entityType, entityID, details))
}
