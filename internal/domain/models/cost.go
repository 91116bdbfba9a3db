package models

// Investigation states for a flagged cost entry. A flag moves forward only
// and is never deleted, only resolved.
const (
	InvestigationPending    = "pending"
	InvestigationInProgress = "in-progress"
	InvestigationResolved   = "resolved"
)

// Cost categories accepted on a trip.
const (
	CostCategoryFuel        = "fuel"
	CostCategoryTolls       = "tolls"
	CostCategoryBorder      = "border"
	CostCategoryMaintenance = "maintenance"
	CostCategoryDriver      = "driver"
	CostCategoryOther       = "other"
)

// CostEntry is one expense line against a trip. SourceDieselID links the
// entry back to the diesel record that created it; at most one cost entry
// exists per linked diesel record.
type CostEntry struct {
	ID              int64   `json:"id"`
	TripID          int64   `json:"tripId"`
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	Date            string  `json:"date"`
	ReferenceNumber string  `json:"referenceNumber,omitempty"`
	Notes           string  `json:"notes,omitempty"`

	IsFlagged           bool   `json:"isFlagged"`
	FlagReason          string `json:"flagReason,omitempty"`
	InvestigationStatus string `json:"investigationStatus,omitempty"`
	FlaggedAt           string `json:"flaggedAt,omitempty"`  // YYYY-MM-DD HH:MM:SS
	ResolvedAt          string `json:"resolvedAt,omitempty"`

	SourceDieselID int64 `json:"sourceDieselId,omitempty"`
}

// Unresolved reports whether the entry still blocks trip completion.
func (c CostEntry) Unresolved() bool {
	return c.IsFlagged && c.InvestigationStatus != InvestigationResolved
}

// FlaggedCost is a cost entry enriched with its parent trip's context for
// the cross-trip flag dashboard. Derived on read, never persisted.
type FlaggedCost struct {
	CostEntry
	FleetNumber string `json:"fleetNumber"`
	Route       string `json:"route"`
	DriverName  string `json:"driverName"`
}

// ValidInvestigationTransition enforces pending -> in-progress -> resolved.
// Re-asserting the current status is a no-op, not an error.
func ValidInvestigationTransition(current, target string) bool {
	if current == target {
		return true
	}
	switch current {
	case InvestigationPending:
		return target == InvestigationInProgress || target == InvestigationResolved
	case InvestigationInProgress:
		return target == InvestigationResolved
	default:
		return false
	}
}
