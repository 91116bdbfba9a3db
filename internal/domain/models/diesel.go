package models

// Performance classifications against the fleet's configured norm.
const (
	PerformancePoor      = "poor"
	PerformanceNormal    = "normal"
	PerformanceExcellent = "excellent"
)

// DieselRecord is one fuel-fill event. Derived fields (distance, km/L,
// variance, probe discrepancy, classification) are recomputed whenever the
// record or the fleet norm changes.
type DieselRecord struct {
	ID          int64  `json:"id"`
	FleetNumber string `json:"fleetNumber"`
	Date        string `json:"date"` // YYYY-MM-DD
	DriverName  string `json:"driverName"`
	FuelStation string `json:"fuelStation"`

	KmReading         float64 `json:"kmReading"`
	PreviousKmReading float64 `json:"previousKmReading"`
	LitresFilled      float64 `json:"litresFilled"`
	CostPerLitre      float64 `json:"costPerLitre"`
	TotalCost         float64 `json:"totalCost"`
	Currency          string  `json:"currency"`

	// TripID is a weak reference; 0 means unlinked. Linking maintains a
	// single fuel CostEntry on the trip, keyed by SourceDieselID.
	TripID int64 `json:"tripId,omitempty"`

	DistanceTravelled float64 `json:"distanceTravelled"`
	KmPerLitre        float64 `json:"kmPerLitre"`

	ProbeReading     *float64 `json:"probeReading,omitempty"`
	ProbeDiscrepancy *float64 `json:"probeDiscrepancy,omitempty"`
	ProbeVerified    bool     `json:"probeVerified"`
	ProbeNotes       string   `json:"probeNotes,omitempty"`

	EfficiencyVariance float64 `json:"efficiencyVariance"`
	PerformanceStatus  string  `json:"performanceStatus"`
	RequiresDebrief    bool    `json:"requiresDebrief"`

	DebriefDate   string `json:"debriefDate,omitempty"`
	DebriefNotes  string `json:"debriefNotes,omitempty"`
	DebriefSigned bool   `json:"debriefSigned"`

	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// DieselNorm is the per-fleet efficiency configuration driving
// classification of diesel records.
type DieselNorm struct {
	FleetNumber        string  `json:"fleetNumber"`
	ExpectedKmPerLitre float64 `json:"expectedKmPerLitre"`
	TolerancePercent   float64 `json:"tolerancePercent"`
	ProbeEquipped      bool    `json:"probeEquipped"`
	UpdatedAt          string  `json:"updatedAt,omitempty"`
	UpdatedBy          string  `json:"updatedBy,omitempty"`
}
