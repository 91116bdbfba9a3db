package models

// Trip statuses advance strictly forward.
const (
	TripStatusActive    = "active"
	TripStatusCompleted = "completed"
	TripStatusInvoiced  = "invoiced"
	TripStatusPaid      = "paid"
)

const (
	ClientTypeInternal = "internal"
	ClientTypeExternal = "external"
)

const (
	CurrencyZAR = "ZAR"
	CurrencyUSD = "USD"
)

// Trip is one vehicle movement with its commercial terms. Cost entries,
// additional costs, delay reasons and follow-ups are owned by the trip and
// live or die with it.
type Trip struct {
	ID          int64  `json:"id"`
	FleetNumber string `json:"fleetNumber"`
	DriverName  string `json:"driverName"`
	ClientName  string `json:"clientName"`
	ClientType  string `json:"clientType"` // internal / external
	Route       string `json:"route"`

	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`

	// Offload timestamps, filled in as the trip closes out. The weekly
	// report picks the first non-empty of final, actual, endDate.
	ActualOffloadDateTime string `json:"actualOffloadDateTime,omitempty"`
	FinalOffloadDateTime  string `json:"finalOffloadDateTime,omitempty"`

	DistanceKm      float64 `json:"distanceKm"`
	BaseRevenue     float64 `json:"baseRevenue"`
	RevenueCurrency string  `json:"revenueCurrency"` // ZAR / USD
	PaymentStatus   string  `json:"paymentStatus"`
	Status          string  `json:"status"`

	InvestigationFlag  bool   `json:"investigationFlag"`
	InvestigationDate  string `json:"investigationDate,omitempty"`
	InvestigationNotes string `json:"investigationNotes,omitempty"`

	Costs           []CostEntry      `json:"costs"`
	AdditionalCosts []AdditionalCost `json:"additionalCosts"`
	DelayReasons    []DelayReason    `json:"delayReasons"`
	FollowUps       []FollowUpRecord `json:"followUps"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// NextStatus returns the only status a trip may advance to, or "" from the
// terminal state.
func NextStatus(current string) string {
	switch current {
	case TripStatusActive:
		return TripStatusCompleted
	case TripStatusCompleted:
		return TripStatusInvoiced
	case TripStatusInvoiced:
		return TripStatusPaid
	default:
		return ""
	}
}

// ValidCurrency reports whether c is one of the two supported currencies.
func ValidCurrency(c string) bool {
	return c == CurrencyZAR || c == CurrencyUSD
}

type AdditionalCost struct {
	ID          int64   `json:"id"`
	TripID      int64   `json:"tripId"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

type DelayReason struct {
	ID          int64   `json:"id"`
	TripID      int64   `json:"tripId"`
	Reason      string  `json:"reason"`
	Description string  `json:"description,omitempty"`
	DelayHours  float64 `json:"delayHours"`
	Date        string  `json:"date"`
}

type FollowUpRecord struct {
	ID        int64  `json:"id"`
	TripID    int64  `json:"tripId"`
	Note      string `json:"note"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}
