package models

// YTDMetrics is the manually maintained yearly snapshot used for strategic
// year-over-year comparison. It is edited through the admin form and never
// derived from trip data.
type YTDMetrics struct {
	Year                   int     `json:"year"`
	TotalRevenue           float64 `json:"totalRevenue"`
	EBIT                   float64 `json:"ebit"`
	EBITMarginPercent      float64 `json:"ebitMarginPercent"`
	NetProfit              float64 `json:"netProfit"`
	NetProfitMarginPercent float64 `json:"netProfitMarginPercent"`
	ROEPercent             float64 `json:"roePercent"`
	ROICPercent            float64 `json:"roicPercent"`
	UpdatedAt              string  `json:"updatedAt,omitempty"`
	UpdatedBy              string  `json:"updatedBy,omitempty"`
}

// MissedLoad records business the fleet could not take on.
type MissedLoad struct {
	ID               int64   `json:"id"`
	ClientName       string  `json:"clientName"`
	Route            string  `json:"route"`
	RequestedDate    string  `json:"requestedDate"`
	Reason           string  `json:"reason"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
	Currency         string  `json:"currency"`
	RecordedBy       string  `json:"recordedBy,omitempty"`
	RecordedAt       string  `json:"recordedAt,omitempty"`
}

// ActivityLog is an append-only audit line for entity mutations.
type ActivityLog struct {
	ID          string `json:"id"`
	EntityType  string `json:"entityType"` // trip / diesel / norm / ytd
	EntityID    string `json:"entityId"`
	Action      string `json:"action"`
	Details     string `json:"details,omitempty"`
	PerformedBy string `json:"performedBy,omitempty"`
	CreatedAt   string `json:"createdAt"`
}
