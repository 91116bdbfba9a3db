// Package finance holds the pure trip-accounting computations: per-trip
// KPIs, fleet rollups, flag derivation and weekly bucketing. Everything in
// this package is deterministic over its inputs and never touches storage.
package finance

import (
	"strings"

	"fleetops/internal/domain/models"
	"fleetops/internal/utils"
)

// KPIResult carries the per-trip financial summary. HasData distinguishes
// a computed zero from a trip with nothing to compute, so dashboards can
// render "no data" instead of a misleading 0 profit.
type KPIResult struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	ProfitMargin  float64 `json:"profitMargin"`
	CostPerKm     float64 `json:"costPerKm"`
	Currency      string  `json:"currency"`
	HasData       bool    `json:"hasData"`
}

// CalculateTotalCosts sums cost entry amounts, skipping negatives that
// should never have been stored.
func CalculateTotalCosts(costs []models.CostEntry) float64 {
	var total float64
	for _, c := range costs {
		if c.Amount > 0 {
			total += c.Amount
		}
	}
	return total
}

func sumAdditionalCosts(costs []models.AdditionalCost) float64 {
	var total float64
	for _, c := range costs {
		if c.Amount > 0 {
			total += c.Amount
		}
	}
	return total
}

// ComputeTripKPIs derives revenue, expenses, profit, margin and cost/km for
// a single trip. All divisions are zero-guarded; the function never fails.
func ComputeTripKPIs(t models.Trip) KPIResult {
	res := KPIResult{Currency: t.RevenueCurrency}

	res.TotalRevenue = t.BaseRevenue
	if res.TotalRevenue < 0 {
		res.TotalRevenue = 0
	}
	res.TotalExpenses = CalculateTotalCosts(t.Costs) + sumAdditionalCosts(t.AdditionalCosts)
	res.NetProfit = res.TotalRevenue - res.TotalExpenses

	if res.TotalRevenue > 0 {
		res.ProfitMargin = res.NetProfit / res.TotalRevenue * 100
	}
	if t.DistanceKm > 0 {
		res.CostPerKm = res.TotalExpenses / t.DistanceKm
	}

	res.HasData = res.TotalRevenue > 0 || len(t.Costs) > 0 || len(t.AdditionalCosts) > 0
	return res
}

// ClientTypeTotals aggregates trips of one client type.
type ClientTypeTotals struct {
	TripCount int     `json:"tripCount"`
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
}

// DriverTotals aggregates trips per driver.
type DriverTotals struct {
	TripCount int     `json:"tripCount"`
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
}

// FleetReport is the per-currency fleet rollup.
type FleetReport struct {
	Currency      string  `json:"currency"`
	TripCount     int     `json:"tripCount"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`

	ByClientType map[string]ClientTypeTotals `json:"byClientType"`
	ByDriver     map[string]DriverTotals     `json:"byDriver"`

	InvestigationRatePercent float64 `json:"investigationRatePercent"`
	AvgFlagResolutionDays    float64 `json:"avgFlagResolutionDays"`
}

// fallbackResolutionDays approximates resolution time for flags recorded
// before timestamps were captured.
const fallbackResolutionDays = 3.0

// AggregateFleetReport rolls up all trips of the given currency. Trips in
// the other currency are ignored rather than converted.
func AggregateFleetReport(trips []models.Trip, currency string) FleetReport {
	report := FleetReport{
		Currency:     currency,
		ByClientType: map[string]ClientTypeTotals{},
		ByDriver:     map[string]DriverTotals{},
	}

	flaggedTrips := 0
	var resolutionDays float64
	resolvedFlags := 0

	for _, t := range trips {
		if !strings.EqualFold(t.RevenueCurrency, currency) {
			continue
		}
		kpi := ComputeTripKPIs(t)

		report.TripCount++
		report.TotalRevenue += kpi.TotalRevenue
		report.TotalExpenses += kpi.TotalExpenses
		report.NetProfit += kpi.NetProfit

		ct := report.ByClientType[t.ClientType]
		ct.TripCount++
		ct.Revenue += kpi.TotalRevenue
		ct.Expenses += kpi.TotalExpenses
		ct.Profit += kpi.NetProfit
		report.ByClientType[t.ClientType] = ct

		driver := strings.TrimSpace(t.DriverName)
		if driver != "" {
			d := report.ByDriver[driver]
			d.TripCount++
			d.Revenue += kpi.TotalRevenue
			d.Expenses += kpi.TotalExpenses
			d.Profit += kpi.NetProfit
			report.ByDriver[driver] = d
		}

		if CountFlaggedCosts(t.Costs) > 0 {
			flaggedTrips++
		}
		for _, c := range t.Costs {
			if !c.IsFlagged || c.InvestigationStatus != models.InvestigationResolved {
				continue
			}
			resolvedFlags++
			resolutionDays += resolutionSpanDays(c)
		}
	}

	if report.TripCount > 0 {
		report.InvestigationRatePercent = float64(flaggedTrips) / float64(report.TripCount) * 100
	}
	if resolvedFlags > 0 {
		report.AvgFlagResolutionDays = resolutionDays / float64(resolvedFlags)
	}
	return report
}

// resolutionSpanDays measures flaggedAt -> resolvedAt. Older records carry
// no timestamps; those count as the fixed fallback rather than zero.
func resolutionSpanDays(c models.CostEntry) float64 {
	flagged, errF := utils.ParseDateTime(c.FlaggedAt)
	resolved, errR := utils.ParseDateTime(c.ResolvedAt)
	if errF != nil || errR != nil || resolved.Before(flagged) {
		return fallbackResolutionDays
	}
	return resolved.Sub(flagged).Hours() / 24
}
