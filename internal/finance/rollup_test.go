package finance

import (
	"testing"

	"fleetops/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTripKPIs(t *testing.T) {
	trip := models.Trip{
		BaseRevenue:     10000,
		RevenueCurrency: models.CurrencyZAR,
		DistanceKm:      1000,
		Costs: []models.CostEntry{
			{Category: models.CostCategoryFuel, Amount: 2000},
			{Category: models.CostCategoryTolls, Amount: 1000},
		},
		AdditionalCosts: []models.AdditionalCost{
			{Description: "escort", Amount: 500},
		},
	}

	kpi := ComputeTripKPIs(trip)
	require.True(t, kpi.HasData)
	assert.Equal(t, 10000.0, kpi.TotalRevenue)
	assert.Equal(t, 3500.0, kpi.TotalExpenses)
	assert.Equal(t, 6500.0, kpi.NetProfit)
	assert.InDelta(t, 65.0, kpi.ProfitMargin, 1e-9)
	assert.InDelta(t, 3.5, kpi.CostPerKm, 1e-9)
	assert.Equal(t, models.CurrencyZAR, kpi.Currency)
}

func TestComputeTripKPIs_EmptyTripHasNoData(t *testing.T) {
	kpi := ComputeTripKPIs(models.Trip{RevenueCurrency: models.CurrencyZAR})
	assert.False(t, kpi.HasData)
	assert.Zero(t, kpi.TotalRevenue)
	assert.Zero(t, kpi.ProfitMargin)
	assert.Zero(t, kpi.CostPerKm)
}

func TestComputeTripKPIs_ZeroGuards(t *testing.T) {
	// No revenue and no distance: the divisions must stay zero while the
	// expense total still reports.
	trip := models.Trip{
		Costs: []models.CostEntry{{Amount: 400}},
	}
	kpi := ComputeTripKPIs(trip)
	assert.True(t, kpi.HasData)
	assert.Equal(t, 400.0, kpi.TotalExpenses)
	assert.Equal(t, -400.0, kpi.NetProfit)
	assert.Zero(t, kpi.ProfitMargin)
	assert.Zero(t, kpi.CostPerKm)
}

func TestCalculateTotalCosts_SkipsNegatives(t *testing.T) {
	total := CalculateTotalCosts([]models.CostEntry{
		{Amount: 100},
		{Amount: -40},
		{Amount: 60},
	})
	assert.Equal(t, 160.0, total)
}

func TestAggregateFleetReport_FiltersByCurrency(t *testing.T) {
	trips := []models.Trip{
		{RevenueCurrency: "ZAR", BaseRevenue: 1000, ClientType: models.ClientTypeExternal, DriverName: "Sipho"},
		{RevenueCurrency: "zar", BaseRevenue: 500, ClientType: models.ClientTypeInternal, DriverName: "Sipho"},
		{RevenueCurrency: "USD", BaseRevenue: 9999, ClientType: models.ClientTypeExternal, DriverName: "Maria"},
	}

	report := AggregateFleetReport(trips, models.CurrencyZAR)
	assert.Equal(t, 2, report.TripCount)
	assert.Equal(t, 1500.0, report.TotalRevenue)
	assert.Equal(t, 2, report.ByDriver["Sipho"].TripCount)
	assert.NotContains(t, report.ByDriver, "Maria")
	assert.Equal(t, 1, report.ByClientType[models.ClientTypeExternal].TripCount)
	assert.Equal(t, 1, report.ByClientType[models.ClientTypeInternal].TripCount)
}

func TestAggregateFleetReport_InvestigationRateAndResolution(t *testing.T) {
	trips := []models.Trip{
		{
			RevenueCurrency: "ZAR",
			BaseRevenue:     1000,
			ClientType:      models.ClientTypeExternal,
			Costs: []models.CostEntry{
				{
					Amount: 200, IsFlagged: true,
					InvestigationStatus: models.InvestigationResolved,
					FlaggedAt:           "2026-01-05 08:00:00",
					ResolvedAt:          "2026-01-07 08:00:00",
				},
				{
					// Legacy flag without timestamps: counts as the fixed
					// fallback, not as zero days.
					Amount: 300, IsFlagged: true,
					InvestigationStatus: models.InvestigationResolved,
				},
			},
		},
		{RevenueCurrency: "ZAR", BaseRevenue: 800, ClientType: models.ClientTypeExternal},
	}

	report := AggregateFleetReport(trips, models.CurrencyZAR)
	assert.InDelta(t, 50.0, report.InvestigationRatePercent, 1e-9)
	assert.InDelta(t, (2.0+fallbackResolutionDays)/2, report.AvgFlagResolutionDays, 1e-9)
}

func TestResolutionSpanDays_ResolvedBeforeFlagged(t *testing.T) {
	days := resolutionSpanDays(models.CostEntry{
		FlaggedAt:  "2026-01-07 08:00:00",
		ResolvedAt: "2026-01-05 08:00:00",
	})
	assert.Equal(t, fallbackResolutionDays, days)
}
