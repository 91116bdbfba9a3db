package finance

import (
	"testing"

	"fleetops/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagCountsUnresolvedIsSubset(t *testing.T) {
	costs := []models.CostEntry{
		{IsFlagged: true, InvestigationStatus: models.InvestigationPending},
		{IsFlagged: true, InvestigationStatus: models.InvestigationInProgress},
		{IsFlagged: true, InvestigationStatus: models.InvestigationResolved},
		{IsFlagged: false},
	}
	flagged := CountFlaggedCosts(costs)
	unresolved := CountUnresolvedFlags(costs)
	assert.Equal(t, 3, flagged)
	assert.Equal(t, 2, unresolved)
	assert.LessOrEqual(t, unresolved, flagged)
}

func TestCanCompleteTrip(t *testing.T) {
	blocked := models.Trip{Costs: []models.CostEntry{
		{IsFlagged: true, InvestigationStatus: models.InvestigationPending},
	}}
	assert.False(t, CanCompleteTrip(blocked))

	clear := models.Trip{Costs: []models.CostEntry{
		{IsFlagged: true, InvestigationStatus: models.InvestigationResolved},
		{IsFlagged: false},
	}}
	assert.True(t, CanCompleteTrip(clear))

	// Trips with no cost entries at all can always complete.
	assert.True(t, CanCompleteTrip(models.Trip{}))
}

func TestShouldAutoCompleteTrip(t *testing.T) {
	resolvedFlag := models.CostEntry{IsFlagged: true, InvestigationStatus: models.InvestigationResolved}
	openFlag := models.CostEntry{IsFlagged: true, InvestigationStatus: models.InvestigationInProgress}

	eligible := models.Trip{Status: models.TripStatusActive, Costs: []models.CostEntry{resolvedFlag}}
	assert.True(t, ShouldAutoCompleteTrip(eligible))

	stillOpen := models.Trip{Status: models.TripStatusActive, Costs: []models.CostEntry{resolvedFlag, openFlag}}
	assert.False(t, ShouldAutoCompleteTrip(stillOpen))

	// A trip that never had a flag completes manually, not automatically.
	neverFlagged := models.Trip{Status: models.TripStatusActive, Costs: []models.CostEntry{{Amount: 100}}}
	assert.False(t, ShouldAutoCompleteTrip(neverFlagged))

	alreadyDone := models.Trip{Status: models.TripStatusCompleted, Costs: []models.CostEntry{resolvedFlag}}
	assert.False(t, ShouldAutoCompleteTrip(alreadyDone))
}

func TestCollectFlaggedCosts_Ordering(t *testing.T) {
	trips := []models.Trip{
		{
			FleetNumber: "TRK-001", Route: "JHB-HRE", DriverName: "Sipho",
			Costs: []models.CostEntry{
				{ID: 1, IsFlagged: true, InvestigationStatus: models.InvestigationResolved, FlaggedAt: "2026-02-10 09:00:00"},
				{ID: 2, IsFlagged: true, InvestigationStatus: models.InvestigationPending, FlaggedAt: "2026-02-01 09:00:00"},
				{ID: 3, IsFlagged: false},
			},
		},
		{
			FleetNumber: "TRK-002", Route: "JHB-LUN", DriverName: "Maria",
			Costs: []models.CostEntry{
				{ID: 4, IsFlagged: true, InvestigationStatus: models.InvestigationPending, FlaggedAt: "2026-02-05 09:00:00"},
			},
		},
	}

	out := CollectFlaggedCosts(trips)
	require.Len(t, out, 3)

	// Pending entries first, newest flag first within each group.
	assert.Equal(t, int64(4), out[0].ID)
	assert.Equal(t, int64(2), out[1].ID)
	assert.Equal(t, int64(1), out[2].ID)

	assert.Equal(t, "TRK-002", out[0].FleetNumber)
	assert.Equal(t, "JHB-LUN", out[0].Route)
	assert.Equal(t, "Maria", out[0].DriverName)
}

func TestCollectFlaggedCosts_LegacyEntriesFallBackToCostDate(t *testing.T) {
	trips := []models.Trip{
		{Costs: []models.CostEntry{
			{ID: 1, IsFlagged: true, InvestigationStatus: models.InvestigationPending, Date: "2026-01-02"},
			{ID: 2, IsFlagged: true, InvestigationStatus: models.InvestigationPending, Date: "2026-01-20"},
		}},
	}
	out := CollectFlaggedCosts(trips)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)
}
