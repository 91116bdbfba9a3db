package fuel

import (
	"testing"

	"fleetops/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	// 2.6 actual against 3.0 expected is -13.33%, outside a 10% band.
	variance, status := Classify(2.6, 3.0, 10)
	assert.InDelta(t, -13.333, variance, 0.001)
	assert.Equal(t, models.PerformancePoor, status)

	variance, status = Classify(3.5, 3.0, 10)
	assert.InDelta(t, 16.667, variance, 0.001)
	assert.Equal(t, models.PerformanceExcellent, status)

	variance, status = Classify(2.85, 3.0, 10)
	assert.InDelta(t, -5.0, variance, 0.001)
	assert.Equal(t, models.PerformanceNormal, status)

	// No expected norm: everything classifies normal at zero variance.
	variance, status = Classify(2.6, 0, 10)
	assert.Zero(t, variance)
	assert.Equal(t, models.PerformanceNormal, status)
}

func TestNeedsDebrief(t *testing.T) {
	assert.True(t, NeedsDebrief(models.PerformancePoor, -13.3, 10))
	// Over-performance beyond tolerance also goes to debrief; it usually
	// means a bad odometer entry.
	assert.True(t, NeedsDebrief(models.PerformanceExcellent, 16.7, 10))
	assert.False(t, NeedsDebrief(models.PerformanceNormal, -5, 10))
}

func TestHasProbeWarning(t *testing.T) {
	d := func(v float64) *float64 { return &v }

	assert.True(t, HasProbeWarning(models.DieselRecord{ProbeDiscrepancy: d(70)}))
	assert.True(t, HasProbeWarning(models.DieselRecord{ProbeDiscrepancy: d(-70)}))
	// Exactly at the threshold is not a warning.
	assert.False(t, HasProbeWarning(models.DieselRecord{ProbeDiscrepancy: d(50)}))
	assert.False(t, HasProbeWarning(models.DieselRecord{ProbeDiscrepancy: nil}))
}

func TestDerive(t *testing.T) {
	norm := &models.DieselNorm{FleetNumber: "TRK-014", ExpectedKmPerLitre: 3.0, TolerancePercent: 10}
	rec := models.DieselRecord{
		FleetNumber:       "TRK-014",
		KmReading:         101170,
		PreviousKmReading: 100000,
		LitresFilled:      450,
		CostPerLitre:      22.5,
	}

	Derive(&rec, norm)
	assert.Equal(t, 1170.0, rec.DistanceTravelled)
	assert.InDelta(t, 2.6, rec.KmPerLitre, 1e-9)
	assert.InDelta(t, 10125.0, rec.TotalCost, 1e-9)
	assert.Equal(t, models.PerformancePoor, rec.PerformanceStatus)
	assert.InDelta(t, -13.333, rec.EfficiencyVariance, 0.001)
	assert.True(t, rec.RequiresDebrief)
}

func TestDerive_CostPerLitreBackfill(t *testing.T) {
	rec := models.DieselRecord{LitresFilled: 400, TotalCost: 9000}
	Derive(&rec, nil)
	assert.InDelta(t, 22.5, rec.CostPerLitre, 1e-9)
}

func TestDerive_NoPreviousReadingMeansNoDistance(t *testing.T) {
	rec := models.DieselRecord{KmReading: 100500, LitresFilled: 300}
	Derive(&rec, nil)
	assert.Zero(t, rec.DistanceTravelled)
	assert.Zero(t, rec.KmPerLitre)
	assert.Equal(t, models.PerformanceNormal, rec.PerformanceStatus)
	assert.False(t, rec.RequiresDebrief)
}

func TestDerive_ProbeDiscrepancyOnlyForEquippedFleets(t *testing.T) {
	probe := 380.0
	rec := models.DieselRecord{
		KmReading: 101000, PreviousKmReading: 100000,
		LitresFilled: 450,
		ProbeReading: &probe,
	}

	// Fleet without probe equipment: reading stored, no discrepancy.
	Derive(&rec, &models.DieselNorm{ExpectedKmPerLitre: 3.0, TolerancePercent: 10})
	assert.Nil(t, rec.ProbeDiscrepancy)

	Derive(&rec, &models.DieselNorm{ExpectedKmPerLitre: 3.0, TolerancePercent: 10, ProbeEquipped: true})
	require.NotNil(t, rec.ProbeDiscrepancy)
	assert.InDelta(t, 70.0, *rec.ProbeDiscrepancy, 1e-9)
	assert.True(t, HasProbeWarning(rec))
}
