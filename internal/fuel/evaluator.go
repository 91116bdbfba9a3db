// Package fuel evaluates diesel fill events against per-fleet efficiency
// norms and the physical probe cross-check.
package fuel

import (
	"math"

	"fleetops/internal/domain/models"
)

// ProbeWarningThresholdLitres is the fixed fill-vs-probe discrepancy above
// which a record requires investigation notes before it can be verified.
// Unlike the efficiency tolerance this is not configurable per fleet.
const ProbeWarningThresholdLitres = 50.0

// DefaultTolerancePercent applies when a fleet has no norm configured.
const DefaultTolerancePercent = 10.0

// Classify computes the efficiency variance of an actual km/L figure
// against the expected norm and buckets it as poor, normal or excellent.
func Classify(actualKmPerLitre, expectedKmPerLitre, tolerancePercent float64) (variancePercent float64, status string) {
	if expectedKmPerLitre <= 0 {
		return 0, models.PerformanceNormal
	}
	if tolerancePercent <= 0 {
		tolerancePercent = DefaultTolerancePercent
	}
	variancePercent = (actualKmPerLitre - expectedKmPerLitre) / expectedKmPerLitre * 100
	switch {
	case variancePercent < -tolerancePercent:
		status = models.PerformancePoor
	case variancePercent > tolerancePercent:
		status = models.PerformanceExcellent
	default:
		status = models.PerformanceNormal
	}
	return variancePercent, status
}

// NeedsDebrief reports whether the fill must be taken through a debrief:
// poor performance, or a variance magnitude beyond tolerance in either
// direction.
func NeedsDebrief(status string, variancePercent, tolerancePercent float64) bool {
	if tolerancePercent <= 0 {
		tolerancePercent = DefaultTolerancePercent
	}
	return status == models.PerformancePoor || math.Abs(variancePercent) > tolerancePercent
}

// HasProbeWarning reports whether the fill-vs-probe discrepancy crosses
// the hard-warning threshold.
func HasProbeWarning(rec models.DieselRecord) bool {
	return rec.ProbeDiscrepancy != nil && math.Abs(*rec.ProbeDiscrepancy) > ProbeWarningThresholdLitres
}

// Derive recomputes every derived field on a diesel record in place:
// distance travelled, km/L, efficiency variance, classification, debrief
// requirement and probe discrepancy. norm may be nil when the fleet has
// no configuration; the record then classifies as normal.
func Derive(rec *models.DieselRecord, norm *models.DieselNorm) {
	if rec == nil {
		return
	}

	rec.DistanceTravelled = 0
	if rec.PreviousKmReading > 0 && rec.KmReading > rec.PreviousKmReading {
		rec.DistanceTravelled = rec.KmReading - rec.PreviousKmReading
	}

	rec.KmPerLitre = 0
	if rec.DistanceTravelled > 0 && rec.LitresFilled > 0 {
		rec.KmPerLitre = rec.DistanceTravelled / rec.LitresFilled
	}

	if rec.TotalCost == 0 && rec.CostPerLitre > 0 && rec.LitresFilled > 0 {
		rec.TotalCost = rec.CostPerLitre * rec.LitresFilled
	}
	if rec.CostPerLitre == 0 && rec.TotalCost > 0 && rec.LitresFilled > 0 {
		rec.CostPerLitre = rec.TotalCost / rec.LitresFilled
	}

	expected := 0.0
	tolerance := DefaultTolerancePercent
	probeEquipped := false
	if norm != nil {
		expected = norm.ExpectedKmPerLitre
		if norm.TolerancePercent > 0 {
			tolerance = norm.TolerancePercent
		}
		probeEquipped = norm.ProbeEquipped
	}

	if expected > 0 && rec.KmPerLitre > 0 {
		rec.EfficiencyVariance, rec.PerformanceStatus = Classify(rec.KmPerLitre, expected, tolerance)
		rec.RequiresDebrief = NeedsDebrief(rec.PerformanceStatus, rec.EfficiencyVariance, tolerance)
	} else {
		rec.EfficiencyVariance = 0
		rec.PerformanceStatus = models.PerformanceNormal
		rec.RequiresDebrief = false
	}

	rec.ProbeDiscrepancy = nil
	if probeEquipped && rec.ProbeReading != nil {
		d := rec.LitresFilled - *rec.ProbeReading
		rec.ProbeDiscrepancy = &d
	}
}
