package finance

import (
	"sort"
	"time"

	"fleetops/internal/domain/models"
	"fleetops/internal/utils"
)

// CountFlaggedCosts counts every flagged entry, resolved or not.
func CountFlaggedCosts(costs []models.CostEntry) int {
	n := 0
	for _, c := range costs {
		if c.IsFlagged {
			n++
		}
	}
	return n
}

// CountUnresolvedFlags counts flagged entries still under investigation.
// Unresolved is always a subset of flagged.
func CountUnresolvedFlags(costs []models.CostEntry) int {
	n := 0
	for _, c := range costs {
		if c.Unresolved() {
			n++
		}
	}
	return n
}

// CanCompleteTrip is the single gate for the active -> completed
// transition: no unresolved flagged cost entries. Trips with zero costs
// can always complete.
func CanCompleteTrip(t models.Trip) bool {
	return CountUnresolvedFlags(t.Costs) == 0
}

// ShouldAutoCompleteTrip detects the moment an active trip becomes
// eligible for automatic completion: it had at least one flag, and every
// flag is now resolved. Edge-triggered on purpose; a trip that never had
// a flag is completed manually, not by this rule.
func ShouldAutoCompleteTrip(t models.Trip) bool {
	if t.Status != models.TripStatusActive {
		return false
	}
	flagged := CountFlaggedCosts(t.Costs)
	return flagged > 0 && CountUnresolvedFlags(t.Costs) == 0
}

// CollectFlaggedCosts builds the cross-trip flag dashboard: every flagged
// entry enriched with its trip's fleet/route/driver, pending entries
// first, then newest flags first. The UI triage view depends on this
// ordering.
func CollectFlaggedCosts(trips []models.Trip) []models.FlaggedCost {
	out := []models.FlaggedCost{}
	for _, t := range trips {
		for _, c := range t.Costs {
			if !c.IsFlagged {
				continue
			}
			out = append(out, models.FlaggedCost{
				CostEntry:   c,
				FleetNumber: t.FleetNumber,
				Route:       t.Route,
				DriverName:  t.DriverName,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi := out[i].InvestigationStatus == models.InvestigationPending
		pj := out[j].InvestigationStatus == models.InvestigationPending
		if pi != pj {
			return pi
		}
		return flagSortTime(out[i]).After(flagSortTime(out[j]))
	})
	return out
}

// flagSortTime prefers the flag timestamp, falling back to the cost's own
// date for entries flagged before timestamps were recorded.
func flagSortTime(f models.FlaggedCost) time.Time {
	if ts, err := utils.ParseDateTime(f.FlaggedAt); err == nil {
		return ts
	}
	if ts, err := utils.ParseDateFlexible(f.Date); err == nil {
		return ts
	}
	return time.Time{}
}
