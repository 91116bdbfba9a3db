package finance

import (
	"sort"
	"time"

	"fleetops/internal/domain/models"
	"fleetops/internal/utils"
)

// WeekKey identifies a fixed Monday-Sunday calendar week.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// WeeklyReport is one row of the weekly operations report.
type WeeklyReport struct {
	Year      int    `json:"year"`
	Week      int    `json:"week"`
	StartDate string `json:"startDate"` // Monday
	EndDate   string `json:"endDate"`   // Sunday

	TripCount           int     `json:"tripCount"`
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalCosts          float64 `json:"totalCosts"`
	GrossProfit         float64 `json:"grossProfit"`
	TotalKilometers     float64 `json:"totalKilometers"`
	IPK                 float64 `json:"ipk"`
	CPK                 float64 `json:"cpk"`
	ProfitMarginPercent float64 `json:"profitMarginPercent"`
}

// TripReportDate resolves the trigger date used to bucket a trip: the
// final offload time, else the actual offload time, else the end date.
func TripReportDate(t models.Trip) (time.Time, bool) {
	for _, s := range []string{t.FinalOffloadDateTime, t.ActualOffloadDateTime, t.EndDate} {
		if s == "" {
			continue
		}
		if ts, err := utils.ParseDateFlexible(s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// WeekOf returns the week key and the Monday 00:00 of the week containing
// t. Weeks are calendar-fixed, not rolling.
func WeekOf(t time.Time) (WeekKey, time.Time) {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday belongs to the week started the previous Monday
	}
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
	year, week := monday.ISOWeek()
	return WeekKey{Year: year, Week: week}, monday
}

// BuildWeeklyReports buckets closed-out trips (anything past active) into
// Monday-Sunday weeks, most recent week first.
func BuildWeeklyReports(trips []models.Trip) []WeeklyReport {
	type bucket struct {
		report WeeklyReport
		monday time.Time
	}
	buckets := map[WeekKey]*bucket{}

	for _, t := range trips {
		if t.Status == models.TripStatusActive || t.Status == "" {
			continue
		}
		when, ok := TripReportDate(t)
		if !ok {
			continue
		}
		key, monday := WeekOf(when)
		b := buckets[key]
		if b == nil {
			b = &bucket{
				report: WeeklyReport{
					Year:      key.Year,
					Week:      key.Week,
					StartDate: utils.FormatDate(monday),
					EndDate:   utils.FormatDate(monday.AddDate(0, 0, 6)),
				},
				monday: monday,
			}
			buckets[key] = b
		}

		b.report.TripCount++
		b.report.TotalRevenue += t.BaseRevenue
		b.report.TotalCosts += CalculateTotalCosts(t.Costs) + sumAdditionalCosts(t.AdditionalCosts)
		if t.DistanceKm > 0 {
			b.report.TotalKilometers += t.DistanceKm
		}
	}

	out := make([]WeeklyReport, 0, len(buckets))
	order := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		r := &b.report
		r.GrossProfit = r.TotalRevenue - r.TotalCosts
		if r.TotalKilometers > 0 {
			r.IPK = r.TotalRevenue / r.TotalKilometers
			r.CPK = r.TotalCosts / r.TotalKilometers
		}
		if r.TotalRevenue > 0 {
			r.ProfitMarginPercent = r.GrossProfit / r.TotalRevenue * 100
		}
		order = append(order, b)
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].monday.After(order[j].monday)
	})
	for _, b := range order {
		out = append(out, b.report)
	}
	return out
}

// YoYDelta is a single metric's year-over-year movement.
type YoYDelta struct {
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// YoYComparison compares two manually maintained YTD snapshots.
type YoYComparison struct {
	CurrentYear  int      `json:"currentYear"`
	PreviousYear int      `json:"previousYear"`
	Revenue      YoYDelta `json:"revenue"`
	EBIT         YoYDelta `json:"ebit"`
	NetProfit    YoYDelta `json:"netProfit"`
	ROE          YoYDelta `json:"roe"`
	ROIC         YoYDelta `json:"roic"`
}

func yoyDelta(current, previous float64) YoYDelta {
	if previous == 0 {
		return YoYDelta{}
	}
	return YoYDelta{
		Change:        current - previous,
		ChangePercent: current/previous*100 - 100,
	}
}

// CompareYTD builds the year-over-year deltas between two snapshots. The
// snapshots are admin-entered, never derived from trip data.
func CompareYTD(current, previous models.YTDMetrics) YoYComparison {
	return YoYComparison{
		CurrentYear:  current.Year,
		PreviousYear: previous.Year,
		Revenue:      yoyDelta(current.TotalRevenue, previous.TotalRevenue),
		EBIT:         yoyDelta(current.EBIT, previous.EBIT),
		NetProfit:    yoyDelta(current.NetProfit, previous.NetProfit),
		ROE:          yoyDelta(current.ROEPercent, previous.ROEPercent),
		ROIC:         yoyDelta(current.ROICPercent, previous.ROICPercent),
	}
}
