package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "fleetops/internal/config"
	"fleetops/internal/domain/models"
)

type TripsRepository struct {
	DB *sql.DB
}

func (r TripsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, fleet_number, driver_name, client_name, client_type, route,
       start_date, end_date,
       COALESCE(actual_offload_at,''), COALESCE(final_offload_at,''),
       COALESCE(distance_km,0), COALESCE(base_revenue,0), revenue_currency,
       COALESCE(payment_status,'unpaid'), status,
       COALESCE(investigation_flag,0), COALESCE(investigation_date,''), COALESCE(investigation_notes,''),
       COALESCE(created_at,''), COALESCE(updated_at,'')`

func scanTrip(scan func(dest ...any) error) (models.Trip, error) {
	var t models.Trip
	var invFlag int
	err := scan(
		&t.ID, &t.FleetNumber, &t.DriverName, &t.ClientName, &t.ClientType, &t.Route,
		&t.StartDate, &t.EndDate,
		&t.ActualOffloadDateTime, &t.FinalOffloadDateTime,
		&t.DistanceKm, &t.BaseRevenue, &t.RevenueCurrency,
		&t.PaymentStatus, &t.Status,
		&invFlag, &t.InvestigationDate, &t.InvestigationNotes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	t.InvestigationFlag = invFlag != 0
	return t, err
}

// ListTrips returns trips without their owned collections; callers needing
// costs run AttachChildren on the result.
func (r TripsRepository) ListTrips(status, currency string) ([]models.Trip, error) {
	db := r.db()

	where := []string{"1=1"}
	args := []any{}
	if s := strings.TrimSpace(status); s != "" {
		where = append(where, "status=?")
		args = append(args, s)
	}
	if c := strings.TrimSpace(currency); c != "" {
		where = append(where, "revenue_currency=?")
		args = append(args, strings.ToUpper(c))
	}

	query := fmt.Sprintf(`SELECT %s FROM trips WHERE %s ORDER BY start_date DESC, id DESC`,
		tripColumns, strings.Join(where, " AND "))

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows.Scan)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r TripsRepository) GetByID(id int64) (models.Trip, error) {
	db := r.db()
	row := db.QueryRow(fmt.Sprintf(`SELECT %s FROM trips WHERE id=?`, tripColumns), id)
	t, err := scanTrip(row.Scan)
	if err != nil {
		return t, err
	}
	trips := []models.Trip{t}
	if err := r.AttachChildren(trips); err != nil {
		return t, err
	}
	return trips[0], nil
}

// AttachChildren loads cost entries, additional costs, delay reasons and
// follow-ups for every trip in the slice with one query per collection.
func (r TripsRepository) AttachChildren(trips []models.Trip) error {
	if len(trips) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Trip, len(trips))
	ids := make([]any, 0, len(trips))
	ph := make([]string, 0, len(trips))
	for i := range trips {
		trips[i].Costs = []models.CostEntry{}
		trips[i].AdditionalCosts = []models.AdditionalCost{}
		trips[i].DelayReasons = []models.DelayReason{}
		trips[i].FollowUps = []models.FollowUpRecord{}
		byID[trips[i].ID] = &trips[i]
		ids = append(ids, trips[i].ID)
		ph = append(ph, "?")
	}
	in := strings.Join(ph, ",")
	db := r.db()

	costs := CostsRepository{DB: r.DB}
	entries, err := costs.listByTripIDs(db, in, ids)
	if err != nil {
		return err
	}
	for _, c := range entries {
		if t := byID[c.TripID]; t != nil {
			t.Costs = append(t.Costs, c)
		}
	}

	rows, err := db.Query(fmt.Sprintf(`SELECT id, trip_id, description, COALESCE(amount,0), COALESCE(cost_date,'')
		FROM trip_additional_costs WHERE trip_id IN (%s) ORDER BY id ASC`, in), ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.AdditionalCost
		if err := rows.Scan(&a.ID, &a.TripID, &a.Description, &a.Amount, &a.Date); err != nil {
			return err
		}
		if t := byID[a.TripID]; t != nil {
			t.AdditionalCosts = append(t.AdditionalCosts, a)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	delayRows, err := db.Query(fmt.Sprintf(`SELECT id, trip_id, reason, COALESCE(description,''), COALESCE(delay_hours,0), COALESCE(delay_date,'')
		FROM trip_delays WHERE trip_id IN (%s) ORDER BY id ASC`, in), ids...)
	if err != nil {
		return err
	}
	defer delayRows.Close()
	for delayRows.Next() {
		var d models.DelayReason
		if err := delayRows.Scan(&d.ID, &d.TripID, &d.Reason, &d.Description, &d.DelayHours, &d.Date); err != nil {
			return err
		}
		if t := byID[d.TripID]; t != nil {
			t.DelayReasons = append(t.DelayReasons, d)
		}
	}
	if err := delayRows.Err(); err != nil {
		return err
	}

	fuRows, err := db.Query(fmt.Sprintf(`SELECT id, trip_id, note, COALESCE(created_by,''), COALESCE(created_at,'')
		FROM trip_followups WHERE trip_id IN (%s) ORDER BY id ASC`, in), ids...)
	if err != nil {
		return err
	}
	defer fuRows.Close()
	for fuRows.Next() {
		var f models.FollowUpRecord
		if err := fuRows.Scan(&f.ID, &f.TripID, &f.Note, &f.CreatedBy, &f.CreatedAt); err != nil {
			return err
		}
		if t := byID[f.TripID]; t != nil {
			t.FollowUps = append(t.FollowUps, f)
		}
	}
	return fuRows.Err()
}

func (r TripsRepository) Insert(t *models.Trip) error {
	res, err := r.db().Exec(`
		INSERT INTO trips (
		  fleet_number, driver_name, client_name, client_type, route,
		  start_date, end_date, actual_offload_at, final_offload_at,
		  distance_km, base_revenue, revenue_currency, payment_status, status,
		  investigation_flag, investigation_date, investigation_notes,
		  created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())
	`,
		t.FleetNumber, t.DriverName, t.ClientName, t.ClientType, t.Route,
		t.StartDate, t.EndDate, t.ActualOffloadDateTime, t.FinalOffloadDateTime,
		t.DistanceKm, t.BaseRevenue, t.RevenueCurrency, t.PaymentStatus, t.Status,
		boolToInt(t.InvestigationFlag), t.InvestigationDate, t.InvestigationNotes,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	t.ID = id
	return nil
}

// Update rewrites the editable trip fields. Status is owned by
// UpdateStatus and never touched here.
func (r TripsRepository) Update(t models.Trip) error {
	_, err := r.db().Exec(`
		UPDATE trips SET
		  fleet_number=?, driver_name=?, client_name=?, client_type=?, route=?,
		  start_date=?, end_date=?, actual_offload_at=?, final_offload_at=?,
		  distance_km=?, base_revenue=?, revenue_currency=?, payment_status=?,
		  investigation_flag=?, investigation_date=?, investigation_notes=?,
		  updated_at=NOW()
		WHERE id=?
	`,
		t.FleetNumber, t.DriverName, t.ClientName, t.ClientType, t.Route,
		t.StartDate, t.EndDate, t.ActualOffloadDateTime, t.FinalOffloadDateTime,
		t.DistanceKm, t.BaseRevenue, t.RevenueCurrency, t.PaymentStatus,
		boolToInt(t.InvestigationFlag), t.InvestigationDate, t.InvestigationNotes,
		t.ID,
	)
	return err
}

// UpdateStatus advances the trip status only when the stored row still
// holds the expected current status.
func (r TripsRepository) UpdateStatus(id int64, from, to string) (bool, error) {
	res, err := r.db().Exec(`UPDATE trips SET status=?, updated_at=NOW() WHERE id=? AND status=?`, to, id, from)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// Delete removes the trip and every owned child row. Diesel records keep
// their weak reference cleared but are not deleted.
func (r TripsRepository) Delete(id int64) error {
	db := r.db()
	for _, q := range []string{
		`DELETE FROM trip_costs WHERE trip_id=?`,
		`DELETE FROM trip_additional_costs WHERE trip_id=?`,
		`DELETE FROM trip_delays WHERE trip_id=?`,
		`DELETE FROM trip_followups WHERE trip_id=?`,
		`UPDATE diesel_records SET trip_id=NULL WHERE trip_id=?`,
		`DELETE FROM trips WHERE id=?`,
	} {
		if _, err := db.Exec(q, id); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
