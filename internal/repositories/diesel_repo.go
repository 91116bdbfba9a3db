package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "fleetops/internal/config"
	"fleetops/internal/domain/models"
)

type DieselRepository struct {
	DB *sql.DB
}

func (r DieselRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const dieselColumns = `id, fleet_number, fill_date, COALESCE(driver_name,''), COALESCE(fuel_station,''),
       COALESCE(km_reading,0), COALESCE(previous_km_reading,0), COALESCE(litres_filled,0),
       COALESCE(cost_per_litre,0), COALESCE(total_cost,0), currency, COALESCE(trip_id,0),
       COALESCE(distance_travelled,0), COALESCE(km_per_litre,0),
       probe_reading, probe_discrepancy, COALESCE(probe_verified,0), COALESCE(probe_notes,''),
       COALESCE(efficiency_variance,0), COALESCE(performance_status,'normal'), COALESCE(requires_debrief,0),
       COALESCE(debrief_date,''), COALESCE(debrief_notes,''), COALESCE(debrief_signed,0),
       COALESCE(notes,''), COALESCE(created_at,''), COALESCE(updated_at,'')`

func scanDiesel(scan func(dest ...any) error) (models.DieselRecord, error) {
	var d models.DieselRecord
	var probeReading, probeDiscrepancy sql.NullFloat64
	var probeVerified, requiresDebrief, debriefSigned int
	err := scan(
		&d.ID, &d.FleetNumber, &d.Date, &d.DriverName, &d.FuelStation,
		&d.KmReading, &d.PreviousKmReading, &d.LitresFilled,
		&d.CostPerLitre, &d.TotalCost, &d.Currency, &d.TripID,
		&d.DistanceTravelled, &d.KmPerLitre,
		&probeReading, &probeDiscrepancy, &probeVerified, &d.ProbeNotes,
		&d.EfficiencyVariance, &d.PerformanceStatus, &requiresDebrief,
		&d.DebriefDate, &d.DebriefNotes, &debriefSigned,
		&d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if probeReading.Valid {
		v := probeReading.Float64
		d.ProbeReading = &v
	}
	if probeDiscrepancy.Valid {
		v := probeDiscrepancy.Float64
		d.ProbeDiscrepancy = &v
	}
	d.ProbeVerified = probeVerified != 0
	d.RequiresDebrief = requiresDebrief != 0
	d.DebriefSigned = debriefSigned != 0
	return d, err
}

type DieselFilter struct {
	FleetNumber string
	StartDate   string
	EndDate     string
	DebriefOnly bool
}

func (r DieselRepository) List(f DieselFilter) ([]models.DieselRecord, error) {
	where := []string{"1=1"}
	args := []any{}
	if fleet := strings.TrimSpace(f.FleetNumber); fleet != "" {
		where = append(where, "fleet_number=?")
		args = append(args, strings.ToUpper(fleet))
	}
	if s := strings.TrimSpace(f.StartDate); s != "" {
		where = append(where, "fill_date>=?")
		args = append(args, s)
	}
	if e := strings.TrimSpace(f.EndDate); e != "" {
		where = append(where, "fill_date<=?")
		args = append(args, e)
	}
	if f.DebriefOnly {
		where = append(where, "requires_debrief=1")
	}

	query := fmt.Sprintf(`SELECT %s FROM diesel_records WHERE %s ORDER BY fill_date DESC, id DESC`,
		dieselColumns, strings.Join(where, " AND "))

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DieselRecord{}
	for rows.Next() {
		d, err := scanDiesel(rows.Scan)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r DieselRepository) GetByID(id int64) (models.DieselRecord, error) {
	row := r.db().QueryRow(fmt.Sprintf(`SELECT %s FROM diesel_records WHERE id=?`, dieselColumns), id)
	return scanDiesel(row.Scan)
}

func (r DieselRepository) Insert(d *models.DieselRecord) error {
	res, err := r.db().Exec(`
		INSERT INTO diesel_records (
		  fleet_number, fill_date, driver_name, fuel_station,
		  km_reading, previous_km_reading, litres_filled, cost_per_litre, total_cost, currency,
		  trip_id, distance_travelled, km_per_litre,
		  probe_reading, probe_discrepancy, probe_verified, probe_notes,
		  efficiency_variance, performance_status, requires_debrief,
		  debrief_date, debrief_notes, debrief_signed, notes,
		  created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())
	`,
		d.FleetNumber, d.Date, d.DriverName, d.FuelStation,
		d.KmReading, d.PreviousKmReading, d.LitresFilled, d.CostPerLitre, d.TotalCost, d.Currency,
		nullIfZero(d.TripID), d.DistanceTravelled, d.KmPerLitre,
		nullableFloat(d.ProbeReading), nullableFloat(d.ProbeDiscrepancy), boolToInt(d.ProbeVerified), d.ProbeNotes,
		d.EfficiencyVariance, d.PerformanceStatus, boolToInt(d.RequiresDebrief),
		d.DebriefDate, d.DebriefNotes, boolToInt(d.DebriefSigned), d.Notes,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	d.ID = id
	return nil
}

func (r DieselRepository) Update(d models.DieselRecord) error {
	_, err := r.db().Exec(`
		UPDATE diesel_records SET
		  fleet_number=?, fill_date=?, driver_name=?, fuel_station=?,
		  km_reading=?, previous_km_reading=?, litres_filled=?, cost_per_litre=?, total_cost=?, currency=?,
		  distance_travelled=?, km_per_litre=?,
		  probe_reading=?, probe_discrepancy=?, probe_verified=?, probe_notes=?,
		  efficiency_variance=?, performance_status=?, requires_debrief=?,
		  debrief_date=?, debrief_notes=?, debrief_signed=?, notes=?,
		  updated_at=NOW()
		WHERE id=?
	`,
		d.FleetNumber, d.Date, d.DriverName, d.FuelStation,
		d.KmReading, d.PreviousKmReading, d.LitresFilled, d.CostPerLitre, d.TotalCost, d.Currency,
		d.DistanceTravelled, d.KmPerLitre,
		nullableFloat(d.ProbeReading), nullableFloat(d.ProbeDiscrepancy), boolToInt(d.ProbeVerified), d.ProbeNotes,
		d.EfficiencyVariance, d.PerformanceStatus, boolToInt(d.RequiresDebrief),
		d.DebriefDate, d.DebriefNotes, boolToInt(d.DebriefSigned), d.Notes,
		d.ID,
	)
	return err
}

// SetTripLink writes the weak reference; 0 clears it.
func (r DieselRepository) SetTripLink(id, tripID int64) error {
	_, err := r.db().Exec(`UPDATE diesel_records SET trip_id=?, updated_at=NOW() WHERE id=?`, nullIfZero(tripID), id)
	return err
}

func (r DieselRepository) Delete(id int64) error {
	_, err := r.db().Exec(`DELETE FROM diesel_records WHERE id=?`, id)
	return err
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
