package repositories

import (
	"database/sql"
	"fmt"

	intconfig "fleetops/internal/config"
	"fleetops/internal/domain/models"
)

type CostsRepository struct {
	DB *sql.DB
}

func (r CostsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const costColumns = `id, trip_id, category, COALESCE(amount,0), COALESCE(cost_date,''),
       COALESCE(reference_number,''), COALESCE(notes,''),
       COALESCE(is_flagged,0), COALESCE(flag_reason,''), COALESCE(investigation_status,''),
       COALESCE(flagged_at,''), COALESCE(resolved_at,''), COALESCE(source_diesel_id,0)`

func scanCost(scan func(dest ...any) error) (models.CostEntry, error) {
	var c models.CostEntry
	var flagged int
	err := scan(
		&c.ID, &c.TripID, &c.Category, &c.Amount, &c.Date,
		&c.ReferenceNumber, &c.Notes,
		&flagged, &c.FlagReason, &c.InvestigationStatus,
		&c.FlaggedAt, &c.ResolvedAt, &c.SourceDieselID,
	)
	c.IsFlagged = flagged != 0
	return c, err
}

func (r CostsRepository) ListByTrip(tripID int64) ([]models.CostEntry, error) {
	return r.listByTripIDs(r.db(), "?", []any{tripID})
}

func (r CostsRepository) listByTripIDs(db *sql.DB, placeholders string, ids []any) ([]models.CostEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM trip_costs WHERE trip_id IN (%s) ORDER BY cost_date ASC, id ASC`, costColumns, placeholders)
	rows, err := db.Query(query, ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CostEntry{}
	for rows.Next() {
		c, err := scanCost(rows.Scan)
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r CostsRepository) GetByID(id int64) (models.CostEntry, error) {
	row := r.db().QueryRow(fmt.Sprintf(`SELECT %s FROM trip_costs WHERE id=?`, costColumns), id)
	return scanCost(row.Scan)
}

func (r CostsRepository) Insert(c *models.CostEntry) error {
	res, err := r.db().Exec(`
		INSERT INTO trip_costs (
		  trip_id, category, amount, cost_date, reference_number, notes,
		  is_flagged, flag_reason, investigation_status, flagged_at, resolved_at, source_diesel_id
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		c.TripID, c.Category, c.Amount, c.Date, c.ReferenceNumber, c.Notes,
		boolToInt(c.IsFlagged), c.FlagReason, c.InvestigationStatus, c.FlaggedAt, c.ResolvedAt,
		nullIfZero(c.SourceDieselID),
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	c.ID = id
	return nil
}

// Flag marks an entry for investigation; it starts in pending.
func (r CostsRepository) Flag(id int64, reason, flaggedAt string) error {
	_, err := r.db().Exec(`
		UPDATE trip_costs
		SET is_flagged=1, flag_reason=?, investigation_status=?, flagged_at=?, resolved_at=''
		WHERE id=?
	`, reason, models.InvestigationPending, flaggedAt, id)
	return err
}

// SetInvestigationStatus records the reviewer's transition. resolvedAt is
// only written for the terminal state.
func (r CostsRepository) SetInvestigationStatus(id int64, status, resolvedAt string) error {
	_, err := r.db().Exec(`
		UPDATE trip_costs SET investigation_status=?, resolved_at=? WHERE id=?
	`, status, resolvedAt, id)
	return err
}

// DeleteByDiesel removes the single diesel-sourced entry for a linkage.
// Returns how many rows went away so the caller can assert the 1:1
// invariant.
func (r CostsRepository) DeleteByDiesel(tripID, dieselID int64) (int64, error) {
	res, err := r.db().Exec(`DELETE FROM trip_costs WHERE trip_id=? AND source_diesel_id=?`, tripID, dieselID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByDiesel reports existing diesel-sourced entries for a record.
func (r CostsRepository) CountByDiesel(dieselID int64) (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM trip_costs WHERE source_diesel_id=?`, dieselID).Scan(&n)
	return n, err
}

func (r CostsRepository) InsertAdditional(a *models.AdditionalCost) error {
	res, err := r.db().Exec(`
		INSERT INTO trip_additional_costs (trip_id, description, amount, cost_date) VALUES (?,?,?,?)
	`, a.TripID, a.Description, a.Amount, a.Date)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	a.ID = id
	return nil
}

func (r CostsRepository) InsertDelay(d *models.DelayReason) error {
	res, err := r.db().Exec(`
		INSERT INTO trip_delays (trip_id, reason, description, delay_hours, delay_date) VALUES (?,?,?,?,?)
	`, d.TripID, d.Reason, d.Description, d.DelayHours, d.Date)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	d.ID = id
	return nil
}

func (r CostsRepository) InsertFollowUp(f *models.FollowUpRecord) error {
	res, err := r.db().Exec(`
		INSERT INTO trip_followups (trip_id, note, created_by, created_at) VALUES (?,?,?,?)
	`, f.TripID, f.Note, f.CreatedBy, f.CreatedAt)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	f.ID = id
	return nil
}

func nullIfZero(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
