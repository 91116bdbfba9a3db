package repositories

import (
	"database/sql"
	"strings"

	intconfig "fleetops/internal/config"
	"fleetops/internal/domain/models"
)

type MissedLoadsRepository struct {
	DB *sql.DB
}

func (r MissedLoadsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r MissedLoadsRepository) List() ([]models.MissedLoad, error) {
	rows, err := r.db().Query(`
		SELECT id, client_name, route, requested_date, reason,
		       COALESCE(estimated_revenue,0), COALESCE(currency,'ZAR'),
		       COALESCE(recorded_by,''), COALESCE(recorded_at,'')
		FROM missed_loads ORDER BY requested_date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MissedLoad{}
	for rows.Next() {
		var m models.MissedLoad
		if err := rows.Scan(&m.ID, &m.ClientName, &m.Route, &m.RequestedDate, &m.Reason,
			&m.EstimatedRevenue, &m.Currency, &m.RecordedBy, &m.RecordedAt); err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r MissedLoadsRepository) Insert(m *models.MissedLoad) error {
	if strings.TrimSpace(m.Currency) == "" {
		m.Currency = models.CurrencyZAR
	}
	res, err := r.db().Exec(`
		INSERT INTO missed_loads (client_name, route, requested_date, reason, estimated_revenue, currency, recorded_by, recorded_at)
		VALUES (?,?,?,?,?,?,?,NOW())
	`, m.ClientName, m.Route, m.RequestedDate, m.Reason, m.EstimatedRevenue, m.Currency, m.RecordedBy)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	m.ID = id
	return nil
}

func (r MissedLoadsRepository) Delete(id int64) error {
	_, err := r.db().Exec(`DELETE FROM missed_loads WHERE id=?`, id)
	return err
}
