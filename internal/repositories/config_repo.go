package repositories

import (
	"database/sql"
	"strings"

	intconfig "fleetops/internal/config"
	"fleetops/internal/domain/models"
)

// ConfigRepository persists admin configuration: diesel norms and the
// manually maintained YTD metrics snapshots.
type ConfigRepository struct {
	DB *sql.DB
}

func (r ConfigRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ConfigRepository) GetNorm(fleetNumber string) (models.DieselNorm, error) {
	var n models.DieselNorm
	var probe int
	err := r.db().QueryRow(`
		SELECT fleet_number, expected_km_per_litre, tolerance_percent, COALESCE(probe_equipped,0),
		       COALESCE(updated_at,''), COALESCE(updated_by,'')
		FROM diesel_norms WHERE fleet_number=?
	`, strings.ToUpper(strings.TrimSpace(fleetNumber))).Scan(
		&n.FleetNumber, &n.ExpectedKmPerLitre, &n.TolerancePercent, &probe, &n.UpdatedAt, &n.UpdatedBy,
	)
	n.ProbeEquipped = probe != 0
	return n, err
}

func (r ConfigRepository) ListNorms() ([]models.DieselNorm, error) {
	rows, err := r.db().Query(`
		SELECT fleet_number, expected_km_per_litre, tolerance_percent, COALESCE(probe_equipped,0),
		       COALESCE(updated_at,''), COALESCE(updated_by,'')
		FROM diesel_norms ORDER BY fleet_number ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DieselNorm{}
	for rows.Next() {
		var n models.DieselNorm
		var probe int
		if err := rows.Scan(&n.FleetNumber, &n.ExpectedKmPerLitre, &n.TolerancePercent, &probe, &n.UpdatedAt, &n.UpdatedBy); err != nil {
			return out, err
		}
		n.ProbeEquipped = probe != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpsertNorm updates the fleet's norm, inserting on first configuration.
func (r ConfigRepository) UpsertNorm(n models.DieselNorm) error {
	db := r.db()
	fleet := strings.ToUpper(strings.TrimSpace(n.FleetNumber))
	res, err := db.Exec(`
		UPDATE diesel_norms
		SET expected_km_per_litre=?, tolerance_percent=?, probe_equipped=?, updated_at=NOW(), updated_by=?
		WHERE fleet_number=?
	`, n.ExpectedKmPerLitre, n.TolerancePercent, boolToInt(n.ProbeEquipped), n.UpdatedBy, fleet)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		_, err = db.Exec(`
			INSERT INTO diesel_norms (fleet_number, expected_km_per_litre, tolerance_percent, probe_equipped, updated_at, updated_by)
			VALUES (?,?,?,?,NOW(),?)
		`, fleet, n.ExpectedKmPerLitre, n.TolerancePercent, boolToInt(n.ProbeEquipped), n.UpdatedBy)
	}
	return err
}

func (r ConfigRepository) GetYTD(year int) (models.YTDMetrics, error) {
	var m models.YTDMetrics
	err := r.db().QueryRow(`
		SELECT year, COALESCE(total_revenue,0), COALESCE(ebit,0), COALESCE(ebit_margin,0),
		       COALESCE(net_profit,0), COALESCE(net_profit_margin,0),
		       COALESCE(roe_percent,0), COALESCE(roic_percent,0),
		       COALESCE(updated_at,''), COALESCE(updated_by,'')
		FROM ytd_metrics WHERE year=?
	`, year).Scan(
		&m.Year, &m.TotalRevenue, &m.EBIT, &m.EBITMarginPercent,
		&m.NetProfit, &m.NetProfitMarginPercent,
		&m.ROEPercent, &m.ROICPercent,
		&m.UpdatedAt, &m.UpdatedBy,
	)
	return m, err
}

func (r ConfigRepository) ListYTD() ([]models.YTDMetrics, error) {
	rows, err := r.db().Query(`
		SELECT year, COALESCE(total_revenue,0), COALESCE(ebit,0), COALESCE(ebit_margin,0),
		       COALESCE(net_profit,0), COALESCE(net_profit_margin,0),
		       COALESCE(roe_percent,0), COALESCE(roic_percent,0),
		       COALESCE(updated_at,''), COALESCE(updated_by,'')
		FROM ytd_metrics ORDER BY year DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.YTDMetrics{}
	for rows.Next() {
		var m models.YTDMetrics
		if err := rows.Scan(
			&m.Year, &m.TotalRevenue, &m.EBIT, &m.EBITMarginPercent,
			&m.NetProfit, &m.NetProfitMarginPercent,
			&m.ROEPercent, &m.ROICPercent,
			&m.UpdatedAt, &m.UpdatedBy,
		); err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r ConfigRepository) UpsertYTD(m models.YTDMetrics) error {
	db := r.db()
	res, err := db.Exec(`
		UPDATE ytd_metrics
		SET total_revenue=?, ebit=?, ebit_margin=?, net_profit=?, net_profit_margin=?,
		    roe_percent=?, roic_percent=?, updated_at=NOW(), updated_by=?
		WHERE year=?
	`, m.TotalRevenue, m.EBIT, m.EBITMarginPercent, m.NetProfit, m.NetProfitMarginPercent,
		m.ROEPercent, m.ROICPercent, m.UpdatedBy, m.Year)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		_, err = db.Exec(`
			INSERT INTO ytd_metrics (year, total_revenue, ebit, ebit_margin, net_profit, net_profit_margin, roe_percent, roic_percent, updated_at, updated_by)
			VALUES (?,?,?,?,?,?,?,?,NOW(),?)
		`, m.Year, m.TotalRevenue, m.EBIT, m.EBITMarginPercent, m.NetProfit, m.NetProfitMarginPercent,
			m.ROEPercent, m.ROICPercent, m.UpdatedBy)
	}
	return err
}
