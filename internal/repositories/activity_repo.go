package repositories

import (
	"database/sql"

	"github.com/google/uuid"

	intconfig "fleetops/internal/config"
	"fleetops/internal/domain/models"
	"fleetops/internal/utils"
)

// ActivityRepository is append-only; log lines are never edited.
type ActivityRepository struct {
	DB *sql.DB
}

func (r ActivityRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ActivityRepository) Insert(entry *models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt == "" {
		entry.CreatedAt = utils.NowStamp()
	}
	_, err := r.db().Exec(`
		INSERT INTO activity_logs (id, entity_type, entity_id, action, details, performed_by, created_at)
		VALUES (?,?,?,?,?,?,?)
	`, entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.Details, entry.PerformedBy, entry.CreatedAt)
	return err
}

func (r ActivityRepository) ListByEntity(entityType, entityID string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db().Query(`
		SELECT id, entity_type, entity_id, action, COALESCE(details,''), COALESCE(performed_by,''), created_at
		FROM activity_logs
		WHERE entity_type=? AND entity_id=?
		ORDER BY created_at DESC
		LIMIT ?
	`, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ActivityLog{}
	for rows.Next() {
		var e models.ActivityLog
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Details, &e.PerformedBy, &e.CreatedAt); err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
