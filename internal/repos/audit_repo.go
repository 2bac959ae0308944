package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"twinkle/internal/domain"
)

// AuditRepo is append-only: rows are never updated or deleted.
type AuditRepo struct{ db *sqlx.DB }

func NewAuditRepo(db *sqlx.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Append(userID, userName, action string) error {
	_, err := r.db.Exec(`
	  INSERT INTO audit_logs(id, user_id, user_name, action, created_at)
	  VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, uuid.NewString(), userID, userName, action)
	return err
}

func (r *AuditRepo) ListLatest(limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 200
	}
	var out []domain.AuditLog
	err := r.db.Select(&out, `
	  SELECT id, user_id, user_name, action, created_at
	  FROM audit_logs
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ?
	`, limit)
	return out, err
}
