package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"points_economy/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository persists the admin action trail.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// AuditFilter narrows List. Zero values mean "any".
type AuditFilter struct {
	ActorID  int64
	Category string
	Limit    int
}

func (r *AuditRepository) Insert(ctx context.Context, log *domain.AuditLog) error {
	details, err := json.Marshal(log.Details)
	if err != nil {
		details = []byte("{}")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_logs (actor_id, action, category, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ActorID, log.Action, log.Category, details, log.IP, log.UserAgent)
	return err
}

// List returns audit rows newest first.
func (r *AuditRepository) List(ctx context.Context, f AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT id, actor_id, action, category, details, ip, user_agent, created_at
		FROM audit_logs WHERE 1=1`
	args := []any{}

	if f.ActorID != 0 {
		args = append(args, f.ActorID)
		query += fmt.Sprintf(` AND actor_id = $%d`, len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		var details []byte
		if err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.Category, &details,
			&l.IP, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(details, &l.Details); err != nil {
			l.Details = map[string]any{}
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
