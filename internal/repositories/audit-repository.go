package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepositoryInterface interface {
	Insert(ctx context.Context, eventType string, actorID uint64, targetID uint64, details map[string]interface{}) error
}

type auditRepository struct {
	storage *pgxpool.Pool
}

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &auditRepository{storage: storage}
}

func (r *auditRepository) Insert(ctx context.Context, eventType string, actorID uint64, targetID uint64, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	_, err = r.storage.Exec(ctx, `
		INSERT INTO audit_events (event_type, actor_id, target_id, details)
		VALUES ($1, $2, $3, $4)`,
		eventType, actorID, targetID, payload,
	)
	return err
}
