package repository

import (
	"context"

	"giftcard-fulfillment/internal/infra"
	"giftcard-fulfillment/internal/infra/db"
	"giftcard-fulfillment/internal/usecase"
)

type AuditRepository struct{}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(ctx context.Context, dbtx db.DBTX, record usecase.AuditRecord) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO webhook_events (id, event_type, status, message, order_id, order_serial, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.EventType, record.Status, record.Message,
		record.OrderID, record.OrderSerial, record.Payload, record.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert audit record", err)
	}
	return nil
}

func (r *AuditRepository) Recent(ctx context.Context, dbtx db.DBTX, limit int) ([]usecase.AuditRecord, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT id, event_type, status, message, order_id, order_serial, payload, created_at
		FROM webhook_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query audit records", err)
	}
	defer rows.Close()

	var records []usecase.AuditRecord
	for rows.Next() {
		var record usecase.AuditRecord
		if err := rows.Scan(&record.ID, &record.EventType, &record.Status, &record.Message,
			&record.OrderID, &record.OrderSerial, &record.Payload, &record.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan audit record", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read audit records", err)
	}
	return records, nil
}
