package repository

import (
	"context"
	"errors"
	"fmt"

	"giftcard-fulfillment/internal/infra"
	"giftcard-fulfillment/internal/infra/db"
	"giftcard-fulfillment/internal/usecase"

	"github.com/jackc/pgx/v5"
)

type GiftCodeRepository struct{}

func NewGiftCodeRepository() *GiftCodeRepository {
	return &GiftCodeRepository{}
}

// LockOrder takes a transaction-scoped advisory lock keyed on the order
// reference. Two deliveries of the same webhook serialize here instead of
// both reading a stale assigned count.
func (r *GiftCodeRepository) LockOrder(ctx context.Context, dbtx db.DBTX, orderRef string) error {
	_, err := dbtx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, orderRef)
	if err != nil {
		return infra.WrapRepoErr("failed to lock order reference", err)
	}
	return nil
}

func (r *GiftCodeRepository) CountAssigned(ctx context.Context, dbtx db.DBTX, orderRef string, denomination int) (int, error) {
	var count int
	err := dbtx.QueryRow(ctx, `
		SELECT count(*)
		FROM gift_codes
		WHERE assigned_order_ref = $1 AND denomination = $2`,
		orderRef, denomination,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count assigned codes", err)
	}
	return count, nil
}

func (r *GiftCodeRepository) FindAssigned(ctx context.Context, dbtx db.DBTX, orderRef string) ([]usecase.GiftCodeView, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT id, code, denomination, assigned_order_ref, assigned_at, created_at
		FROM gift_codes
		WHERE assigned_order_ref = $1
		ORDER BY id`,
		orderRef,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find assigned codes", err)
	}
	defer rows.Close()

	return collectCodeViews(rows)
}

// ClaimNext is the atomic compare-and-claim primitive: the inner select picks
// the oldest unused code of the denomination, SKIP LOCKED steps over rows a
// concurrent claim is holding, and the update publishes the assignment. No
// candidate row means the pool is drained.
func (r *GiftCodeRepository) ClaimNext(ctx context.Context, dbtx db.DBTX, denomination int, orderRef string) (*usecase.GiftCodeView, error) {
	var view usecase.GiftCodeView
	err := dbtx.QueryRow(ctx, `
		UPDATE gift_codes
		SET assigned_order_ref = $2, assigned_at = now()
		WHERE id = (
			SELECT id
			FROM gift_codes
			WHERE denomination = $1 AND assigned_order_ref IS NULL
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, code, denomination, assigned_order_ref, assigned_at, created_at`,
		denomination, orderRef,
	).Scan(&view.ID, &view.Code, &view.Denomination, &view.AssignedOrderRef, &view.AssignedAt, &view.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("no unused code available", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to claim code", err)
	}
	return &view, nil
}

func (r *GiftCodeRepository) InsertBatch(ctx context.Context, dbtx db.DBTX, denomination int, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	tag, err := dbtx.Exec(ctx, `
		INSERT INTO gift_codes (code, denomination)
		SELECT unnest($1::text[]), $2
		ON CONFLICT (code) DO NOTHING`,
		codes, denomination,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to insert codes", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateDenomination only touches unassigned rows; an assigned code reports
// KindConflict so the caller can distinguish it from a missing ID.
func (r *GiftCodeRepository) UpdateDenomination(ctx context.Context, dbtx db.DBTX, id int64, denomination int) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE gift_codes
		SET denomination = $2
		WHERE id = $1 AND assigned_order_ref IS NULL`,
		id, denomination,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update denomination", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var assigned bool
	err = dbtx.QueryRow(ctx, `SELECT assigned_order_ref IS NOT NULL FROM gift_codes WHERE id = $1`, id).Scan(&assigned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return infra.WrapRepoErr("code not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to inspect code", err)
	}
	if assigned {
		return infra.WrapRepoErr("code already assigned", nil, infra.KindConflict)
	}
	return infra.WrapRepoErr("code not found", nil, infra.KindNotFound)
}

func (r *GiftCodeRepository) List(ctx context.Context, dbtx db.DBTX, filter usecase.CodeFilter) ([]usecase.GiftCodeView, error) {
	query := `
		SELECT id, code, denomination, assigned_order_ref, assigned_at, created_at
		FROM gift_codes`
	var conditions []string
	var args []any

	if filter.Denomination != nil {
		args = append(args, *filter.Denomination)
		conditions = append(conditions, fmt.Sprintf("denomination = $%d", len(args)))
	}
	switch filter.Status {
	case usecase.CodeStatusAssigned:
		conditions = append(conditions, "assigned_order_ref IS NOT NULL")
	case usecase.CodeStatusAvailable:
		conditions = append(conditions, "assigned_order_ref IS NULL")
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list codes", err)
	}
	defer rows.Close()

	return collectCodeViews(rows)
}

func (r *GiftCodeRepository) CountByDenomination(ctx context.Context, dbtx db.DBTX) ([]usecase.DenominationCount, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT denomination, count(*), count(assigned_order_ref)
		FROM gift_codes
		GROUP BY denomination
		ORDER BY denomination`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count codes per denomination", err)
	}
	defer rows.Close()

	var counts []usecase.DenominationCount
	for rows.Next() {
		var c usecase.DenominationCount
		if err := rows.Scan(&c.Denomination, &c.Total, &c.Assigned); err != nil {
			return nil, infra.WrapRepoErr("failed to scan denomination count", err)
		}
		c.Available = c.Total - c.Assigned
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read denomination counts", err)
	}
	return counts, nil
}

func collectCodeViews(rows pgx.Rows) ([]usecase.GiftCodeView, error) {
	var views []usecase.GiftCodeView
	for rows.Next() {
		var view usecase.GiftCodeView
		if err := rows.Scan(&view.ID, &view.Code, &view.Denomination, &view.AssignedOrderRef, &view.AssignedAt, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan code row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read code rows", err)
	}
	return views, nil
}
