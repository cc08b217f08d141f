package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"giftcard-fulfillment/internal/domain/giftcode"
	"giftcard-fulfillment/internal/infra"
	"giftcard-fulfillment/internal/infra/db"
	"giftcard-fulfillment/internal/pkg/errs"
)

// PoolUseCase is the administrative surface behind the dashboard: inventory,
// code import, corrections, manual issuance, export and audit inspection.
type PoolUseCase interface {
	ImportCodes(ctx context.Context, denomination int, codes []string) (int64, error)
	CorrectDenomination(ctx context.Context, id int64, denomination int) error
	IssueManual(ctx context.Context, orderRef string, denomination int) (*ManualIssueResult, error)
	ListCodes(ctx context.Context, filter CodeFilter) ([]GiftCodeView, error)
	Counts(ctx context.Context) ([]DenominationCount, error)
	ExportCodes(ctx context.Context) ([]byte, error)
	RecentAudit(ctx context.Context, limit int) ([]AuditRecord, error)
}

type poolUseCaseImpl struct {
	uow       UnitOfWork
	codes     GiftCodeRepository
	audit     AuditRepository
	allocator CodeAllocator
}

func NewPoolUseCase(uow UnitOfWork, codes GiftCodeRepository, audit AuditRepository, allocator CodeAllocator) PoolUseCase {
	return &poolUseCaseImpl{
		uow:       uow,
		codes:     codes,
		audit:     audit,
		allocator: allocator,
	}
}

// ImportCodes inserts new unused codes; duplicates already in the pool are
// silently skipped. Returns the number actually inserted.
func (p *poolUseCaseImpl) ImportCodes(ctx context.Context, denomination int, codes []string) (int64, error) {
	cleaned := make([]string, 0, len(codes))
	for _, raw := range codes {
		entity, err := giftcode.New(0, raw, denomination, nil, nil, time.Time{})
		if err != nil {
			return 0, err
		}
		cleaned = append(cleaned, entity.Code())
	}

	var inserted int64
	err := p.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		n, err := p.codes.InsertBatch(ctx, dbtx, denomination, cleaned)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (p *poolUseCaseImpl) CorrectDenomination(ctx context.Context, id int64, denomination int) error {
	if denomination <= 0 {
		return giftcode.ErrInvalidDenomination
	}

	return p.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		err := p.codes.UpdateDenomination(ctx, dbtx, id, denomination)
		switch {
		case err == nil:
			return nil
		case infra.IsKind(err, infra.KindNotFound):
			return ErrCodeNotFound
		case infra.IsKind(err, infra.KindConflict):
			return ErrCodeAlreadyAssigned
		default:
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
	})
}

func (p *poolUseCaseImpl) IssueManual(ctx context.Context, orderRef string, denomination int) (*ManualIssueResult, error) {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return nil, errs.New("order reference cannot be empty")
	}
	return p.allocator.IssueManual(ctx, orderRef, denomination)
}

func (p *poolUseCaseImpl) ListCodes(ctx context.Context, filter CodeFilter) ([]GiftCodeView, error) {
	var views []GiftCodeView
	err := p.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		views, err = p.codes.List(ctx, dbtx, filter)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return views, nil
}

func (p *poolUseCaseImpl) Counts(ctx context.Context) ([]DenominationCount, error) {
	var counts []DenominationCount
	err := p.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		counts, err = p.codes.CountByDenomination(ctx, dbtx)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return counts, nil
}

// ExportCodes renders the whole pool as semicolon-delimited text, the format
// the dashboard offers for download.
func (p *poolUseCaseImpl) ExportCodes(ctx context.Context) ([]byte, error) {
	views, err := p.ListCodes(ctx, CodeFilter{})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write([]string{"code", "denomination", "assigned_order_ref", "created_at"}); err != nil {
		return nil, errs.Wrap(err, "failed to write export header")
	}
	for _, v := range views {
		ref := ""
		if v.AssignedOrderRef != nil {
			ref = *v.AssignedOrderRef
		}
		record := []string{v.Code, strconv.Itoa(v.Denomination), ref, v.CreatedAt.Format(time.RFC3339)}
		if err := w.Write(record); err != nil {
			return nil, errs.Wrap(err, "failed to write export record")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errs.Wrap(err, "failed to flush export")
	}

	return buf.Bytes(), nil
}

func (p *poolUseCaseImpl) RecentAudit(ctx context.Context, limit int) ([]AuditRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var records []AuditRecord
	err := p.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		records, err = p.audit.Recent(ctx, dbtx, limit)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return records, nil
}
