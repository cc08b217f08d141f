//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"giftcard-fulfillment/internal/infra"
	"giftcard-fulfillment/internal/infra/db"
	"giftcard-fulfillment/internal/usecase"
)

// fakeStore is an in-memory stand-in for the pool and audit tables plus the
// unit of work. Within serializes callers on one mutex, which models both the
// transaction and the per-order advisory lock, and rolls the rows back when
// the callback fails.
type fakeStore struct {
	mu     sync.Mutex
	rows   []poolRow
	nextID int64
	audit  []usecase.AuditRecord

	withinErr error
}

type poolRow struct {
	id           int64
	code         string
	denomination int
	orderRef     *string
	assignedAt   *time.Time
	createdAt    time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (s *fakeStore) addCodes(denomination int, codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range codes {
		s.rows = append(s.rows, poolRow{
			id:           s.nextID,
			code:         code,
			denomination: denomination,
			createdAt:    time.Now(),
		})
		s.nextID++
	}
}

func (s *fakeStore) assignedTo(orderRef string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var codes []string
	for _, row := range s.rows {
		if row.orderRef != nil && *row.orderRef == orderRef {
			codes = append(codes, row.code)
		}
	}
	return codes
}

// UnitOfWork

func (s *fakeStore) Within(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.withinErr != nil {
		return s.withinErr
	}

	snapshot := make([]poolRow, len(s.rows))
	copy(snapshot, s.rows)

	if err := fn(ctx, nil); err != nil {
		s.rows = snapshot
		return err
	}
	return nil
}

func (s *fakeStore) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

// GiftCodeRepository

func (s *fakeStore) LockOrder(_ context.Context, _ db.DBTX, _ string) error {
	return nil
}

func (s *fakeStore) CountAssigned(_ context.Context, _ db.DBTX, orderRef string, denomination int) (int, error) {
	count := 0
	for _, row := range s.rows {
		if row.orderRef != nil && *row.orderRef == orderRef && row.denomination == denomination {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) FindAssigned(_ context.Context, _ db.DBTX, orderRef string) ([]usecase.GiftCodeView, error) {
	var views []usecase.GiftCodeView
	for _, row := range s.rows {
		if row.orderRef != nil && *row.orderRef == orderRef {
			views = append(views, rowToView(row))
		}
	}
	return views, nil
}

func (s *fakeStore) ClaimNext(_ context.Context, _ db.DBTX, denomination int, orderRef string) (*usecase.GiftCodeView, error) {
	for i := range s.rows {
		row := &s.rows[i]
		if row.orderRef == nil && row.denomination == denomination {
			ref := orderRef
			now := time.Now()
			row.orderRef = &ref
			row.assignedAt = &now
			view := rowToView(*row)
			return &view, nil
		}
	}
	return nil, infra.WrapRepoErr("no available code", errors.New("no rows"), infra.KindNotFound)
}

func (s *fakeStore) InsertBatch(_ context.Context, _ db.DBTX, denomination int, codes []string) (int64, error) {
	existing := make(map[string]bool, len(s.rows))
	for _, row := range s.rows {
		existing[row.code] = true
	}

	var inserted int64
	for _, code := range codes {
		if existing[code] {
			continue
		}
		existing[code] = true
		s.rows = append(s.rows, poolRow{
			id:           s.nextID,
			code:         code,
			denomination: denomination,
			createdAt:    time.Now(),
		})
		s.nextID++
		inserted++
	}
	return inserted, nil
}

func (s *fakeStore) UpdateDenomination(_ context.Context, _ db.DBTX, id int64, denomination int) error {
	for i := range s.rows {
		if s.rows[i].id != id {
			continue
		}
		if s.rows[i].orderRef != nil {
			return infra.WrapRepoErr("code already assigned", errors.New("conflict"), infra.KindConflict)
		}
		s.rows[i].denomination = denomination
		return nil
	}
	return infra.WrapRepoErr("code not found", errors.New("no rows"), infra.KindNotFound)
}

func (s *fakeStore) List(_ context.Context, _ db.DBTX, filter usecase.CodeFilter) ([]usecase.GiftCodeView, error) {
	var views []usecase.GiftCodeView
	for _, row := range s.rows {
		if filter.Denomination != nil && row.denomination != *filter.Denomination {
			continue
		}
		if filter.Status == usecase.CodeStatusAssigned && row.orderRef == nil {
			continue
		}
		if filter.Status == usecase.CodeStatusAvailable && row.orderRef != nil {
			continue
		}
		views = append(views, rowToView(row))
		if filter.Limit > 0 && len(views) == filter.Limit {
			break
		}
	}
	return views, nil
}

func (s *fakeStore) CountByDenomination(_ context.Context, _ db.DBTX) ([]usecase.DenominationCount, error) {
	byDenom := map[int]*usecase.DenominationCount{}
	var order []int
	for _, row := range s.rows {
		count, ok := byDenom[row.denomination]
		if !ok {
			count = &usecase.DenominationCount{Denomination: row.denomination}
			byDenom[row.denomination] = count
			order = append(order, row.denomination)
		}
		count.Total++
		if row.orderRef != nil {
			count.Assigned++
		} else {
			count.Available++
		}
	}
	counts := make([]usecase.DenominationCount, 0, len(order))
	for _, d := range order {
		counts = append(counts, *byDenom[d])
	}
	return counts, nil
}

// AuditRepository

func (s *fakeStore) Insert(_ context.Context, _ db.DBTX, record usecase.AuditRecord) error {
	s.audit = append(s.audit, record)
	return nil
}

func (s *fakeStore) Recent(_ context.Context, _ db.DBTX, limit int) ([]usecase.AuditRecord, error) {
	records := make([]usecase.AuditRecord, 0, limit)
	for i := len(s.audit) - 1; i >= 0 && len(records) < limit; i-- {
		records = append(records, s.audit[i])
	}
	return records, nil
}

func rowToView(row poolRow) usecase.GiftCodeView {
	return usecase.GiftCodeView{
		ID:               row.id,
		Code:             row.code,
		Denomination:     row.denomination,
		AssignedOrderRef: row.orderRef,
		AssignedAt:       row.assignedAt,
		CreatedAt:        row.createdAt,
	}
}

// retryingUoW mirrors the postgres unit of work's serialization retry: the
// first attempt is rolled back and the callback is invoked a second time
// against the restored rows.
type retryingUoW struct {
	store    *fakeStore
	attempts int
}

func (u *retryingUoW) Within(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snapshot := make([]poolRow, len(u.store.rows))
	copy(snapshot, u.store.rows)

	u.attempts++
	_ = fn(ctx, nil)
	u.store.rows = snapshot

	snapshot = make([]poolRow, len(u.store.rows))
	copy(snapshot, u.store.rows)

	u.attempts++
	if err := fn(ctx, nil); err != nil {
		u.store.rows = snapshot
		return err
	}
	return nil
}

func (u *retryingUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

// fakeRenderer renders a predictable marker instead of a real document.
type fakeRenderer struct {
	failFor map[string]bool
	calls   int
}

func (r *fakeRenderer) Render(code string, denomination int) ([]byte, error) {
	r.calls++
	if r.failFor[code] {
		return nil, errors.New("render broken")
	}
	return []byte(fmt.Sprintf("pdf:%s:%d", code, denomination)), nil
}

type sentEmail struct {
	to          string
	subject     string
	body        string
	attachments []usecase.Attachment
}

type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) Deliver(_ context.Context, to, subject, body string, attachments []usecase.Attachment) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: body, attachments: attachments})
	return nil
}

type fakeOrderNotes struct {
	configured bool
	appended   map[string][]string
	err        error
}

func newFakeOrderNotes(configured bool) *fakeOrderNotes {
	return &fakeOrderNotes{configured: configured, appended: map[string][]string{}}
}

func (f *fakeOrderNotes) IsConfigured() bool { return f.configured }

func (f *fakeOrderNotes) GetOrderNote(_ context.Context, orderID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "", nil
}

func (f *fakeOrderNotes) SetOrderNote(_ context.Context, orderID, note string) error {
	if f.err != nil {
		return f.err
	}
	f.appended[orderID] = append(f.appended[orderID], note)
	return nil
}

func (f *fakeOrderNotes) AppendOrderNote(_ context.Context, orderID, block string) error {
	if f.err != nil {
		return f.err
	}
	f.appended[orderID] = append(f.appended[orderID], block)
	return nil
}
