package usecase

import (
	"context"
	"time"

	"giftcard-fulfillment/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork scopes repository calls to a transaction (Within, with retry on
// serialization failures) or to the plain pool (WithDB).
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

// GiftCodeView is the read model of one pool row.
type GiftCodeView struct {
	ID               int64
	Code             string
	Denomination     int
	AssignedOrderRef *string
	AssignedAt       *time.Time
	CreatedAt        time.Time
}

type CodeStatus string

const (
	CodeStatusAny       CodeStatus = ""
	CodeStatusAssigned  CodeStatus = "assigned"
	CodeStatusAvailable CodeStatus = "available"
)

type CodeFilter struct {
	Denomination *int
	Status       CodeStatus
	Limit        int
}

type DenominationCount struct {
	Denomination int
	Total        int64
	Assigned     int64
	Available    int64
}

type GiftCodeRepository interface {
	// LockOrder serializes allocation attempts for one order reference so two
	// concurrent retries of the same webhook cannot both see a zero shortfall
	// as zero. Held until the surrounding transaction ends.
	LockOrder(ctx context.Context, dbtx db.DBTX, orderRef string) error
	CountAssigned(ctx context.Context, dbtx db.DBTX, orderRef string, denomination int) (int, error)
	FindAssigned(ctx context.Context, dbtx db.DBTX, orderRef string) ([]GiftCodeView, error)
	// ClaimNext atomically assigns the oldest unused code of the denomination
	// to orderRef. KindNotFound means the pool is drained.
	ClaimNext(ctx context.Context, dbtx db.DBTX, denomination int, orderRef string) (*GiftCodeView, error)
	InsertBatch(ctx context.Context, dbtx db.DBTX, denomination int, codes []string) (int64, error)
	UpdateDenomination(ctx context.Context, dbtx db.DBTX, id int64, denomination int) error
	List(ctx context.Context, dbtx db.DBTX, filter CodeFilter) ([]GiftCodeView, error)
	CountByDenomination(ctx context.Context, dbtx db.DBTX) ([]DenominationCount, error)
}

type AuditRecord struct {
	ID          uuid.UUID
	EventType   string
	Status      string
	Message     string
	OrderID     string
	OrderSerial string
	Payload     string
	CreatedAt   time.Time
}

// AuditRepository is append-only; records are never updated or deleted here.
type AuditRepository interface {
	Insert(ctx context.Context, dbtx db.DBTX, record AuditRecord) error
	Recent(ctx context.Context, dbtx db.DBTX, limit int) ([]AuditRecord, error)
}

type Attachment struct {
	Filename string
	Content  []byte
}

// VoucherRenderer produces the PDF artifact for one code. Pure; no partial
// output on failure.
type VoucherRenderer interface {
	Render(code string, denomination int) ([]byte, error)
}

type EmailSender interface {
	Deliver(ctx context.Context, to, subject, body string, attachments []Attachment) error
}

// OrderNotes is the shop admin API surface the pipeline writes codes back
// through. IsConfigured reports whether credentials are present; when false
// the note step degrades to a no-op.
type OrderNotes interface {
	IsConfigured() bool
	GetOrderNote(ctx context.Context, orderID string) (string, error)
	SetOrderNote(ctx context.Context, orderID, note string) error
	// AppendOrderNote appends block to the existing note with a separator,
	// never overwriting prior content.
	AppendOrderNote(ctx context.Context, orderID, block string) error
}
