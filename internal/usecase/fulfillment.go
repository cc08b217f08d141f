package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"giftcard-fulfillment/internal/domain/order"
	"giftcard-fulfillment/internal/infra/db"
	"giftcard-fulfillment/internal/pkg/clock"
	"giftcard-fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	StatusProcessed         = "processed"
	StatusIgnoredNoOrder    = "ignored_no_order"
	StatusIgnoredUnpaid     = "ignored_unpaid"
	StatusIgnoredNoGiftline = "ignored_no_giftlines"
	StatusAllocationFailed  = "allocation_failed"

	webhookEventType = "order_webhook"

	// payloadSnapshotLimit bounds the audit copy of the raw payload.
	payloadSnapshotLimit = 4096
)

type FulfillmentResult struct {
	Status        string
	OrderID       string
	OrderSerial   string
	AssignedCodes []AssignedCode
	EmailSent     bool
	NoteUpdated   bool
	Warnings      []string
}

// FulfillmentUseCase drives one webhook delivery end to end: classify, check
// paid, allocate, render, email, write the order note, audit. Exactly one
// audit record is written per invocation.
type FulfillmentUseCase interface {
	HandleOrderWebhook(ctx context.Context, payload map[string]any) (*FulfillmentResult, error)
}

type fulfillmentImpl struct {
	classifierCfg order.Config
	currency      string
	allocator     CodeAllocator
	renderer      VoucherRenderer
	email         EmailSender
	notes         OrderNotes
	uow           UnitOfWork
	auditRepo     AuditRepository
	clock         clock.Clock
}

func NewFulfillmentUseCase(
	classifierCfg order.Config,
	currency string,
	allocator CodeAllocator,
	renderer VoucherRenderer,
	email EmailSender,
	notes OrderNotes,
	uow UnitOfWork,
	auditRepo AuditRepository,
	clk clock.Clock,
) FulfillmentUseCase {
	return &fulfillmentImpl{
		classifierCfg: classifierCfg,
		currency:      currency,
		allocator:     allocator,
		renderer:      renderer,
		email:         email,
		notes:         notes,
		uow:           uow,
		auditRepo:     auditRepo,
		clock:         clk,
	}
}

func (f *fulfillmentImpl) HandleOrderWebhook(ctx context.Context, payload map[string]any) (*FulfillmentResult, error) {
	snapshot := payloadSnapshot(payload)

	req, err := order.Classify(payload, f.classifierCfg)
	if err != nil {
		f.writeAudit(ctx, AuditRecord{
			Status:  StatusIgnoredNoOrder,
			Message: "payload contains no recognizable order",
			Payload: snapshot,
		})
		return nil, errs.Mark(err, ErrNoOrder)
	}

	for _, diag := range req.Diagnostics {
		slog.Warn("classifier diagnostic", "order_serial", req.OrderSerial, "detail", diag)
	}

	result := &FulfillmentResult{
		OrderID:     req.OrderID,
		OrderSerial: req.OrderSerial,
	}

	if !req.Paid {
		result.Status = StatusIgnoredUnpaid
		f.writeAudit(ctx, AuditRecord{
			Status:      StatusIgnoredUnpaid,
			Message:     "order not paid, nothing allocated",
			OrderID:     req.OrderID,
			OrderSerial: req.OrderSerial,
			Payload:     snapshot,
		})
		return result, nil
	}

	if len(req.GiftLines) == 0 {
		result.Status = StatusIgnoredNoGiftline
		f.writeAudit(ctx, AuditRecord{
			Status:      StatusIgnoredNoGiftline,
			Message:     "no gift-card lines in order",
			OrderID:     req.OrderID,
			OrderSerial: req.OrderSerial,
			Payload:     snapshot,
		})
		return result, nil
	}

	assigned, err := f.allocator.AllocateOrder(ctx, req.OrderSerial, req.GiftLines)
	if err != nil {
		f.writeAudit(ctx, AuditRecord{
			Status:      StatusAllocationFailed,
			Message:     err.Error(),
			OrderID:     req.OrderID,
			OrderSerial: req.OrderSerial,
			Payload:     snapshot,
		})
		return nil, err
	}

	result.Status = StatusProcessed
	result.AssignedCodes = assigned

	// Empty assigned set means a retry that was already fulfilled; skipping
	// notification here is what prevents duplicate customer emails.
	if len(assigned) > 0 && req.CustomerEmail != "" {
		f.notifyCustomer(ctx, req, assigned, result)
	}

	if len(assigned) > 0 && f.notes.IsConfigured() {
		f.updateOrderNote(ctx, req, assigned, result)
	}

	f.writeAudit(ctx, AuditRecord{
		Status:      StatusProcessed,
		Message:     f.processedMessage(result),
		OrderID:     req.OrderID,
		OrderSerial: req.OrderSerial,
		Payload:     snapshot,
	})

	return result, nil
}

// notifyCustomer renders one PDF per newly assigned code and sends a single
// email. A failed render drops that attachment only; a failed delivery leaves
// the allocation committed. Both surface as warnings, never as pipeline
// errors.
func (f *fulfillmentImpl) notifyCustomer(ctx context.Context, req *order.FulfillmentRequest, assigned []AssignedCode, result *FulfillmentResult) {
	attachments := make([]Attachment, 0, len(assigned))
	for i, code := range assigned {
		content, err := f.renderer.Render(code.Code, code.Denomination)
		if err != nil {
			warning := fmt.Sprintf("render failed for code %s: %v", code.Code, err)
			result.Warnings = append(result.Warnings, warning)
			slog.Error("voucher render failed",
				"order_serial", req.OrderSerial,
				"denomination", code.Denomination,
				"error", err)
			continue
		}
		attachments = append(attachments, Attachment{
			Filename: fmt.Sprintf("karta_podarunkowa_%d.pdf", i+1),
			Content:  content,
		})
	}

	// The body promises attached vouchers; with nothing rendered the email
	// would be an empty promise, so it is held back instead.
	if len(attachments) == 0 {
		result.Warnings = append(result.Warnings, "no voucher rendered, email not sent")
		slog.Error("no voucher rendered, holding back email",
			"order_serial", req.OrderSerial,
			"to", req.CustomerEmail)
		return
	}

	subject := fmt.Sprintf("Twoja karta podarunkowa – zamówienie %s", req.OrderID)
	if err := f.email.Deliver(ctx, req.CustomerEmail, subject, f.emailBody(assigned), attachments); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("email delivery failed: %v", err))
		slog.Error("gift card email delivery failed",
			"order_serial", req.OrderSerial,
			"to", req.CustomerEmail,
			"error", err)
		return
	}

	result.EmailSent = true
}

func (f *fulfillmentImpl) emailBody(assigned []AssignedCode) string {
	lines := []string{
		"Dziękujemy za zakup karty podarunkowej w sklepie Wassyl!",
		"",
		"W załączniku znajdziesz swoje karty w formacie PDF.",
		"",
		"Podsumowanie kart:",
	}
	for _, code := range assigned {
		lines = append(lines, fmt.Sprintf("- %d %s – kod: %s", code.Denomination, f.currency, code.Code))
	}
	lines = append(lines, "", "Miłych zakupów!")
	return strings.Join(lines, "\n")
}

func (f *fulfillmentImpl) updateOrderNote(ctx context.Context, req *order.FulfillmentRequest, assigned []AssignedCode, result *FulfillmentResult) {
	orderID := req.OrderID
	if orderID == "" {
		orderID = req.OrderSerial
	}

	lines := []string{"KARTA PODARUNKOWA:"}
	for _, code := range assigned {
		lines = append(lines, fmt.Sprintf("– Kod: %s (%d %s)", code.Code, code.Denomination, f.currency))
	}

	if err := f.notes.AppendOrderNote(ctx, orderID, strings.Join(lines, "\n")); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("order note update failed: %v", err))
		slog.Error("order note update failed",
			"order_id", orderID,
			"error", err)
		return
	}

	result.NoteUpdated = true
}

func (f *fulfillmentImpl) processedMessage(result *FulfillmentResult) string {
	msg := fmt.Sprintf("assigned %d new code(s), email_sent=%t, note_updated=%t",
		len(result.AssignedCodes), result.EmailSent, result.NoteUpdated)
	if len(result.Warnings) > 0 {
		msg += "; warnings: " + strings.Join(result.Warnings, "; ")
	}
	return msg
}

// writeAudit must never mask the primary outcome: failures are logged and
// dropped.
func (f *fulfillmentImpl) writeAudit(ctx context.Context, record AuditRecord) {
	record.ID = uuid.New()
	record.EventType = webhookEventType
	record.CreatedAt = f.clock.Now()

	err := f.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		return f.auditRepo.Insert(ctx, dbtx, record)
	})
	if err != nil {
		slog.Error("failed to write audit record",
			"status", record.Status,
			"order_serial", record.OrderSerial,
			"error", err)
	}
}

func payloadSnapshot(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	if len(data) <= payloadSnapshotLimit {
		return string(data)
	}

	// Cut back to a rune boundary; a snapshot split inside a multi-byte rune
	// is not valid UTF-8 and postgres would reject the audit insert.
	cut := payloadSnapshotLimit
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return string(data[:cut])
}
