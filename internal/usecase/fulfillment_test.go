//go:build unit

package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"giftcard-fulfillment/internal/domain/order"
	"giftcard-fulfillment/internal/pkg/clock"
	"giftcard-fulfillment/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClassifierCfg = order.Config{
	GiftProductID: "77",
	Denominations: []order.Denomination{
		{Value: 100, Label: "100 zł"},
		{Value: 200, Label: "200 zł"},
		{Value: 300, Label: "300 zł"},
	},
}

type fulfillmentFixture struct {
	store    *fakeStore
	renderer *fakeRenderer
	email    *fakeEmailSender
	notes    *fakeOrderNotes
	clk      *clock.MockClock
	uc       usecase.FulfillmentUseCase
}

func newFulfillmentFixture(notesConfigured bool) *fulfillmentFixture {
	store := newFakeStore()
	renderer := &fakeRenderer{failFor: map[string]bool{}}
	email := &fakeEmailSender{}
	notes := newFakeOrderNotes(notesConfigured)
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	allocator := usecase.NewCodeAllocator(store, store)
	uc := usecase.NewFulfillmentUseCase(
		testClassifierCfg, "zł", allocator, renderer, email, notes, store, store, clk)

	return &fulfillmentFixture{
		store:    store,
		renderer: renderer,
		email:    email,
		notes:    notes,
		clk:      clk,
		uc:       uc,
	}
}

func paidGiftOrderPayload(label string, quantity int) map[string]any {
	return map[string]any{
		"order": map[string]any{
			"orderId":           "A1",
			"orderSerialNumber": float64(500),
			"orderDetails": map[string]any{
				"prepaids": []any{
					map[string]any{"paymentStatus": "y"},
				},
				"productsResults": []any{
					map[string]any{
						"productId":       "77",
						"sizePanelName":   label,
						"productQuantity": float64(quantity),
					},
				},
				"clientResult": map[string]any{
					"clientAccountEmail": "jan@example.com",
				},
			},
		},
	}
}

func TestHandleOrderWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("first delivery assigns codes, emails and updates the note", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1", "A-2", "A-3")

		result, err := f.uc.HandleOrderWebhook(ctx, paidGiftOrderPayload("100 zł", 2))

		require.NoError(t, err)
		assert.Equal(t, usecase.StatusProcessed, result.Status)
		assert.Equal(t, "A1", result.OrderID)
		assert.Equal(t, "500", result.OrderSerial)
		require.Len(t, result.AssignedCodes, 2)
		assert.True(t, result.EmailSent)
		assert.True(t, result.NoteUpdated)
		assert.Empty(t, result.Warnings)

		require.Len(t, f.email.sent, 1)
		msg := f.email.sent[0]
		assert.Equal(t, "jan@example.com", msg.to)
		assert.Contains(t, msg.subject, "A1")
		assert.Len(t, msg.attachments, 2)
		assert.Equal(t, "karta_podarunkowa_1.pdf", msg.attachments[0].Filename)
		assert.Contains(t, msg.body, result.AssignedCodes[0].Code)

		require.Len(t, f.notes.appended["A1"], 1)
		assert.Contains(t, f.notes.appended["A1"][0], "KARTA PODARUNKOWA:")
		assert.Contains(t, f.notes.appended["A1"][0], result.AssignedCodes[0].Code)

		require.Len(t, f.store.audit, 1)
		record := f.store.audit[0]
		assert.Equal(t, usecase.StatusProcessed, record.Status)
		assert.Equal(t, "order_webhook", record.EventType)
		assert.Equal(t, f.clk.Now(), record.CreatedAt)
		assert.NotEmpty(t, record.Payload)
	})

	t.Run("identical redelivery assigns nothing and sends no second email", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1", "A-2", "A-3", "A-4")

		payload := paidGiftOrderPayload("100 zł", 2)

		first, err := f.uc.HandleOrderWebhook(ctx, payload)
		require.NoError(t, err)
		require.Len(t, first.AssignedCodes, 2)

		second, err := f.uc.HandleOrderWebhook(ctx, payload)
		require.NoError(t, err)
		assert.Equal(t, usecase.StatusProcessed, second.Status)
		assert.Empty(t, second.AssignedCodes)
		assert.False(t, second.EmailSent)
		assert.False(t, second.NoteUpdated)

		assert.Len(t, f.email.sent, 1)
		assert.Len(t, f.notes.appended["A1"], 1)
		assert.Len(t, f.store.audit, 2)
	})

	t.Run("unpaid order is ignored", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1")

		payload := paidGiftOrderPayload("100 zł", 1)
		env := payload["order"].(map[string]any)
		details := env["orderDetails"].(map[string]any)
		details["prepaids"] = []any{map[string]any{"paymentStatus": "n"}}

		result, err := f.uc.HandleOrderWebhook(ctx, payload)

		require.NoError(t, err)
		assert.Equal(t, usecase.StatusIgnoredUnpaid, result.Status)
		assert.Empty(t, f.store.assignedTo("500"))
		assert.Empty(t, f.email.sent)

		require.Len(t, f.store.audit, 1)
		assert.Equal(t, usecase.StatusIgnoredUnpaid, f.store.audit[0].Status)
	})

	t.Run("order without gift lines is ignored", func(t *testing.T) {
		f := newFulfillmentFixture(true)

		payload := paidGiftOrderPayload("100 zł", 1)
		env := payload["order"].(map[string]any)
		details := env["orderDetails"].(map[string]any)
		details["productsResults"] = []any{
			map[string]any{"productId": "12", "sizePanelName": "L", "productQuantity": float64(1)},
		}

		result, err := f.uc.HandleOrderWebhook(ctx, payload)

		require.NoError(t, err)
		assert.Equal(t, usecase.StatusIgnoredNoGiftline, result.Status)
		require.Len(t, f.store.audit, 1)
		assert.Equal(t, usecase.StatusIgnoredNoGiftline, f.store.audit[0].Status)
	})

	t.Run("unrecognizable payload fails with ErrNoOrder and is audited", func(t *testing.T) {
		f := newFulfillmentFixture(true)

		_, err := f.uc.HandleOrderWebhook(ctx, map[string]any{"ping": "pong"})

		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrNoOrder)
		require.Len(t, f.store.audit, 1)
		assert.Equal(t, usecase.StatusIgnoredNoOrder, f.store.audit[0].Status)
	})

	t.Run("drained pool fails the delivery and audits the failure", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1")

		_, err := f.uc.HandleOrderWebhook(ctx, paidGiftOrderPayload("100 zł", 2))

		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrPoolExhausted)
		assert.Empty(t, f.store.assignedTo("500"))
		assert.Empty(t, f.email.sent)

		require.Len(t, f.store.audit, 1)
		assert.Equal(t, usecase.StatusAllocationFailed, f.store.audit[0].Status)
	})

	t.Run("render failure drops the attachment but not the email", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1", "A-2")
		f.renderer.failFor["A-1"] = true

		result, err := f.uc.HandleOrderWebhook(ctx, paidGiftOrderPayload("100 zł", 2))

		require.NoError(t, err)
		assert.Equal(t, usecase.StatusProcessed, result.Status)
		assert.True(t, result.EmailSent)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "render failed")

		require.Len(t, f.email.sent, 1)
		assert.Len(t, f.email.sent[0].attachments, 1)
	})

	t.Run("email is held back when every render fails", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1", "A-2")
		f.renderer.failFor["A-1"] = true
		f.renderer.failFor["A-2"] = true

		result, err := f.uc.HandleOrderWebhook(ctx, paidGiftOrderPayload("100 zł", 2))

		require.NoError(t, err)
		assert.Equal(t, usecase.StatusProcessed, result.Status)
		assert.False(t, result.EmailSent)
		assert.Empty(t, f.email.sent)
		require.Len(t, result.Warnings, 3)
		assert.Contains(t, result.Warnings[2], "email not sent")
		assert.Len(t, f.store.assignedTo("500"), 2)
	})

	t.Run("email failure keeps the allocation and surfaces a warning", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1")
		f.email.err = assert.AnError

		result, err := f.uc.HandleOrderWebhook(ctx, paidGiftOrderPayload("100 zł", 1))

		require.NoError(t, err)
		assert.Equal(t, usecase.StatusProcessed, result.Status)
		assert.False(t, result.EmailSent)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "email delivery failed")
		assert.Len(t, f.store.assignedTo("500"), 1)
	})

	t.Run("note step is skipped when the shop API is not configured", func(t *testing.T) {
		f := newFulfillmentFixture(false)
		f.store.addCodes(100, "A-1")

		result, err := f.uc.HandleOrderWebhook(ctx, paidGiftOrderPayload("100 zł", 1))

		require.NoError(t, err)
		assert.Equal(t, usecase.StatusProcessed, result.Status)
		assert.False(t, result.NoteUpdated)
		assert.Empty(t, f.notes.appended)
	})

	t.Run("oversized payload is snapshotted as valid UTF-8", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1")

		payload := paidGiftOrderPayload("100 zł", 1)
		// The odd-length prefix pushes the two-byte runes onto odd offsets,
		// so a fixed-size cut always lands inside one of them.
		payload["comment"] = "x" + strings.Repeat("ł", 4096)

		_, err := f.uc.HandleOrderWebhook(ctx, payload)
		require.NoError(t, err)

		require.Len(t, f.store.audit, 1)
		snapshot := f.store.audit[0].Payload
		assert.True(t, utf8.ValidString(snapshot))
		assert.NotEmpty(t, snapshot)
		assert.LessOrEqual(t, len(snapshot), 4096)
	})

	t.Run("note failure surfaces as warning, not error", func(t *testing.T) {
		f := newFulfillmentFixture(true)
		f.store.addCodes(100, "A-1")
		f.notes.err = assert.AnError

		result, err := f.uc.HandleOrderWebhook(ctx, paidGiftOrderPayload("100 zł", 1))

		require.NoError(t, err)
		assert.Equal(t, usecase.StatusProcessed, result.Status)
		assert.False(t, result.NoteUpdated)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[len(result.Warnings)-1], "order note update failed")
	})
}
