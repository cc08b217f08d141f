package response

import (
	"time"

	"giftcard-fulfillment/internal/usecase"

	"github.com/google/uuid"
)

type AuditRecordResponse struct {
	ID          uuid.UUID `json:"id"`
	EventType   string    `json:"eventType"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	OrderID     string    `json:"orderId"`
	OrderSerial string    `json:"orderSerialNumber"`
	Payload     string    `json:"payload"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromAuditRecords(records []usecase.AuditRecord) []AuditRecordResponse {
	resp := make([]AuditRecordResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, AuditRecordResponse{
			ID:          record.ID,
			EventType:   record.EventType,
			Status:      record.Status,
			Message:     record.Message,
			OrderID:     record.OrderID,
			OrderSerial: record.OrderSerial,
			Payload:     record.Payload,
			CreatedAt:   record.CreatedAt,
		})
	}
	return resp
}
