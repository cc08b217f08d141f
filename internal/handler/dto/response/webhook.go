package response

import (
	"giftcard-fulfillment/internal/usecase"
)

type AssignedCodeResponse struct {
	Code         string `json:"code"`
	Denomination int    `json:"denomination"`
}

type WebhookResponse struct {
	Status            string                 `json:"status"`
	OrderID           string                 `json:"orderId"`
	OrderSerialNumber string                 `json:"orderSerialNumber"`
	AssignedCodes     []AssignedCodeResponse `json:"assignedCodes"`
	Warnings          []string               `json:"warnings,omitempty"`
}

func FromFulfillmentResult(result *usecase.FulfillmentResult) *WebhookResponse {
	resp := &WebhookResponse{
		Status:            result.Status,
		OrderID:           result.OrderID,
		OrderSerialNumber: result.OrderSerial,
		AssignedCodes:     make([]AssignedCodeResponse, 0, len(result.AssignedCodes)),
		Warnings:          result.Warnings,
	}
	for _, code := range result.AssignedCodes {
		resp.AssignedCodes = append(resp.AssignedCodes, AssignedCodeResponse{
			Code:         code.Code,
			Denomination: code.Denomination,
		})
	}
	return resp
}
