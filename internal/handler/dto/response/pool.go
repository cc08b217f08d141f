package response

import (
	"time"

	"giftcard-fulfillment/internal/usecase"

	"github.com/jinzhu/copier"
)

type CodeResponse struct {
	ID               int64      `json:"id"`
	Code             string     `json:"code"`
	Denomination     int        `json:"denomination"`
	AssignedOrderRef *string    `json:"assignedOrderRef,omitempty"`
	AssignedAt       *time.Time `json:"assignedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type DenominationCountResponse struct {
	Denomination int   `json:"denomination"`
	Total        int64 `json:"total"`
	Assigned     int64 `json:"assigned"`
	Available    int64 `json:"available"`
}

type ImportCodesResponse struct {
	Inserted int64 `json:"inserted"`
	Skipped  int64 `json:"skipped"`
}

type ManualIssueResponse struct {
	Code         string `json:"code"`
	Denomination int    `json:"denomination"`
	Reused       bool   `json:"reused"`
}

func FromGiftCodeViews(views []usecase.GiftCodeView) []CodeResponse {
	resp := make([]CodeResponse, 0, len(views))
	for _, view := range views {
		var item CodeResponse
		if err := copier.Copy(&item, &view); err != nil {
			continue
		}
		resp = append(resp, item)
	}
	return resp
}

func FromDenominationCounts(counts []usecase.DenominationCount) []DenominationCountResponse {
	resp := make([]DenominationCountResponse, 0, len(counts))
	for _, count := range counts {
		var item DenominationCountResponse
		if err := copier.Copy(&item, &count); err != nil {
			continue
		}
		resp = append(resp, item)
	}
	return resp
}

func FromManualIssueResult(result *usecase.ManualIssueResult) *ManualIssueResponse {
	return &ManualIssueResponse{
		Code:         result.Code,
		Denomination: result.Denomination,
		Reused:       result.Reused,
	}
}
