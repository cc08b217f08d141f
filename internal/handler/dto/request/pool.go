package request

import "strings"

type ImportCodesRequest struct {
	Denomination int      `json:"denomination" binding:"required,gt=0"`
	Codes        []string `json:"codes" binding:"required,min=1"`
}

// CleanCodes drops blank entries before the import reaches the pool.
func (r ImportCodesRequest) CleanCodes() []string {
	cleaned := make([]string, 0, len(r.Codes))
	for _, code := range r.Codes {
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

type CorrectDenominationRequest struct {
	Denomination int `json:"denomination" binding:"required,gt=0"`
}

type ManualIssueRequest struct {
	OrderRef     string `json:"orderRef" binding:"required"`
	Denomination int    `json:"denomination" binding:"required,gt=0"`
}
