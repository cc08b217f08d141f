package order

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoOrder = errors.New("payload contains no recognizable order")

// Denomination pairs a face value with the variant label it is sold under
// (e.g. 200 / "200 zł"). Labels are matched first-wins in configured order.
type Denomination struct {
	Value int
	Label string
}

type Config struct {
	GiftProductID string
	Denominations []Denomination
}

type GiftLine struct {
	Denomination int
	Quantity     int
}

// FulfillmentRequest is the normalized form of one webhook payload. It is
// rebuilt on every delivery and never persisted.
type FulfillmentRequest struct {
	OrderID       string
	OrderSerial   string
	Paid          bool
	CustomerEmail string
	GiftLines     []GiftLine
	Diagnostics   []string
}

// Classify probes the known payload shapes and extracts a fulfillment request.
// The shop platform does not guarantee a single schema across integration
// versions, so envelope detection is an ordered strategy chain: the first
// strategy that matches structurally wins.
func Classify(payload map[string]any, cfg Config) (*FulfillmentRequest, error) {
	env, ok := extractEnvelope(payload)
	if !ok {
		return nil, ErrNoOrder
	}

	serial := stringField(env, "orderSerialNumber")
	if serial == "" {
		return nil, ErrNoOrder
	}

	req := &FulfillmentRequest{
		OrderID:       stringField(env, "orderId"),
		OrderSerial:   serial,
		Paid:          isPaid(env),
		CustomerEmail: extractEmail(env),
	}
	req.GiftLines = extractGiftLines(env, cfg, &req.Diagnostics)

	return req, nil
}

func isPaid(env map[string]any) bool {
	for _, record := range paymentRecords(env) {
		if stringField(record, "paymentStatus") == "y" {
			return true
		}
	}
	return false
}

func paymentRecords(env map[string]any) []map[string]any {
	var records []map[string]any
	details, _ := env["orderDetails"].(map[string]any)
	for _, container := range []map[string]any{details, env} {
		if container == nil {
			continue
		}
		for _, key := range []string{"prepaids", "payments"} {
			list, _ := container[key].([]any)
			for _, item := range list {
				if m, ok := item.(map[string]any); ok {
					records = append(records, m)
				}
			}
		}
	}
	return records
}

func extractGiftLines(env map[string]any, cfg Config, diags *[]string) []GiftLine {
	var lines []GiftLine
	for _, product := range productRecords(env) {
		if stringField(product, "productId") != cfg.GiftProductID {
			continue
		}

		denomination, ok := resolveDenomination(product, cfg.Denominations)
		if !ok {
			*diags = append(*diags, fmt.Sprintf(
				"gift-card line dropped: unresolvable denomination (sizePanelName=%q)",
				stringField(product, "sizePanelName")))
			continue
		}

		quantity := intField(product, "productQuantity")
		if quantity <= 0 {
			*diags = append(*diags, fmt.Sprintf(
				"gift-card line %d %s: invalid quantity, defaulting to 1", denomination, stringField(product, "productQuantity")))
			quantity = 1
		}

		lines = append(lines, GiftLine{Denomination: denomination, Quantity: quantity})
	}
	return lines
}

func productRecords(env map[string]any) []map[string]any {
	var records []map[string]any
	details, _ := env["orderDetails"].(map[string]any)
	for _, container := range []map[string]any{details, env} {
		if container == nil {
			continue
		}
		for _, key := range []string{"productsResults", "products"} {
			list, _ := container[key].([]any)
			for _, item := range list {
				if m, ok := item.(map[string]any); ok {
					records = append(records, m)
				}
			}
		}
	}
	return records
}

// variantFields are the product fields that may carry the denomination label,
// depending on the integration version.
var variantFields = []string{"sizePanelName", "sizeName", "versionName", "productVersionName"}

// resolveDenomination matches configured labels against the concatenated
// variant fields, first label wins. If no label matches, the first digit run
// of the size label is accepted when it equals a configured face value.
func resolveDenomination(product map[string]any, denominations []Denomination) (int, bool) {
	var blob strings.Builder
	for _, field := range variantFields {
		if v := stringField(product, field); v != "" {
			blob.WriteString(v)
			blob.WriteString(" ")
		}
	}

	text := blob.String()
	for _, d := range denominations {
		if d.Label != "" && strings.Contains(text, d.Label) {
			return d.Value, true
		}
	}

	digits := firstDigitRun(stringField(product, "sizePanelName"))
	if digits > 0 {
		for _, d := range denominations {
			if d.Value == digits {
				return d.Value, true
			}
		}
	}

	return 0, false
}

func firstDigitRun(s string) int {
	value := 0
	seen := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			value = value*10 + int(r-'0')
			seen = true
			continue
		}
		if seen {
			break
		}
	}
	if !seen {
		return 0
	}
	return value
}
