package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"giftcard-fulfillment/internal/pkg/config"
	"giftcard-fulfillment/internal/pkg/errs"
)

// noteSeparator sits between the existing note text and an appended block.
const noteSeparator = "\n\n---\n"

// IdosellClient talks to the shop admin API (v3). With empty credentials it
// stays unconfigured and the fulfillment pipeline skips the note step.
type IdosellClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewIdosellClient(cfg config.IdosellConfig) *IdosellClient {
	baseURL := ""
	if cfg.Domain != "" {
		baseURL = fmt.Sprintf("https://%s/api/admin/v3", cfg.Domain)
	}
	return &IdosellClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *IdosellClient) IsConfigured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *IdosellClient) GetOrderNote(ctx context.Context, orderID string) (string, error) {
	endpoint := c.baseURL + "/orders/orders?" + url.Values{"orderIds": {orderID}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errs.Wrap(err, "failed to build order note request")
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errs.Wrap(err, "order note request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errs.New(fmt.Sprintf("order note request returned HTTP %d", resp.StatusCode))
	}

	var body struct {
		Results struct {
			Orders []struct {
				OrderNote string `json:"orderNote"`
			} `json:"orders"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errs.Wrap(err, "failed to decode order note response")
	}
	if len(body.Results.Orders) == 0 {
		return "", nil
	}
	return body.Results.Orders[0].OrderNote, nil
}

func (c *IdosellClient) SetOrderNote(ctx context.Context, orderID, note string) error {
	payload := map[string]any{
		"params": map[string]any{
			"orders": []map[string]any{
				{"orderId": orderID, "orderNote": note},
			},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to marshal order note payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/orders/orders", bytes.NewReader(data))
	if err != nil {
		return errs.Wrap(err, "failed to build set note request")
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "set note request failed")
	}
	defer resp.Body.Close()

	// 207: multi-status, per-order faults reported in the body
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusMultiStatus {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errs.New(fmt.Sprintf("set note returned HTTP %d: %s", resp.StatusCode, string(text)))
	}

	var body struct {
		Results struct {
			OrdersResults []struct {
				FaultCode   int    `json:"faultCode"`
				FaultString string `json:"faultString"`
			} `json:"ordersResults"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errs.Wrap(err, "failed to decode set note response")
	}
	for _, result := range body.Results.OrdersResults {
		if result.FaultCode != 0 {
			return errs.New(fmt.Sprintf("idosell error %d: %s", result.FaultCode, result.FaultString))
		}
	}
	return nil
}

// AppendOrderNote never overwrites: the existing note is fetched first and
// the block is attached below a separator.
func (c *IdosellClient) AppendOrderNote(ctx context.Context, orderID, block string) error {
	existing, err := c.GetOrderNote(ctx, orderID)
	if err != nil {
		return err
	}

	note := block
	if strings.TrimSpace(existing) != "" {
		note = strings.TrimRight(existing, "\n ") + noteSeparator + block
	}

	return c.SetOrderNote(ctx, orderID, note)
}

func (c *IdosellClient) setHeaders(req *http.Request) {
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
}
