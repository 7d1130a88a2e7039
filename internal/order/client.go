package order

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sabores-app/internal/logger"

	"go.uber.org/zap"
)

const apiVersion = "v1"

// PageInfo is the pagination metadata returned alongside a page of orders.
type PageInfo struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Client reads active orders from the storefront order API.
type Client struct {
	baseURL      string
	sessionToken string
	httpClient   *http.Client
}

func NewClient(baseURL, sessionToken string) *Client {
	if sessionToken == "" {
		logger.L().Warn("order api session token is empty")
	}

	return &Client{
		baseURL:      baseURL,
		sessionToken: sessionToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ActiveOrders fetches one page of the customer's in-progress orders.
func (c *Client) ActiveOrders(
	ctx context.Context,
	customerID string,
	page, size int,
) ([]*Order, *PageInfo, error) {

	if customerID == "" {
		return nil, nil, ErrUnauthorized
	}

	log := logger.FromCtx(ctx).With(
		zap.String("customer_id", customerID),
		zap.Int("page", page),
		zap.Int("size", size),
	)

	endpoint := fmt.Sprintf(
		"%s/api/%s/customers/%s/orders/in-progress",
		c.baseURL, apiVersion, url.PathEscape(customerID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}

	q := req.URL.Query()
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("active orders request failed", zap.Error(err))
		return nil, nil, fmt.Errorf("fetch active orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error(
			"active orders request rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, nil, fmt.Errorf("fetch active orders: unexpected status %d", resp.StatusCode)
	}

	var wire ordersPageDTO
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		log.Error("active orders decode failed", zap.Error(err))
		return nil, nil, fmt.Errorf("decode active orders: %w", err)
	}

	orders := mapOrdersFromWire(wire.Items)

	log.Debug(
		"active orders fetched",
		zap.Int("count", len(orders)),
		zap.Int("total_items", wire.TotalItems),
	)

	return orders, &PageInfo{
		Page:       wire.Page,
		Size:       wire.Size,
		TotalItems: wire.TotalItems,
		TotalPages: wire.TotalPages,
	}, nil
}
