package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrProductNotFound means the product service reported the product
	// does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrServiceUnavailable covers everything else: network failure,
	// timeout, unexpected status, undecodable body.
	ErrServiceUnavailable = errors.New("inventory service unavailable")
)

// Product is the availability snapshot fetched per add request. It is
// never persisted; it only authorizes the one mutation in flight.
type Product struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity uint   `json:"quantity"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(productServiceURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(productServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchProduct performs one fresh lookup, no retry and no caching.
func (c *Client) FetchProduct(ctx context.Context, productID uint) (*Product, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/products/%d", c.baseURL, productID),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrServiceUnavailable, err)
	}

	return &product, nil
}
