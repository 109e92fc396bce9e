package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

// Client calls the inventory service over HTTP on behalf of an
// authenticated user. The caller's bearer token is forwarded unchanged so
// the downstream service authorizes with the same identity.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// CustomerProducts fetches the active products assigned to a customer.
func (c *Client) CustomerProducts(ctx context.Context, customerID, bearerToken string) ([]*domain.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v1/products/customer/%s", c.baseURL, url.PathEscape(customerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, xerrors.ErrUnauthorized
	case http.StatusForbidden:
		return nil, xerrors.ErrForbidden
	case http.StatusNotFound:
		return nil, xerrors.ErrNotFound
	default:
		return nil, fmt.Errorf("inventory service returned %d: %w", resp.StatusCode, xerrors.ErrInternalServer)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode inventory response: %w", err)
	}

	var payload struct {
		Products []*domain.Product `json:"products"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode inventory products: %w", err)
	}
	return payload.Products, nil
}
