package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/types"
)

const (
	errorBodyReadLimit int64 = 4096
	defaultTimeout           = 10 * time.Second
)

// TokenSource yields the current session bearer token, or empty when the
// session is anonymous.
type TokenSource interface {
	Token() string
}

// GuestIDSource yields the guest identifier attached to anonymous requests.
type GuestIDSource func(ctx context.Context) string

// Client calls the storefront cart API. The server owns all cart state; the
// client only moves envelopes across the wire.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	guestID    GuestIDSource
	validate   *validator.Validate
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource attaches the session token provider.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithGuestIDSource attaches the guest identifier provider.
func WithGuestIDSource(source GuestIDSource) Option {
	return func(c *Client) {
		c.guestID = source
	}
}

// NewClient builds the cart API client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("cart api base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// AddItemInput is the payload for adding a product line to the cart.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart fetches the current cart for the session or user.
func (c *Client) GetCart(ctx context.Context) (*types.Cart, error) {
	var cart types.Cart
	if err := c.do(ctx, http.MethodGet, "cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds a product line and returns the full updated cart.
func (c *Client) AddItem(ctx context.Context, input AddItemInput) (*types.Cart, error) {
	if err := c.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid add item input")
	}
	var cart types.Cart
	if err := c.do(ctx, http.MethodPost, "cart/items", input, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItemQuantity sets the quantity of an existing cart line.
func (c *Client) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*types.Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	var cart types.Cart
	path := "cart/items/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodPatch, path, updateQuantityRequest{Quantity: quantity}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes a cart line and returns the full updated cart.
func (c *Client) RemoveItem(ctx context.Context, itemID string) (*types.Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	var cart types.Cart
	path := "cart/items/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Clear empties the cart on the server.
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "cart", nil, nil)
}

// MergeGuestCart folds the guest cart into the authenticated user's cart.
func (c *Client) MergeGuestCart(ctx context.Context) (*types.Cart, error) {
	var cart types.Cart
	if err := c.do(ctx, http.MethodPost, "cart/merge", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "cart client not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if c.guestID != nil {
		if guestID := strings.TrimSpace(c.guestID(ctx)); guestID != "" {
			httpReq.Header.Set("X-Guest-ID", guestID)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response data")
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	code := pkgerrors.FromStatus(resp.StatusCode)
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return pkgerrors.New(code, envelope.Error.Message).WithDetails(envelope.Error.Details)
	}
	return pkgerrors.New(code, fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
