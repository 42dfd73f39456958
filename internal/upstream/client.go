// Package upstream talks to the optional central backend. Both calls are
// best-effort: the error is always returned to the caller, who makes the
// fallback decision. The client itself never swallows a failure.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Errors returned by the client.
var (
	ErrDisabled     = errors.New("upstream backend not configured")
	ErrUnauthorized = errors.New("upstream rejected credentials")
)

// User is the identity record the backend returns on login.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// TakeawayOrder is one row of the backend's takeaway listing.
type TakeawayOrder struct {
	ID           string         `json:"id"`
	CustomerName string         `json:"customerName"`
	Status       string         `json:"status"`
	Items        []TakeawayItem `json:"items"`
}

// TakeawayItem mirrors the backend's item shape: price is optional.
type TakeawayItem struct {
	Name  string   `json:"name"`
	Qty   int32    `json:"qty"`
	Price *float64 `json:"price,omitempty"`
}

// Client is a thin JSON client over the backend's two endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL. An empty URL disables the
// client; every call then returns ErrDisabled.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled reports whether a backend URL is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login attempts POST /auth/login. On success it returns the backend's user
// record and bearer token for follow-up calls.
func (c *Client) Login(ctx context.Context, email, password, role string) (User, string, error) {
	if !c.Enabled() {
		return User{}, "", ErrDisabled
	}

	body, err := json.Marshal(loginRequest{Email: email, Password: password, Role: role})
	if err != nil {
		return User{}, "", fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return User{}, "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return User{}, "", ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return User{}, "", fmt.Errorf("login request: unexpected status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return User{}, "", fmt.Errorf("decode login response: %w", err)
	}
	if out.Token == "" || out.User == nil {
		return User{}, "", fmt.Errorf("login response missing token or user")
	}
	return *out.User, out.Token, nil
}

// TakeawayOrders attempts GET /takeaway with the bearer token obtained at
// login. A nil slice with no error means the backend has no orders.
func (c *Client) TakeawayOrders(ctx context.Context, token string) ([]TakeawayOrder, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/takeaway", nil)
	if err != nil {
		return nil, fmt.Errorf("build takeaway request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("takeaway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("takeaway request: unexpected status %d", resp.StatusCode)
	}

	var out []TakeawayOrder
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode takeaway response: %w", err)
	}
	return out, nil
}
