package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apphttp "itemshelf/internal/http"
)

// ErrServerUnreachable wraps transport-level failures. The UI collapses
// these into one generic connectivity notification, distinct from
// application errors carried by APIError.
var ErrServerUnreachable = errors.New("cannot reach the server")

// APIError is an application-level failure reported by the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the itemshelf API and holds the per-session bearer token.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Login exchanges credentials for an access token and stores it for
// subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login/access-token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}

	var tok apphttp.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	c.token = tok.AccessToken
	return nil
}

func (c *Client) LoggedIn() bool {
	return c.token != ""
}

func (c *Client) Logout() {
	c.token = ""
}

func (c *Client) ListItems(ctx context.Context) ([]apphttp.ItemResponse, error) {
	var items []apphttp.ItemResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, title, description string) (*apphttp.ItemResponse, error) {
	body := map[string]string{"title": title, "description": description}
	var item apphttp.ItemResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/item", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem sends only non-nil fields so the server leaves the rest untouched.
func (c *Client) UpdateItem(ctx context.Context, id int64, title, description *string) (*apphttp.ItemResponse, error) {
	body := map[string]*string{}
	if title != nil {
		body["title"] = title
	}
	if description != nil {
		body["description"] = description
	}
	var item apphttp.ItemResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/item/"+strconv.FormatInt(id, 10), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) (*apphttp.ItemResponse, error) {
	var item apphttp.ItemResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/item/"+strconv.FormatInt(id, 10), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) CreateUser(ctx context.Context, email, password, fullName string, superuser bool) (*apphttp.UserResponse, error) {
	body := map[string]any{
		"email":        email,
		"password":     password,
		"full_name":    fullName,
		"is_superuser": superuser,
	}
	var user apphttp.UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	msg := payload.Error
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
