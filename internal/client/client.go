// Package client is a typed client for the whattoeat HTTP API.
package client

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

	"github.com/whattoeat/backend/internal/models"
)

// DefaultTimeout bounds every request so a hung server cannot leave an
// optimistic entry pending forever.
const DefaultTimeout = 10 * time.Second

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrValidation    = errors.New("validation failed")
)

// APIError is returned for every non-2xx response. It unwraps to one of the
// package sentinels when the server reported a known code.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for k, v := range e.Fields {
			parts = append(parts, k+": "+v)
		}
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("api error %d: %s", e.Status, msg)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case models.CodeUnauthorized:
		return ErrUnauthorized
	case models.CodeNotFound:
		return ErrNotFound
	case models.CodeConflict:
		return ErrConflict
	case models.CodeQuotaExceeded:
		return ErrQuotaExceeded
	case models.CodeValidation:
		return ErrValidation
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusPaymentRequired:
		return ErrQuotaExceeded
	case http.StatusBadRequest:
		return ErrValidation
	}
	return nil
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout on a copy of the current client,
// so an http.Client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Error
			apiErr.Fields = env.Errors
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Session returns the server's view of the current session. A 401 yields an
// unauthenticated session and no error.
func (c *Client) Session(ctx context.Context) (models.Session, error) {
	var out models.Session
	err := c.do(ctx, http.MethodGet, "/api/session", nil, nil, &out)
	if errors.Is(err, ErrUnauthorized) {
		return models.Session{Status: models.SessionUnauthenticated}, nil
	}
	if err != nil {
		return models.Session{Status: models.SessionUnauthenticated}, err
	}
	out.Status = models.SessionAuthenticated
	return out, nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/account", nil, nil, nil)
}

func (c *Client) ListGroceries(ctx context.Context) ([]models.GroceryItem, error) {
	var out []models.GroceryItem
	if err := c.do(ctx, http.MethodGet, "/api/grocery", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGrocery(ctx context.Context, title string) (*models.GroceryItem, error) {
	var out models.GroceryItem
	err := c.do(ctx, http.MethodPost, "/api/grocery", nil, models.CreateGroceryItemRequest{Title: title}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGrocery edits an item; a nil checked leaves the flag unchanged.
func (c *Client) UpdateGrocery(ctx context.Context, id, title string, checked *bool) (*models.GroceryItem, error) {
	var out models.GroceryItem
	req := models.UpdateGroceryItemRequest{Title: title, Checked: checked}
	if err := c.do(ctx, http.MethodPut, "/api/grocery/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGrocery(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/grocery/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) DeleteAllGroceries(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/grocery", nil, nil, nil)
}

func (c *Client) ListFavorites(ctx context.Context) ([]models.FavoriteRecipe, error) {
	var out []models.FavoriteRecipe
	if err := c.do(ctx, http.MethodGet, "/api/favorites", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddFavorite(ctx context.Context, id int64, title string) (*models.FavoriteRecipe, error) {
	var out models.FavoriteRecipe
	err := c.do(ctx, http.MethodPost, "/api/favorites", nil, models.AddFavoriteRequest{ID: id, Title: title}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveFavorite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/favorites/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) SearchRecipes(ctx context.Context, req models.RecipeSearchRequest) ([]models.RecipeSummary, error) {
	q := url.Values{}
	q.Set("query", req.Query)
	if req.Diet != "" {
		q.Set("diet", req.Diet)
	}
	if req.IgnorePantry {
		q.Set("ignorePantry", "true")
	}
	if req.Number > 0 {
		q.Set("number", strconv.Itoa(req.Number))
	}
	var out []models.RecipeSummary
	if err := c.do(ctx, http.MethodGet, "/api/recipes/search", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRecipe(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	var out models.RecipeDetail
	if err := c.do(ctx, http.MethodGet, "/api/recipes/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
