package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru"

	"github.com/whattoeat/backend/internal/models"
)

const (
	defaultRecipeBaseURL   = "https://api.spoonacular.com"
	defaultRecipeCacheSize = 256
	maxRecipeRetries       = 3
)

var (
	// ErrQuotaExceeded is returned when the provider answers 402 Payment Required,
	// which Spoonacular uses for an exhausted daily quota.
	ErrQuotaExceeded  = errors.New("daily recipe quota exceeded")
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrRecipeUpstream = errors.New("recipe provider request failed")
)

// RecipeProvider is the external recipe search/detail collaborator.
type RecipeProvider interface {
	Search(ctx context.Context, req models.RecipeSearchRequest) ([]models.RecipeSummary, error)
	Get(ctx context.Context, id int64) (*models.RecipeDetail, error)
}

type RecipeClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client

	details    *lru.Cache
	newBackOff func() backoff.BackOff
}

type complexSearchResponse struct {
	Results      []models.RecipeSummary `json:"results"`
	TotalResults int                    `json:"totalResults"`
}

func NewRecipeClient(apiKey string, cacheSize int) (*RecipeClient, error) {
	if cacheSize <= 0 {
		cacheSize = defaultRecipeCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &RecipeClient{
		APIKey:  apiKey,
		BaseURL: defaultRecipeBaseURL,
		HTTPClient: &http.Client{
			Timeout: 12 * time.Second,
		},
		details: cache,
	}, nil
}

func (c *RecipeClient) Search(ctx context.Context, req models.RecipeSearchRequest) ([]models.RecipeSummary, error) {
	number := req.Number
	if number <= 0 {
		number = models.DefaultRecipeResults
	}

	q := url.Values{}
	q.Set("query", req.Query)
	if req.Diet != "" {
		q.Set("diet", req.Diet)
	}
	q.Set("ignorePantry", strconv.FormatBool(req.IgnorePantry))
	q.Set("number", strconv.Itoa(number))

	var out complexSearchResponse
	if err := c.getJSON(ctx, "/recipes/complexSearch", q, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = []models.RecipeSummary{}
	}
	return out.Results, nil
}

func (c *RecipeClient) Get(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	if id <= 0 {
		return nil, ErrRecipeNotFound
	}
	if c.details != nil {
		if v, ok := c.details.Get(id); ok {
			return v.(*models.RecipeDetail), nil
		}
	}

	var out models.RecipeDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/recipes/%d/information", id), url.Values{}, &out); err != nil {
		return nil, err
	}
	if c.details != nil {
		c.details.Add(id, &out)
	}
	return &out, nil
}

// getJSON performs a GET with retries on network errors and 5xx responses.
// Quota, not-found and other 4xx answers are final.
func (c *RecipeClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: missing API key", ErrRecipeUpstream)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultRecipeBaseURL
	}
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 12 * time.Second}
	}
	q.Set("apiKey", c.APIKey)
	endpoint := baseURL + path + "?" + q.Encode()

	var b backoff.BackOff
	if c.newBackOff != nil {
		b = c.newBackOff()
	} else {
		b = backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRecipeRetries)
	}

	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("%w: %v", ErrRecipeUpstream, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusPaymentRequired:
			return backoff.Permanent(ErrQuotaExceeded)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrRecipeNotFound)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: http %d", ErrRecipeUpstream, resp.StatusCode)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("%w: http %d", ErrRecipeUpstream, resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: read body: %v", ErrRecipeUpstream, err)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: decode: %v", ErrRecipeUpstream, err))
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(b, ctx))
	if err != nil && attempt > 1 {
		log.Printf("[recipes] path=%s attempts=%d error=%v", path, attempt, err)
	}
	return err
}
