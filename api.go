package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// CategoryFetcher loads raw category payloads from the trivia service.
type CategoryFetcher interface {
	FetchCategories(ctx context.Context, ids []int) ([]APICategory, error)
}

// TriviaClient talks to the jservice-style category endpoint.
type TriviaClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewTriviaClient returns a client for baseURL with a per-request timeout.
func NewTriviaClient(baseURL string, timeout time.Duration) *TriviaClient {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &TriviaClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (tc *TriviaClient) categoryURL(id int) (string, error) {
	u, err := url.Parse(tc.BaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("id", strconv.Itoa(id))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchCategory retrieves a single category by id.
func (tc *TriviaClient) FetchCategory(ctx context.Context, id int) (APICategory, error) {
	reqID, _ := ctx.Value(requestIDKey).(string)

	endpoint, err := tc.categoryURL(id)
	if err != nil {
		return APICategory{}, fmt.Errorf("category %d: %w", id, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return APICategory{}, fmt.Errorf("category %d: %w", id, err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}

	start := time.Now()
	resp, err := tc.HTTP.Do(req)
	if err != nil {
		return APICategory{}, fmt.Errorf("category %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return APICategory{}, &APIStatusError{CategoryID: id, StatusCode: resp.StatusCode}
	}

	var category APICategory
	if err := json.NewDecoder(resp.Body).Decode(&category); err != nil {
		return APICategory{}, fmt.Errorf("category %d: decode: %w", id, err)
	}
	logCtx(ctx).Debugf("Fetched category %d (%q, %d clues) in %v", id, category.Title, len(category.Clues), time.Since(start).Round(time.Millisecond))
	return category, nil
}

// FetchCategories requests every id in parallel and returns results in ids order.
// Any single failure fails the whole batch.
func (tc *TriviaClient) FetchCategories(ctx context.Context, ids []int) ([]APICategory, error) {
	results := make([]APICategory, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			category, err := tc.FetchCategory(gctx, id)
			if err != nil {
				return err
			}
			results[i] = category
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
