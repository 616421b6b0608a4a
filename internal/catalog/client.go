// Package catalog talks to the remote Pokémon TCG card catalog.
package catalog

import (
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

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jacksmith/binder/internal/model"
)

const (
	// DefaultBaseURL is the public catalog API.
	DefaultBaseURL = "https://api.pokemontcg.io/v2"

	defaultUserAgent = "binder/1.0"
	defaultTimeout   = 30 * time.Second
	defaultRate      = 5.0

	// DefaultPageSize is used when a request leaves PageSize unset.
	DefaultPageSize = 20

	// Page size bounds accepted by the API.
	MinPageSize = 1
	MaxPageSize = 250

	// maxBodySize caps how much of a response is read.
	maxBodySize = 16 << 20
)

var (
	// ErrLoadFailed is the only error a failed search or lookup surfaces.
	// The technical cause is logged.
	ErrLoadFailed = errors.New("failed to load cards, try again")

	// ErrCardNotFound is returned by GetCard when the catalog has no such card.
	ErrCardNotFound = errors.New("card not found")
)

// Repository is the read-only view of the catalog used by the rest of binder.
type Repository interface {
	Search(ctx context.Context, req SearchRequest) (*Page, error)
	GetCard(ctx context.Context, id string) (*model.Card, error)
}

// SearchRequest describes one page of a name search.
type SearchRequest struct {
	Query    string
	Filters  model.SearchFilters
	Page     int
	PageSize int
	OrderBy  string
}

// Page is one validated page of search results.
type Page struct {
	Cards      []model.Card `json:"data"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	Count      int          `json:"count"`
	TotalCount int          `json:"totalCount"`
}

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL           string
	APIKey            string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            logrus.FieldLogger
}

// Client is a rate-limited HTTP client for the catalog API.
type Client struct {
	baseURL     string
	apiKey      string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logrus.FieldLogger
}

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRate
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		userAgent:   opts.UserAgent,
		httpClient:  opts.HTTPClient,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		logger:      opts.Logger.WithField("component", "catalog"),
	}
}

// Search fetches one page of cards whose name matches req.Query.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize < MinPageSize || req.PageSize > MaxPageSize {
		c.logger.WithField("page_size", req.PageSize).
			Warnf("page size is not between %d and %d", MinPageSize, MaxPageSize)
		return nil, ErrLoadFailed
	}

	params := url.Values{}
	if q := BuildQuery(req.Query, req.Filters); q != "" {
		params.Set("q", q)
	}
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("pageSize", strconv.Itoa(req.PageSize))
	if req.OrderBy != "" {
		params.Set("orderBy", req.OrderBy)
	}

	endpoint := c.baseURL + "/cards?" + params.Encode()
	log := c.logger.WithFields(logrus.Fields{"query": req.Query, "page": req.Page})

	var page Page
	if _, err := c.doRequest(ctx, endpoint, &page); err != nil {
		log.WithError(err).Warn("search request failed")
		return nil, ErrLoadFailed
	}
	if err := validatePage(&page); err != nil {
		log.WithError(err).Warn("search response rejected")
		return nil, ErrLoadFailed
	}

	log.WithFields(logrus.Fields{"count": page.Count, "total": page.TotalCount}).Debug("search page loaded")
	return &page, nil
}

// GetCard fetches a single card by its catalog ID.
func (c *Client) GetCard(ctx context.Context, id string) (*model.Card, error) {
	endpoint := c.baseURL + "/cards/" + url.PathEscape(id)
	log := c.logger.WithField("id", id)

	var body struct {
		Data *model.Card `json:"data"`
	}
	status, err := c.doRequest(ctx, endpoint, &body)
	if status == http.StatusNotFound {
		return nil, ErrCardNotFound
	}
	if err != nil {
		log.WithError(err).Warn("card request failed")
		return nil, ErrLoadFailed
	}
	if body.Data == nil {
		log.Warn("card response has no data")
		return nil, ErrLoadFailed
	}
	if err := validateCard(body.Data); err != nil {
		log.WithError(err).Warn("card response rejected")
		return nil, ErrLoadFailed
	}
	return body.Data, nil
}

// doRequest performs a rate-limited GET and decodes a 2xx JSON body into result.
// The status code is returned whenever a response was received.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) (int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return resp.StatusCode, nil
}

// validatePage checks a decoded page before anything downstream sees it.
func validatePage(p *Page) error {
	if p.Cards == nil {
		return fmt.Errorf("missing data array")
	}
	if p.Page < 1 {
		return fmt.Errorf("invalid page %d", p.Page)
	}
	if p.PageSize < MinPageSize {
		return fmt.Errorf("invalid pageSize %d", p.PageSize)
	}
	if p.Count != len(p.Cards) {
		return fmt.Errorf("count %d does not match %d cards", p.Count, len(p.Cards))
	}
	if p.TotalCount < 0 {
		return fmt.Errorf("invalid totalCount %d", p.TotalCount)
	}
	for i := range p.Cards {
		if err := validateCard(&p.Cards[i]); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}
	return nil
}

func validateCard(card *model.Card) error {
	if card.ID == "" {
		return fmt.Errorf("missing id")
	}
	if card.Name == "" {
		return fmt.Errorf("card %s: missing name", card.ID)
	}
	if card.Set.ID == "" && card.Set.Name == "" {
		return fmt.Errorf("card %s: missing set", card.ID)
	}
	return nil
}
