// Package search drives paginated catalog searches and remembers past queries.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jacksmith/binder/internal/catalog"
	"github.com/jacksmith/binder/internal/model"
)

// ErrSuperseded is returned when a fetch completed after a newer search,
// clear or reset was issued. Its result was discarded.
var ErrSuperseded = errors.New("search superseded by a newer request")

// Controller owns the visible result set for one search session.
//
// Every fetch is tagged with a token taken from a counter that only grows.
// A completion is applied only if its token is still the latest one issued,
// so results always belong to the most recent query.
type Controller struct {
	repo     catalog.Repository
	pageSize int
	logger   logrus.FieldLogger

	mu       sync.Mutex
	state    model.SearchResultSet
	token    uint64
	inflight int
}

// NewController creates a Controller fetching pageSize cards per page.
func NewController(repo catalog.Repository, pageSize int, logger logrus.FieldLogger) *Controller {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		repo:     repo,
		pageSize: pageSize,
		logger:   logger.WithField("component", "search"),
		state:    initialState(),
	}
}

func initialState() model.SearchResultSet {
	return model.SearchResultSet{HasMore: true, CurrentPage: 1}
}

// Search starts a new search for query, replacing the accumulated results
// with the first page on success.
//
// An empty or whitespace-only query clears the error and stops pagination but
// leaves the current results in place.
func (c *Controller) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	if query == "" {
		c.state.Error = ""
		c.state.HasMore = false
		c.mu.Unlock()
		return nil
	}
	c.token++
	token := c.token
	c.inflight++
	c.state.Query = query
	c.state.CurrentPage = 1
	filters := c.state.Filters
	c.mu.Unlock()

	page, err := c.repo.Search(ctx, catalog.SearchRequest{
		Query:    query,
		Filters:  filters,
		Page:     1,
		PageSize: c.pageSize,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if token != c.token {
		c.logger.WithFields(logrus.Fields{"query": query, "token": token}).Debug("discarding stale search response")
		return ErrSuperseded
	}
	if err != nil {
		c.fail(err)
		return err
	}

	c.state.Results = append([]model.Card(nil), page.Cards...)
	c.state.TotalCount = page.TotalCount
	c.state.HasMore = c.hasMore(len(c.state.Results), page)
	c.state.Error = ""
	return nil
}

// LoadMore fetches the next page for the current query and appends it.
// It does nothing while a fetch is outstanding, when pagination has ended,
// or when there are no results to continue from.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.inflight > 0 || !c.state.HasMore || len(c.state.Results) == 0 {
		c.mu.Unlock()
		return nil
	}
	c.token++
	token := c.token
	c.inflight++
	query := c.state.Query
	filters := c.state.Filters
	next := c.state.CurrentPage + 1
	c.mu.Unlock()

	page, err := c.repo.Search(ctx, catalog.SearchRequest{
		Query:    query,
		Filters:  filters,
		Page:     next,
		PageSize: c.pageSize,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if token != c.token {
		c.logger.WithFields(logrus.Fields{"query": query, "page": next}).Debug("discarding stale page")
		return ErrSuperseded
	}
	if err != nil {
		c.fail(err)
		return err
	}

	if len(page.Cards) == 0 {
		c.state.HasMore = false
		return nil
	}

	c.state.Results = append(c.state.Results, page.Cards...)
	c.state.CurrentPage = next
	c.state.TotalCount = page.TotalCount
	c.state.HasMore = c.hasMore(len(c.state.Results), page)
	return nil
}

// hasMore decides whether another page may exist. A short page always ends
// pagination. For a full page a positive total decides; without one a full
// page suggests more.
func (c *Controller) hasMore(accumulated int, page *catalog.Page) bool {
	if len(page.Cards) < c.pageSize {
		return false
	}
	if page.TotalCount > 0 {
		return accumulated < page.TotalCount
	}
	return true
}

// fail records a failed fetch. Caller must hold c.mu.
func (c *Controller) fail(err error) {
	c.state.Error = err.Error()
	c.state.HasMore = false
	c.state.Results = nil
	c.logger.WithError(err).WithField("query", c.state.Query).Debug("search failed")
}

// SetFilters replaces the filters used by subsequent searches.
// It does not refetch.
func (c *Controller) SetFilters(filters model.SearchFilters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filters = filters
}

// Filters returns the current filters.
func (c *Controller) Filters() model.SearchFilters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Filters
}

// Clear drops the accumulated results and any in-flight response.
// The query and filters are kept.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++
	c.state.Results = nil
	c.state.CurrentPage = 1
	c.state.TotalCount = 0
	c.state.HasMore = true
	c.state.Error = ""
}

// Reset returns the controller to its initial state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++
	c.state = initialState()
}

// Loading returns true while at least one fetch is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Snapshot returns a copy of the current result set.
func (c *Controller) Snapshot() model.SearchResultSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.state
	snap.Results = append([]model.Card(nil), c.state.Results...)
	snap.Loading = c.inflight > 0
	return snap
}
