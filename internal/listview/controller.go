// Package listview implements the paginated list controller every portal
// page is built on: server-driven pagination, declared filters, local
// within-page search and sort, and mutations with a declarative
// patch-vs-refetch policy.
package listview

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spinforge/partnerctl/internal/api"
)

// FilterAll is the sentinel value that clears a filter constraint.
const FilterAll = "all"

// SearchScope says where free-text search is evaluated.
type SearchScope int

const (
	// SearchScopePage filters only the rows of the currently fetched page.
	// The server total keeps reporting the unfiltered collection size, so
	// summaries can show more rows than are visible. That mismatch is how
	// the portal has always behaved and callers must not paper over it.
	SearchScopePage SearchScope = iota

	// SearchScopeServer forwards the term as a query parameter.
	SearchScopeServer
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Config declares one entity's list behavior. One Config per resource;
// controllers are cheap and owned by a single page at a time.
type Config[T any] struct {
	// Resource is the collection path, e.g. "/admin/games".
	Resource string

	// RowsKey names the envelope field rows arrive under ("games",
	// "payouts", "users", ...). Varies per backend resource.
	RowsKey string

	PageSize int

	// Filters maps a filter name to its legal values. FilterAll is always
	// accepted and clears the constraint. A nil value list declares an
	// open-valued filter (any value is legal).
	Filters map[string][]string

	// SearchFields extract the text searched by SetSearchTerm.
	SearchFields []func(T) string

	// SortFields map a sort key to its comparator. Sorting is applied to
	// the held page only; it never round-trips.
	SortFields map[string]func(a, b T) int

	SearchScope SearchScope

	// ID extracts a row's identity, stable across refetches.
	ID func(T) string
}

// Controller owns the query state and the last fetched page for one
// entity's list view.
type Controller[T any] struct {
	cfg    Config[T]
	client *api.Client

	mu         sync.Mutex
	page       int
	search     string
	filters    map[string]string
	sortKey    string
	sortDir    Direction
	rows       []T
	total      int
	totalPages int
	loading    bool
	lastErr    error

	// seq numbers fetches; a result is applied only when its sequence
	// still matches the latest issued one, so out-of-order responses are
	// discarded instead of clobbering newer state.
	seq uint64
}

func NewController[T any](client *api.Client, cfg Config[T]) *Controller[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	filters := make(map[string]string, len(cfg.Filters))
	for name := range cfg.Filters {
		filters[name] = FilterAll
	}
	return &Controller[T]{
		cfg:     cfg,
		client:  client,
		page:    1,
		filters: filters,
	}
}

// Seed installs an initial query state without fetching, for flag-driven
// one-shot listings. Filter names and values are validated the same way
// SetFilter validates them.
func (c *Controller[T]) Seed(page int, search string, filters map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if page >= 1 {
		c.page = page
	}
	c.search = search
	for name, value := range filters {
		legal, ok := c.cfg.Filters[name]
		if !ok {
			return fmt.Errorf("unknown filter %q", name)
		}
		if value != FilterAll && legal != nil && !contains(legal, value) {
			return fmt.Errorf("invalid value %q for filter %q", value, name)
		}
		c.filters[name] = value
	}
	return nil
}

// SetFilter applies a declared filter and re-fetches from page 1. The value
// must be one of the filter's legal values or FilterAll. Unknown filter
// names are a bug in the calling page, not a runtime condition.
func (c *Controller[T]) SetFilter(ctx context.Context, name, value string) error {
	c.mu.Lock()
	legal, ok := c.cfg.Filters[name]
	if !ok {
		c.mu.Unlock()
		panic(fmt.Sprintf("listview: filter %q not declared for %s", name, c.cfg.Resource))
	}
	if value != FilterAll && legal != nil && !contains(legal, value) {
		c.mu.Unlock()
		return fmt.Errorf("invalid value %q for filter %q", value, name)
	}
	c.filters[name] = value
	c.page = 1
	seq, query := c.beginLocked()
	c.mu.Unlock()

	return c.fetch(ctx, seq, query)
}

// SetSearchTerm commits a free-text search. A repeated identical term is a
// no-op, so the UI can call this on every committed input without issuing
// duplicate fetches. Any distinct term resets to page 1.
func (c *Controller[T]) SetSearchTerm(ctx context.Context, term string) error {
	c.mu.Lock()
	if term == c.search {
		c.mu.Unlock()
		return nil
	}
	c.search = term
	needFetch := c.page != 1 || c.cfg.SearchScope == SearchScopeServer
	c.page = 1
	if !needFetch {
		// Page-scope search over an already-held first page: purely a
		// local view change.
		c.mu.Unlock()
		return nil
	}
	seq, query := c.beginLocked()
	c.mu.Unlock()

	return c.fetch(ctx, seq, query)
}

// SetPage moves to page n. Out-of-range values are a no-op; the controller
// never requests page 0 or a page past the last one.
func (c *Controller[T]) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	last := c.totalPages
	if last < 1 {
		last = 1
	}
	if n < 1 || n > last || n == c.page {
		c.mu.Unlock()
		return nil
	}
	c.page = n
	seq, query := c.beginLocked()
	c.mu.Unlock()

	return c.fetch(ctx, seq, query)
}

// SetSort orders the held page by key. Selecting the current key flips the
// direction. Sorting is local to the fetched page and never re-fetches;
// reordering a paginated subset is the portal's long-standing behavior.
func (c *Controller[T]) SetSort(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cfg.SortFields[key]; !ok {
		return
	}
	if key == c.sortKey {
		if c.sortDir == Ascending {
			c.sortDir = Descending
		} else {
			c.sortDir = Ascending
		}
	} else {
		c.sortKey = key
		c.sortDir = Ascending
	}
	c.sortLocked()
}

// Refresh re-issues the fetch for the current query state unconditionally.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	seq, query := c.beginLocked()
	c.mu.Unlock()

	return c.fetch(ctx, seq, query)
}

// beginLocked stamps a new fetch and snapshots the query it must use.
func (c *Controller[T]) beginLocked() (uint64, api.ListQuery) {
	c.seq++
	c.loading = true

	query := api.ListQuery{
		Page:    c.page,
		Limit:   c.cfg.PageSize,
		Filters: map[string]string{},
	}
	for name, value := range c.filters {
		if value != FilterAll {
			query.Filters[name] = value
		}
	}
	if c.cfg.SearchScope == SearchScopeServer {
		query.Search = c.search
	}
	return c.seq, query
}

func (c *Controller[T]) fetch(ctx context.Context, seq uint64, query api.ListQuery) error {
	page, err := c.client.List(ctx, c.cfg.Resource, c.cfg.RowsKey, query)
	if err != nil {
		c.fail(seq, err)
		return err
	}

	rows, err := api.DecodeRows[T](page)
	if err != nil {
		err = fmt.Errorf("failed to decode %s rows: %w", c.cfg.RowsKey, err)
		c.fail(seq, err)
		return err
	}

	if clamped := c.apply(seq, rows, page.Total, page.TotalPages); clamped {
		// The requested page no longer exists (totals shrank while we
		// were away); fetch the clamped page instead.
		return c.Refresh(ctx)
	}
	return nil
}

// apply installs a fetch result, unless a newer fetch has been issued since
// (the stale response is dropped wholesale). Returns true when the current
// page had to be clamped into the shrunken range and a re-fetch is needed.
func (c *Controller[T]) apply(seq uint64, rows []T, total, totalPages int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return false
	}

	c.loading = false
	c.lastErr = nil
	c.rows = rows
	c.total = total
	c.totalPages = totalPages
	c.sortLocked()

	if c.totalPages > 0 && c.page > c.totalPages {
		c.page = c.totalPages
		return true
	}
	return false
}

// fail records a fetch failure. The previously displayed page is kept:
// stale-but-consistent beats an empty table that reads as "no results".
func (c *Controller[T]) fail(seq uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return
	}
	c.loading = false
	c.lastErr = err
}

func (c *Controller[T]) sortLocked() {
	if c.sortKey == "" {
		return
	}
	cmp, ok := c.cfg.SortFields[c.sortKey]
	if !ok {
		return
	}
	dir := c.sortDir
	sort.SliceStable(c.rows, func(i, j int) bool {
		r := cmp(c.rows[i], c.rows[j])
		if dir == Descending {
			return r > 0
		}
		return r < 0
	})
}

// VisibleRows returns the rows the page should render: the held page,
// narrowed by the local search term when the entity searches page-scope.
// The narrowed count may disagree with Total; that is expected (see
// SearchScopePage).
func (c *Controller[T]) VisibleRows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.search == "" || c.cfg.SearchScope != SearchScopePage {
		return append([]T(nil), c.rows...)
	}

	needle := strings.ToLower(c.search)
	var visible []T
	for _, row := range c.rows {
		for _, field := range c.cfg.SearchFields {
			if strings.Contains(strings.ToLower(field(row)), needle) {
				visible = append(visible, row)
				break
			}
		}
	}
	return visible
}

// Rows returns the full held page regardless of local search.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.rows...)
}

func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller[T]) PageSize() int { return c.cfg.PageSize }

func (c *Controller[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Controller[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

func (c *Controller[T]) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

func (c *Controller[T]) Filter(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[name]
}

func (c *Controller[T]) Sort() (string, Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortKey, c.sortDir
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// TakeError returns the last fetch failure once, then clears it. Pages
// surface it as a one-shot notification.
func (c *Controller[T]) TakeError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.lastErr
	c.lastErr = nil
	return err
}

// Has reports whether the held page contains a row with the given id.
func (c *Controller[T]) Has(id string) bool {
	_, ok := c.findRow(id)
	return ok
}

// findRow returns the held copy of a row by identity.
func (c *Controller[T]) findRow(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, row := range c.rows {
		if c.cfg.ID(row) == id {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// removeRow drops a row after a confirmed delete and rebalances: the
// server total shrinks by one, and emptying a page past the first walks
// back one page (the caller re-fetches).
func (c *Controller[T]) removeRow(id string) (refetch bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, row := range c.rows {
		if c.cfg.ID(row) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	c.rows = append(c.rows[:idx], c.rows[idx+1:]...)
	if c.total > 0 {
		c.total--
	}
	if len(c.rows) == 0 && c.page > 1 {
		c.page--
		return true
	}
	return false
}

// patchRow applies a server-confirmed field change to the held copy of a
// row, preserving its position. Used for toggles, where a full re-fetch
// would flicker and can shift pagination.
func (c *Controller[T]) patchRow(id string, patch func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.rows {
		if c.cfg.ID(c.rows[i]) == id {
			patch(&c.rows[i])
			return
		}
	}
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
