package listview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinforge/partnerctl/internal/api"
)

func TestFetchFirstPage(t *testing.T) {
	backend := newFakeBackend(seedRows(23))
	defer backend.Close()

	ctrl := NewController(backend.client(), testConfig(10))
	require.NoError(t, ctrl.Refresh(context.Background()))

	assert.Len(t, ctrl.Rows(), 10)
	assert.Equal(t, 1, ctrl.Page())
	assert.Equal(t, 23, ctrl.Total())
	assert.Equal(t, 3, ctrl.TotalPages())
	assert.False(t, ctrl.Loading())
}

func TestSetPageIgnoresOutOfRange(t *testing.T) {
	backend := newFakeBackend(seedRows(23))
	defer backend.Close()

	ctx := context.Background()
	ctrl := NewController(backend.client(), testConfig(10))
	require.NoError(t, ctrl.Refresh(ctx))

	before := len(backend.listRequests())

	require.NoError(t, ctrl.SetPage(ctx, 0))
	require.NoError(t, ctrl.SetPage(ctx, -3))
	require.NoError(t, ctrl.SetPage(ctx, 4))
	require.NoError(t, ctrl.SetPage(ctx, 1)) // already there

	assert.Equal(t, 1, ctrl.Page())
	assert.Equal(t, before, len(backend.listRequests()), "out-of-range pages must not be fetched")

	require.NoError(t, ctrl.SetPage(ctx, 3))
	assert.Equal(t, 3, ctrl.Page())
	assert.Len(t, ctrl.Rows(), 3)
}

func TestFilterResetsPage(t *testing.T) {
	backend := newFakeBackend(seedRows(23))
	defer backend.Close()

	ctx := context.Background()
	ctrl := NewController(backend.client(), testConfig(10))
	require.NoError(t, ctrl.Refresh(ctx))
	require.NoError(t, ctrl.SetPage(ctx, 2))

	require.NoError(t, ctrl.SetFilter(ctx, "status", "active"))

	assert.Equal(t, 1, ctrl.Page())
	reqs := backend.listRequests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, "1", last.URL.Query().Get("page"))
	assert.Equal(t, "active", last.URL.Query().Get("status"))
}

func TestFilterRejectsIllegalValue(t *testing.T) {
	backend := newFakeBackend(seedRows(5))
	defer backend.Close()

	ctrl := NewController(backend.client(), testConfig(10))
	err := ctrl.SetFilter(context.Background(), "status", "banana")
	require.Error(t, err)
	assert.Empty(t, backend.listRequests(), "an illegal filter value must not fetch")
}

func TestUndeclaredFilterPanics(t *testing.T) {
	backend := newFakeBackend(seedRows(5))
	defer backend.Close()

	ctrl := NewController(backend.client(), testConfig(10))
	assert.Panics(t, func() {
		ctrl.SetFilter(context.Background(), "colour", "red")
	})
}

func TestSearchTermResetsPageAndFetchesOnce(t *testing.T) {
	backend := newFakeBackend(seedRows(23))
	defer backend.Close()

	ctx := context.Background()
	ctrl := NewController(backend.client(), testConfig(10))
	require.NoError(t, ctrl.Refresh(ctx))
	require.NoError(t, ctrl.SetPage(ctx, 2))

	require.NoError(t, ctrl.SetSearchTerm(ctx, "row"))
	assert.Equal(t, 1, ctrl.Page())
	reqs := backend.listRequests()
	assert.Equal(t, "1", reqs[len(reqs)-1].URL.Query().Get("page"))

	// A repeated identical term must not fetch again.
	count := len(backend.listRequests())
	require.NoError(t, ctrl.SetSearchTerm(ctx, "row"))
	assert.Equal(t, count, len(backend.listRequests()))
}

func TestPageScopeSearchIsLocal(t *testing.T) {
	backend := newFakeBackend(seedRows(23))
	defer backend.Close()

	ctx := context.Background()
	ctrl := NewController(backend.client(), testConfig(10))
	require.NoError(t, ctrl.Refresh(ctx))

	count := len(backend.listRequests())
	require.NoError(t, ctrl.SetSearchTerm(ctx, "row 03"))

	// Page-scope search on page 1 narrows the held rows without a fetch.
	assert.Equal(t, count, len(backend.listRequests()))
	visible := ctrl.VisibleRows()
	require.Len(t, visible, 1)
	assert.Equal(t, "row 03", visible[0].Name)

	// The server total is untouched: summaries keep reporting 23 even
	// though only one row is visible.
	assert.Equal(t, 23, ctrl.Total())
	assert.Len(t, ctrl.Rows(), 10)

	// Search never touches the query string for page-scope entities.
	for _, r := range backend.listRequests() {
		assert.Empty(t, r.URL.Query().Get("search"))
	}
}

func TestServerScopeSearchIsForwarded(t *testing.T) {
	backend := newFakeBackend(seedRows(23))
	defer backend.Close()

	cfg := testConfig(10)
	cfg.SearchScope = SearchScopeServer

	ctx := context.Background()
	ctrl := NewController(backend.client(), cfg)
	require.NoError(t, ctrl.Refresh(ctx))
	require.NoError(t, ctrl.SetSearchTerm(ctx, "row 03"))

	reqs := backend.listRequests()
	assert.Equal(t, "row 03", reqs[len(reqs)-1].URL.Query().Get("search"))
}

func TestSortIsLocalAndToggles(t *testing.T) {
	backend := newFakeBackend(seedRows(23))
	defer backend.Close()

	ctx := context.Background()
	ctrl := NewController(backend.client(), testConfig(10))
	require.NoError(t, ctrl.Refresh(ctx))
	count := len(backend.listRequests())

	ctrl.SetSort("name")
	rows := ctrl.Rows()
	assert.Equal(t, "row 01", rows[0].Name)
	key, dir := ctrl.Sort()
	assert.Equal(t, "name", key)
	assert.Equal(t, Ascending, dir)

	ctrl.SetSort("name")
	rows = ctrl.Rows()
	assert.Equal(t, "row 10", rows[0].Name, "second select flips to descending")
	_, dir = ctrl.Sort()
	assert.Equal(t, Descending, dir)

	// Sorting reorders the held page only; nothing was fetched, so the
	// rows are still page 1's ten, not the collection's extremes.
	assert.Equal(t, count, len(backend.listRequests()))
	assert.Len(t, rows, 10)

	ctrl.SetSort("bogus")
	k, _ := ctrl.Sort()
	assert.Equal(t, "name", k, "unknown sort keys are ignored")
}

func TestFailedFetchKeepsPreviousRows(t *testing.T) {
	backend := newFakeBackend(seedRows(23))
	defer backend.Close()

	ctx := context.Background()
	ctrl := NewController(backend.client(), testConfig(10))
	require.NoError(t, ctrl.Refresh(ctx))
	held := ctrl.Rows()

	backend.mu.Lock()
	backend.failWith = http.StatusInternalServerError
	backend.mu.Unlock()

	err := ctrl.Refresh(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")

	assert.Equal(t, held, ctrl.Rows(), "a failed fetch must not clear the displayed rows")
	assert.False(t, ctrl.Loading())

	// The error is surfaced exactly once.
	require.Error(t, ctrl.TakeError())
	assert.NoError(t, ctrl.TakeError())
}

func TestStaleResponseDiscarded(t *testing.T) {
	// Request 1 (the stale fetch) blocks until released; request 2 (the
	// newer fetch) answers immediately with different content.
	arrived := make(chan struct{})
	release := make(chan struct{})
	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		name := "fresh"
		if n == 1 {
			close(arrived)
			<-release
			name = "stale"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"rows":       []testRow{{ID: "r1", Name: name}},
			"total":      1,
			"totalPages": 1,
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, nil, 5*time.Second)
	ctrl := NewController(client, testConfig(10))

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(ctx) }()
	<-arrived

	// A newer query supersedes the in-flight one.
	require.NoError(t, ctrl.SetFilter(ctx, "status", "active"))
	require.Len(t, ctrl.Rows(), 1)
	assert.Equal(t, "fresh", ctrl.Rows()[0].Name)

	close(release)
	require.NoError(t, <-done)

	// The stale response arrived after the fresh one and must have been
	// dropped, not applied.
	assert.Equal(t, "fresh", ctrl.Rows()[0].Name)
}

func TestPageClampedWhenTotalsShrink(t *testing.T) {
	backend := newFakeBackend(seedRows(21))
	defer backend.Close()

	ctx := context.Background()
	ctrl := NewController(backend.client(), testConfig(10))
	require.NoError(t, ctrl.Refresh(ctx))
	require.NoError(t, ctrl.SetPage(ctx, 3))
	require.Equal(t, 3, ctrl.Page())

	// Eleven rows vanish server-side; page 3 no longer exists.
	backend.mu.Lock()
	backend.rows = backend.rows[:10]
	backend.mu.Unlock()

	require.NoError(t, ctrl.Refresh(ctx))

	assert.Equal(t, 1, ctrl.Page())
	assert.Len(t, ctrl.Rows(), 10)
	assert.Equal(t, 10, ctrl.Total())
}

func TestSeedValidatesFilters(t *testing.T) {
	backend := newFakeBackend(seedRows(5))
	defer backend.Close()

	ctrl := NewController(backend.client(), testConfig(10))
	require.Error(t, ctrl.Seed(1, "", map[string]string{"colour": "red"}))
	require.Error(t, ctrl.Seed(1, "", map[string]string{"status": "banana"}))
	require.NoError(t, ctrl.Seed(2, "term", map[string]string{"status": "active"}))

	assert.Equal(t, 2, ctrl.Page())
	assert.Equal(t, "term", ctrl.SearchTerm())
	assert.Equal(t, "active", ctrl.Filter("status"))
	assert.Empty(t, backend.listRequests(), "seeding must not fetch")
}
