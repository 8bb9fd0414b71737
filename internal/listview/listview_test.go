package listview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spinforge/partnerctl/internal/api"
)

// testRow is the minimal entity the controller tests revolve around.
type testRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"isActive"`
}

func testConfig(pageSize int) Config[testRow] {
	return Config[testRow]{
		Resource: "/rows",
		RowsKey:  "rows",
		PageSize: pageSize,
		Filters: map[string][]string{
			"status": {"active", "inactive"},
		},
		SearchFields: []func(testRow) string{
			func(r testRow) string { return r.Name },
		},
		SortFields: map[string]func(a, b testRow) int{
			"name": func(a, b testRow) int { return strings.Compare(a.Name, b.Name) },
		},
		SearchScope: SearchScopePage,
		ID:          func(r testRow) string { return r.ID },
	}
}

func seedRows(n int) []testRow {
	rows := make([]testRow, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, testRow{
			ID:     fmt.Sprintf("r%d", i),
			Name:   fmt.Sprintf("row %02d", i),
			Active: i%2 == 1,
		})
	}
	return rows
}

// fakeBackend serves /rows with offset pagination and a status filter, and
// records every request it sees.
type fakeBackend struct {
	mu       sync.Mutex
	rows     []testRow
	requests []*http.Request
	failWith int // when non-zero, list responses fail with this status

	server *httptest.Server
}

func newFakeBackend(rows []testRow) *fakeBackend {
	b := &fakeBackend{rows: rows}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

func (b *fakeBackend) Close() { b.server.Close() }

func (b *fakeBackend) client() *api.Client {
	return api.NewClient(b.server.URL, api.TokenFunc(func() (string, error) { return "test-token", nil }), 5*time.Second)
}

func (b *fakeBackend) listRequests() []*http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*http.Request
	for _, r := range b.requests {
		if r.Method == http.MethodGet && r.URL.Path == "/rows" {
			out = append(out, r)
		}
	}
	return out
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Clone(r.Context()))
	fail := b.failWith
	b.mu.Unlock()

	if r.Method != http.MethodGet || r.URL.Path != "/rows" {
		b.handleMutation(w, r)
		return
	}

	if fail != 0 {
		w.WriteHeader(fail)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "backend unavailable"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	b.mu.Lock()
	matching := make([]testRow, 0, len(b.rows))
	status := r.URL.Query().Get("status")
	for _, row := range b.rows {
		if status == "active" && !row.Active {
			continue
		}
		if status == "inactive" && row.Active {
			continue
		}
		matching = append(matching, row)
	}
	b.mu.Unlock()

	total := len(matching)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	json.NewEncoder(w).Encode(map[string]any{
		"success":    true,
		"rows":       matching[start:end],
		"total":      total,
		"totalPages": totalPages,
	})
}

func (b *fakeBackend) handleMutation(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/rows/"):
		id := strings.TrimPrefix(r.URL.Path, "/rows/")
		b.mu.Lock()
		for i, row := range b.rows {
			if row.ID == id {
				b.rows = append(b.rows[:i], b.rows[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "deleted"})

	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/status"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/rows/"), "/status")
		var body struct {
			Active bool `json:"isActive"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		for i := range b.rows {
			if b.rows[i].ID == id {
				b.rows[i].Active = body.Active
			}
		}
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"success": true})

	case r.Method == http.MethodPost && r.URL.Path == "/rows":
		var row testRow
		json.NewDecoder(r.Body).Decode(&row)
		b.mu.Lock()
		row.ID = fmt.Sprintf("r%d", len(b.rows)+1000)
		b.rows = append(b.rows, row)
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"success": true})

	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "no such route"})
	}
}

func testToggles() map[string]ToggleSpec[testRow] {
	return map[string]ToggleSpec[testRow]{
		"status": {
			Route: func(id string) string { return "/rows/" + id + "/status" },
			Field: "isActive",
			Get:   func(r testRow) bool { return r.Active },
			Set:   func(r *testRow, v bool) { r.Active = v },
		},
	}
}

// namedPayload is a minimal validating payload.
type namedPayload struct {
	Name string `json:"name"`
}

func (p namedPayload) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
