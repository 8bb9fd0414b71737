package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okServer(t *testing.T, capture *[]*http.Request) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = append(*capture, r.Clone(r.Context()))
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
}

func TestRequestHeaders(t *testing.T) {
	var seen []*http.Request
	srv := okServer(t, &seen)
	defer srv.Close()

	client := NewClient(srv.URL, TokenFunc(func() (string, error) { return "tok-1", nil }), 5*time.Second)
	require.NoError(t, client.Get(context.Background(), "/ping", "", nil))

	require.Len(t, seen, 1)
	assert.Equal(t, "Bearer tok-1", seen[0].Header.Get("Authorization"))
	assert.Equal(t, "application/json", seen[0].Header.Get("Accept"))
	assert.NotEmpty(t, seen[0].Header.Get("X-Request-ID"))
}

func TestTokenReadPerRequest(t *testing.T) {
	var seen []*http.Request
	srv := okServer(t, &seen)
	defer srv.Close()

	calls := 0
	client := NewClient(srv.URL, TokenFunc(func() (string, error) {
		calls++
		return fmt.Sprintf("tok-%d", calls), nil
	}), 5*time.Second)

	ctx := context.Background()
	require.NoError(t, client.Get(ctx, "/a", "", nil))
	require.NoError(t, client.Get(ctx, "/b", "", nil))

	// A login that lands mid-process must show up on the next call, so
	// the token is never cached inside the client.
	require.Len(t, seen, 2)
	assert.Equal(t, "Bearer tok-1", seen[0].Header.Get("Authorization"))
	assert.Equal(t, "Bearer tok-2", seen[1].Header.Get("Authorization"))
}

func TestEmptyTokenOmitsHeader(t *testing.T) {
	var seen []*http.Request
	srv := okServer(t, &seen)
	defer srv.Close()

	client := NewClient(srv.URL, TokenFunc(func() (string, error) { return "", nil }), 5*time.Second)
	require.NoError(t, client.Get(context.Background(), "/ping", "", nil))

	require.Len(t, seen, 1)
	assert.Empty(t, seen[0].Header.Get("Authorization"))
}

func TestServerMessagePreference(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message wins over error", `{"success":false,"message":"game not found","error":"ignored"}`, "game not found"},
		{"error used when no message", `{"success":false,"error":"bad input"}`, "bad input"},
		{"default when neither", `{"success":false}`, defaultErrorMessage},
		{"default on non-json body", `<html>proxy error</html>`, defaultErrorMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil, 5*time.Second)
			err := client.Get(context.Background(), "/x", "", nil)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestEnvelopeFailureIsError(t *testing.T) {
	// HTTP 200 with success:false is still a failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "limit exceeded"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, 5*time.Second)
	err := client.Get(context.Background(), "/x", "", nil)
	require.Error(t, err)
	assert.Equal(t, "limit exceeded", err.Error())
}

func TestStatusSentinels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/401":
			w.WriteHeader(http.StatusUnauthorized)
		case "/403":
			w.WriteHeader(http.StatusForbidden)
		case "/404":
			w.WriteHeader(http.StatusNotFound)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "nope"})
	}))
	defer srv.Close()

	ctx := context.Background()
	client := NewClient(srv.URL, nil, 5*time.Second)

	assert.ErrorIs(t, client.Get(ctx, "/401", "", nil), ErrUnauthorized)
	assert.ErrorIs(t, client.Get(ctx, "/403", "", nil), ErrUnauthorized)
	assert.ErrorIs(t, client.Get(ctx, "/404", "", nil), ErrNotFound)
}

func TestConnectionFailure(t *testing.T) {
	// A server that is immediately closed leaves a port nothing listens on.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, nil, time.Second)
	err := client.Get(context.Background(), "/ping", "", nil)
	assert.ErrorIs(t, err, ErrCannotConnect)
}

func TestListDecodesEnvelope(t *testing.T) {
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Clone(r.Context()))
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"games":      []map[string]any{{"id": "g1", "name": "Book of Ra"}, {"id": "g2", "name": "Aviator"}},
			"total":      42,
			"totalPages": 5,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, 5*time.Second)
	page, err := client.List(context.Background(), "/admin/games", "games", ListQuery{
		Page:    2,
		Limit:   10,
		Search:  "book",
		Filters: map[string]string{"category": "slots"},
	})
	require.NoError(t, err)

	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 5, page.TotalPages)

	type game struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	rows, err := DecodeRows[game](page)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Book of Ra", rows[0].Name)

	require.Len(t, seen, 1)
	q := seen[0].URL.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "book", q.Get("search"))
	assert.Equal(t, "slots", q.Get("category"))
}

func TestDecodeFieldFallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No "profile" field: the payload sits at the top level.
		json.NewEncoder(w).Encode(map[string]any{"success": true, "username": "acme", "role": "affiliate"})
	}))
	defer srv.Close()

	var out struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	client := NewClient(srv.URL, nil, 5*time.Second)
	require.NoError(t, client.Get(context.Background(), "/auth/me", "profile", &out))
	assert.Equal(t, "acme", out.Username)
	assert.Equal(t, "affiliate", out.Role)
}
