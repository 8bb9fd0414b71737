package api

import "encoding/json"

// Response is the standard envelope the platform API wraps every payload in.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListQuery carries the server-side portion of a list request.
type ListQuery struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// ListPage is one page of a collection as reported by the server. Rows stay
// raw because the key they arrive under ("games", "payouts", "users", ...)
// varies per resource; decoding is deferred to the caller.
type ListPage struct {
	Rows       json.RawMessage
	Total      int
	TotalPages int
}

// DecodeRows unmarshals the raw rows of a ListPage into concrete records.
func DecodeRows[T any](p ListPage) ([]T, error) {
	if len(p.Rows) == 0 {
		return nil, nil
	}
	var rows []T
	if err := json.Unmarshal(p.Rows, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
