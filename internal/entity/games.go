// Package entity declares the portal's row types and wires each one into a
// list-view configuration: endpoint, rows key, filters, searchable fields,
// sort comparators, and toggle routes.
package entity

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spinforge/partnerctl/internal/listview"
)

// GameCategories are the catalog categories the platform accepts.
var GameCategories = []string{"slots", "live", "table", "crash", "virtual"}

// Game is one catalog entry as the admin endpoints report it.
type Game struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Provider   string  `json:"provider"`
	Category   string  `json:"category"`
	ImageURL   string  `json:"image"`
	RTP        float64 `json:"rtp"`
	IsActive   bool    `json:"isActive"`
	IsFeatured bool    `json:"isFeatured"`
	CreatedAt  string  `json:"createdAt"`
}

func GamesConfig(pageSize int) listview.Config[Game] {
	return listview.Config[Game]{
		Resource: "/admin/games",
		RowsKey:  "games",
		PageSize: pageSize,
		Filters: map[string][]string{
			"status":   {"active", "inactive"},
			"category": GameCategories,
			"provider": nil, // any provider code the catalog reports
		},
		SearchFields: []func(Game) string{
			func(g Game) string { return g.Name },
			func(g Game) string { return g.Provider },
		},
		SortFields: map[string]func(a, b Game) int{
			"name":     func(a, b Game) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
			"provider": func(a, b Game) int { return strings.Compare(strings.ToLower(a.Provider), strings.ToLower(b.Provider)) },
			"rtp":      func(a, b Game) int { return compareFloat(a.RTP, b.RTP) },
			"created":  func(a, b Game) int { return strings.Compare(a.CreatedAt, b.CreatedAt) },
		},
		SearchScope: listview.SearchScopePage,
		ID:          func(g Game) string { return g.ID },
	}
}

func GameToggles() map[string]listview.ToggleSpec[Game] {
	return map[string]listview.ToggleSpec[Game]{
		"status": {
			Route: func(id string) string { return "/admin/games/" + id + "/status" },
			Field: "isActive",
			Get:   func(g Game) bool { return g.IsActive },
			Set:   func(g *Game, v bool) { g.IsActive = v },
		},
		"featured": {
			Route: func(id string) string { return "/admin/games/" + id + "/featured" },
			Field: "isFeatured",
			Get:   func(g Game) bool { return g.IsFeatured },
			Set:   func(g *Game, v bool) { g.IsFeatured = v },
		},
	}
}

// GamePayload is the create/update body for a catalog entry.
type GamePayload struct {
	Name     string  `json:"name"`
	Provider string  `json:"provider"`
	Category string  `json:"category"`
	ImageURL string  `json:"image,omitempty"`
	RTP      float64 `json:"rtp,omitempty"`
}

func (p GamePayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.Provider) == "" {
		return fmt.Errorf("provider is required")
	}
	if !stringIn(p.Category, GameCategories) {
		return fmt.Errorf("category must be one of: %s", strings.Join(GameCategories, ", "))
	}
	if p.ImageURL != "" {
		if err := validateURL(p.ImageURL); err != nil {
			return fmt.Errorf("image: %w", err)
		}
	}
	if p.RTP < 0 || p.RTP > 100 {
		return fmt.Errorf("rtp must be between 0 and 100")
	}
	return nil
}

func GameColumns() []string {
	return []string{"ID", "Name", "Provider", "Category", "RTP", "Active", "Featured"}
}

func (g Game) Cells() []string {
	return []string{
		g.ID,
		g.Name,
		g.Provider,
		g.Category,
		fmt.Sprintf("%.2f", g.RTP),
		yesNo(g.IsActive),
		yesNo(g.IsFeatured),
	}
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not a valid http(s) URL", raw)
	}
	return nil
}

func stringIn(v string, values []string) bool {
	for _, value := range values {
		if v == value {
			return true
		}
	}
	return false
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
