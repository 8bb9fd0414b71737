package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spinforge/partnerctl/internal/listview"
)

// Provider is a game studio in the platform catalog.
type Provider struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	LogoURL    string `json:"logo"`
	IsActive   bool   `json:"isActive"`
	GamesCount int    `json:"gamesCount"`
	CreatedAt  string `json:"createdAt"`
}

func ProvidersConfig(pageSize int) listview.Config[Provider] {
	return listview.Config[Provider]{
		Resource: "/admin/providers",
		RowsKey:  "providers",
		PageSize: pageSize,
		Filters: map[string][]string{
			"status": {"active", "inactive"},
		},
		SearchFields: []func(Provider) string{
			func(p Provider) string { return p.Name },
			func(p Provider) string { return p.Code },
		},
		SortFields: map[string]func(a, b Provider) int{
			"name":  func(a, b Provider) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
			"games": func(a, b Provider) int { return a.GamesCount - b.GamesCount },
		},
		SearchScope: listview.SearchScopePage,
		ID:          func(p Provider) string { return p.ID },
	}
}

func ProviderToggles() map[string]listview.ToggleSpec[Provider] {
	return map[string]listview.ToggleSpec[Provider]{
		"status": {
			Route: func(id string) string { return "/admin/providers/" + id + "/status" },
			Field: "isActive",
			Get:   func(p Provider) bool { return p.IsActive },
			Set:   func(p *Provider, v bool) { p.IsActive = v },
		},
	}
}

// ProviderPayload is the create/update body for a provider.
type ProviderPayload struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	LogoURL string `json:"logo,omitempty"`
}

func (p ProviderPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	code := strings.TrimSpace(p.Code)
	if code == "" {
		return fmt.Errorf("code is required")
	}
	if strings.ToLower(code) != code || strings.ContainsAny(code, " \t") {
		return fmt.Errorf("code must be lowercase with no spaces, got %q", p.Code)
	}
	if p.LogoURL != "" {
		if err := validateURL(p.LogoURL); err != nil {
			return fmt.Errorf("logo: %w", err)
		}
	}
	return nil
}

func ProviderColumns() []string {
	return []string{"ID", "Name", "Code", "Games", "Active"}
}

func (p Provider) Cells() []string {
	return []string{p.ID, p.Name, p.Code, strconv.Itoa(p.GamesCount), yesNo(p.IsActive)}
}
