package entity

import (
	"fmt"
	"strings"

	"github.com/spinforge/partnerctl/internal/listview"
)

// PaymentMethodTypes are the payout channels the platform settles over.
var PaymentMethodTypes = []string{"bank", "crypto", "ewallet"}

// PaymentMethod is a saved payout destination.
type PaymentMethod struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Label     string `json:"label"`
	Details   string `json:"details"` // masked account / wallet address
	IsPrimary bool   `json:"isPrimary"`
	CreatedAt string `json:"createdAt"`
}

func PaymentMethodsConfig(pageSize int) listview.Config[PaymentMethod] {
	return listview.Config[PaymentMethod]{
		Resource: "/affiliate/payment-methods",
		RowsKey:  "methods",
		PageSize: pageSize,
		Filters: map[string][]string{
			"type": PaymentMethodTypes,
		},
		SearchFields: []func(PaymentMethod) string{
			func(m PaymentMethod) string { return m.Label },
		},
		SortFields: map[string]func(a, b PaymentMethod) int{
			"label": func(a, b PaymentMethod) int { return strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label)) },
		},
		SearchScope: listview.SearchScopePage,
		ID:          func(m PaymentMethod) string { return m.ID },
	}
}

func PaymentMethodToggles() map[string]listview.ToggleSpec[PaymentMethod] {
	return map[string]listview.ToggleSpec[PaymentMethod]{
		"primary": {
			Route: func(id string) string { return "/affiliate/payment-methods/" + id + "/primary" },
			Field: "isPrimary",
			Get:   func(m PaymentMethod) bool { return m.IsPrimary },
			Set:   func(m *PaymentMethod, v bool) { m.IsPrimary = v },
		},
	}
}

// PaymentMethodPayload is the create/update body for a payout destination.
type PaymentMethodPayload struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Details string `json:"details"`
}

func (p PaymentMethodPayload) Validate() error {
	if !stringIn(p.Type, PaymentMethodTypes) {
		return fmt.Errorf("type must be one of: %s", strings.Join(PaymentMethodTypes, ", "))
	}
	if strings.TrimSpace(p.Label) == "" {
		return fmt.Errorf("label is required")
	}
	if strings.TrimSpace(p.Details) == "" {
		return fmt.Errorf("details are required")
	}
	return nil
}

func PaymentMethodColumns() []string {
	return []string{"ID", "Type", "Label", "Details", "Primary"}
}

func (m PaymentMethod) Cells() []string {
	return []string{m.ID, m.Type, m.Label, m.Details, yesNo(m.IsPrimary)}
}
