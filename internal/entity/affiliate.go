package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spinforge/partnerctl/internal/listview"
)

// Commission is one period's earnings on a referred user's activity.
// Computation happens server-side; this is a display projection.
type Commission struct {
	ID           string  `json:"id"`
	Period       string  `json:"period"` // YYYY-MM
	Username     string  `json:"username"`
	DepositTotal float64 `json:"depositTotal"`
	Rate         float64 `json:"rate"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"` // pending | approved | paid
	CreatedAt    string  `json:"createdAt"`
}

func CommissionsConfig(pageSize int) listview.Config[Commission] {
	return listview.Config[Commission]{
		Resource: "/affiliate/commissions",
		RowsKey:  "commissions",
		PageSize: pageSize,
		Filters: map[string][]string{
			"status": {"pending", "approved", "paid"},
			"period": nil,
		},
		SearchFields: []func(Commission) string{
			func(c Commission) string { return c.Username },
			func(c Commission) string { return c.Period },
		},
		SortFields: map[string]func(a, b Commission) int{
			"period": func(a, b Commission) int { return strings.Compare(a.Period, b.Period) },
			"amount": func(a, b Commission) int { return compareFloat(a.Amount, b.Amount) },
		},
		SearchScope: listview.SearchScopePage,
		ID:          func(c Commission) string { return c.ID },
	}
}

func CommissionColumns() []string {
	return []string{"ID", "Period", "User", "Deposits", "Rate", "Amount", "Status"}
}

func (c Commission) Cells() []string {
	return []string{
		c.ID,
		c.Period,
		c.Username,
		money(c.DepositTotal, c.Currency),
		fmt.Sprintf("%.1f%%", c.Rate),
		money(c.Amount, c.Currency),
		c.Status,
	}
}

// Payout is a requested or settled withdrawal of earned commission.
type Payout struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Method      string  `json:"method"`
	Status      string  `json:"status"` // pending | processing | completed | rejected
	RequestedAt string  `json:"requestedAt"`
	ProcessedAt string  `json:"processedAt,omitempty"`
}

func PayoutsConfig(pageSize int) listview.Config[Payout] {
	return listview.Config[Payout]{
		Resource: "/affiliate/payouts",
		RowsKey:  "payouts",
		PageSize: pageSize,
		Filters: map[string][]string{
			"status": {"pending", "processing", "completed", "rejected"},
		},
		SearchFields: []func(Payout) string{
			func(p Payout) string { return p.Method },
		},
		SortFields: map[string]func(a, b Payout) int{
			"amount":    func(a, b Payout) int { return compareFloat(a.Amount, b.Amount) },
			"requested": func(a, b Payout) int { return strings.Compare(a.RequestedAt, b.RequestedAt) },
		},
		SearchScope: listview.SearchScopePage,
		ID:          func(p Payout) string { return p.ID },
	}
}

// MinPayoutAmount mirrors the platform's payout floor; requests below it
// are rejected client-side before any network call.
const MinPayoutAmount = 50

// PayoutRequest asks for a withdrawal against the current balance.
type PayoutRequest struct {
	Amount   float64 `json:"amount"`
	MethodID string  `json:"methodId"`
}

func (p PayoutRequest) Validate() error {
	if p.Amount < MinPayoutAmount {
		return fmt.Errorf("amount must be at least %d", MinPayoutAmount)
	}
	if strings.TrimSpace(p.MethodID) == "" {
		return fmt.Errorf("a payment method is required")
	}
	return nil
}

func PayoutColumns() []string {
	return []string{"ID", "Amount", "Method", "Status", "Requested", "Processed"}
}

func (p Payout) Cells() []string {
	processed := p.ProcessedAt
	if processed == "" {
		processed = "-"
	}
	return []string{p.ID, money(p.Amount, p.Currency), p.Method, p.Status, p.RequestedAt, processed}
}

// Registration is a referred user signup.
type Registration struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Status        string `json:"status"` // active | blocked
	DepositsCount int    `json:"depositsCount"`
	RegisteredAt  string `json:"registeredAt"`
}

func RegistrationsConfig(pageSize int) listview.Config[Registration] {
	return listview.Config[Registration]{
		Resource: "/affiliate/registrations",
		RowsKey:  "users",
		PageSize: pageSize,
		Filters: map[string][]string{
			"status": {"active", "blocked"},
		},
		SearchFields: []func(Registration) string{
			func(r Registration) string { return r.Username },
			func(r Registration) string { return r.Email },
		},
		SortFields: map[string]func(a, b Registration) int{
			"registered": func(a, b Registration) int { return strings.Compare(a.RegisteredAt, b.RegisteredAt) },
			"deposits":   func(a, b Registration) int { return a.DepositsCount - b.DepositsCount },
		},
		SearchScope: listview.SearchScopePage,
		ID:          func(r Registration) string { return r.ID },
	}
}

func RegistrationColumns() []string {
	return []string{"ID", "Username", "Email", "Status", "Deposits", "Registered"}
}

func (r Registration) Cells() []string {
	return []string{r.ID, r.Username, r.Email, r.Status, strconv.Itoa(r.DepositsCount), r.RegisteredAt}
}

// Deposit is a referred user's deposit, the basis of commission.
type Deposit struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"` // confirmed | pending | failed
	CreatedAt string  `json:"createdAt"`
}

func DepositsConfig(pageSize int) listview.Config[Deposit] {
	return listview.Config[Deposit]{
		Resource: "/affiliate/deposits",
		RowsKey:  "deposits",
		PageSize: pageSize,
		Filters: map[string][]string{
			"status": {"confirmed", "pending", "failed"},
		},
		SearchFields: []func(Deposit) string{
			func(d Deposit) string { return d.Username },
		},
		SortFields: map[string]func(a, b Deposit) int{
			"amount":  func(a, b Deposit) int { return compareFloat(a.Amount, b.Amount) },
			"created": func(a, b Deposit) int { return strings.Compare(a.CreatedAt, b.CreatedAt) },
		},
		SearchScope: listview.SearchScopePage,
		ID:          func(d Deposit) string { return d.ID },
	}
}

func DepositColumns() []string {
	return []string{"ID", "User", "Amount", "Status", "Date"}
}

func (d Deposit) Cells() []string {
	return []string{d.ID, d.Username, money(d.Amount, d.Currency), d.Status, d.CreatedAt}
}

func money(amount float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
