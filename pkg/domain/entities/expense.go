package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operational cost outside raw materials
type Expense struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

// NewExpense creates a validated Expense without an ID
func NewExpense(date time.Time, category string, amount decimal.Decimal, note string) (*Expense, error) {
	e := &Expense{Date: date, Category: category, Amount: amount, Note: note}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the editable fields of an expense
func (e *Expense) Validate() error {
	if e.Category == "" {
		return Invalidf("expense category cannot be empty")
	}
	if e.Amount.IsNegative() {
		return Invalidf("expense amount cannot be negative, got %s", e.Amount)
	}
	return nil
}

// AppSettings holds the shop branding shown by every surface
type AppSettings struct {
	AppName    string `json:"appName"`
	AppTagline string `json:"appTagline,omitempty"`
	AppIconURL string `json:"appIconUrl,omitempty"`
}

// DefaultSettings is used when no snapshot exists yet
func DefaultSettings() AppSettings {
	return AppSettings{
		AppName:    "NastarKu",
		AppTagline: "Manajemen UMKM Kue",
	}
}
