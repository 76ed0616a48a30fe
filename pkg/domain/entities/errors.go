package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Error kinds surfaced by every mutating operation. Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNoRecipe          = errors.New("no recipe")
)

// Invalidf builds an ErrInvalidInput with a formatted reason
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound naming the missing entity
func NotFoundf(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Shortfall describes one material that cannot cover a production requirement
type Shortfall struct {
	MaterialID   string          `json:"materialId"`
	MaterialName string          `json:"materialName"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
}

// Missing returns how much stock is lacking
func (s Shortfall) Missing() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

// InsufficientStockError lists every material short for a production run
type InsufficientStockError struct {
	ProductID  string
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s needs %s, has %s", s.MaterialName, s.Required, s.Available))
	}
	return fmt.Sprintf("insufficient stock for product %q: %s", e.ProductID, strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrInsufficientStock) match
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
