package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMaterial_Validation(t *testing.T) {
	valid, err := NewMaterial("Tepung Terigu", Gram, decimal.NewFromInt(12), decimal.NewFromInt(5000), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Expected valid material creation to succeed: %v", err)
	}
	if !valid.Stock.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected stock 5000, got %s", valid.Stock)
	}

	testCases := []struct {
		name     string
		material string
		unit     Unit
		price    int64
		minStock int64
	}{
		{"empty name", "", Gram, 12, 0},
		{"unknown unit", "Tepung", Unit("sack"), 12, 0},
		{"negative price", "Tepung", Gram, -1, 0},
		{"negative min stock", "Tepung", Gram, 12, -5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMaterial(tc.material, tc.unit, decimal.NewFromInt(tc.price), decimal.Zero, decimal.NewFromInt(tc.minStock))
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestMaterial_NegativeStockAllowed(t *testing.T) {
	m, err := NewMaterial("Mentega", Gram, decimal.NewFromInt(50), decimal.NewFromInt(-20), decimal.Zero)
	if err != nil {
		t.Fatalf("Expected negative stock to be accepted: %v", err)
	}
	if !m.IsOutOfStock() {
		t.Error("Expected negative stock to count as out of stock")
	}
}

func TestMaterial_StockFlags(t *testing.T) {
	testCases := []struct {
		name       string
		stock      int64
		minStock   int64
		lowStock   bool
		outOfStock bool
	}{
		{"above threshold", 5000, 1000, false, false},
		{"at threshold", 1000, 1000, true, false},
		{"below threshold", 10, 1000, true, false},
		{"zero", 0, 0, true, true},
		{"negative", -5, 0, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Material{Stock: decimal.NewFromInt(tc.stock), MinStock: decimal.NewFromInt(tc.minStock)}
			if m.IsLowStock() != tc.lowStock {
				t.Errorf("Expected IsLowStock %v, got %v", tc.lowStock, m.IsLowStock())
			}
			if m.IsOutOfStock() != tc.outOfStock {
				t.Errorf("Expected IsOutOfStock %v, got %v", tc.outOfStock, m.IsOutOfStock())
			}
		})
	}
}

func TestMaterialTransaction_Validation(t *testing.T) {
	now := time.Now()

	tx, err := NewMaterialTransaction("m1", In, decimal.NewFromInt(2000), now, "Beli")
	if err != nil {
		t.Fatalf("Expected valid transaction creation to succeed: %v", err)
	}
	if !tx.Type.Delta(tx.Quantity).Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected in delta +2000, got %s", tx.Type.Delta(tx.Quantity))
	}
	if !Out.Delta(decimal.NewFromInt(500)).Equal(decimal.NewFromInt(-500)) {
		t.Errorf("Expected out delta -500, got %s", Out.Delta(decimal.NewFromInt(500)))
	}

	testCases := []struct {
		name       string
		materialID string
		txType     TransactionType
		quantity   decimal.Decimal
	}{
		{"empty material", "", In, decimal.NewFromInt(1)},
		{"unknown type", "m1", TransactionType("adjust"), decimal.NewFromInt(1)},
		{"zero quantity", "m1", In, decimal.Zero},
		{"negative quantity", "m1", Out, decimal.NewFromInt(-3)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMaterialTransaction(tc.materialID, tc.txType, tc.quantity, now, "")
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
