package state

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

func sampleSnapshot() Snapshot {
	s := Empty()
	delivery := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	s.Materials = append(s.Materials,
		entities.Material{ID: "m1", Name: "Tepung", Unit: entities.Gram, PricePerUnit: decimal.NewFromInt(12),
			Stock: decimal.NewFromInt(5000), MinStock: decimal.NewFromInt(1000)},
		entities.Material{ID: "m2", Name: "Mentega", Unit: entities.Gram, PricePerUnit: decimal.NewFromInt(50),
			Stock: decimal.NewFromInt(100), MinStock: decimal.NewFromInt(500)},
	)
	s.Products = append(s.Products, entities.Product{ID: "p1", Name: "Nastar", Price: decimal.NewFromInt(85000),
		WholesalePrices: []entities.ProductPrice{{Name: "Reseller", Price: decimal.NewFromInt(75000)}}, Stock: 10})
	s.Recipes = append(s.Recipes, entities.Recipe{ID: "r1", ProductID: "p1", Yield: decimal.NewFromInt(1),
		Items: []entities.RecipeItem{{MaterialID: "m1", Quantity: decimal.NewFromInt(250)}}})
	s.Sales = append(s.Sales,
		entities.Sale{ID: "s1", CustomerName: "Bu Ani", Items: []entities.SaleItem{{ProductID: "p1", Quantity: 1}}},
		entities.Sale{ID: "s2", CustomerName: entities.DefaultCustomer},
		entities.Sale{ID: "s3", CustomerName: "Pak Budi", Status: entities.StatusPreOrder, DeliveryDate: &delivery},
		entities.Sale{ID: "s4", CustomerName: "Bu Ani"},
	)
	s.MaterialTransactions = append(s.MaterialTransactions,
		entities.MaterialTransaction{ID: "t1", MaterialID: "m1", Type: entities.In, Quantity: decimal.NewFromInt(2000)},
		entities.MaterialTransaction{ID: "t2", MaterialID: "m1", Type: entities.Out, Quantity: decimal.NewFromInt(500),
			SourceProductionID: "prod-1"},
		entities.MaterialTransaction{ID: "t3", MaterialID: "m2", Type: entities.Out, Quantity: decimal.NewFromInt(50)},
	)
	return s
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	original := sampleSnapshot()
	clone := original.Clone()

	clone.Materials[0].Stock = decimal.Zero
	clone.Products[0].WholesalePrices[0].Price = decimal.Zero
	clone.Recipes[0].Items[0].Quantity = decimal.Zero
	clone.Sales[0].Items[0].Quantity = 99
	*clone.Sales[2].DeliveryDate = time.Time{}
	clone.AppSettings.AppName = "Changed"

	if !original.Materials[0].Stock.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected original material stock 5000, got %s", original.Materials[0].Stock)
	}
	if !original.Products[0].WholesalePrices[0].Price.Equal(decimal.NewFromInt(75000)) {
		t.Errorf("Expected original wholesale price 75000, got %s", original.Products[0].WholesalePrices[0].Price)
	}
	if !original.Recipes[0].Items[0].Quantity.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected original recipe quantity 250, got %s", original.Recipes[0].Items[0].Quantity)
	}
	if original.Sales[0].Items[0].Quantity != 1 {
		t.Errorf("Expected original sale quantity 1, got %d", original.Sales[0].Items[0].Quantity)
	}
	if original.Sales[2].DeliveryDate.IsZero() {
		t.Error("Expected original delivery date to be untouched")
	}
	if original.AppSettings.AppName != "NastarKu" {
		t.Errorf("Expected original app name NastarKu, got %s", original.AppSettings.AppName)
	}
}

func TestSnapshot_CloneOfZeroValueHasEmptyCollections(t *testing.T) {
	clone := Snapshot{}.Clone()
	if clone.Materials == nil || clone.MaterialTransactions == nil || clone.Products == nil ||
		clone.Recipes == nil || clone.Productions == nil || clone.Sales == nil || clone.Expenses == nil {
		t.Fatal("Expected every collection of a clone to be non-nil")
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	s := sampleSnapshot()

	if m, ok := s.Material("m2"); !ok || m.Name != "Mentega" {
		t.Errorf("Expected to find Mentega, got %v %v", m, ok)
	}
	if _, ok := s.Material("missing"); ok {
		t.Error("Expected missing material lookup to fail")
	}
	if r, ok := s.RecipeFor("p1"); !ok || r.ID != "r1" {
		t.Errorf("Expected recipe r1 for p1, got %v %v", r, ok)
	}
	if name := s.MaterialName("gone"); name != MissingLabel {
		t.Errorf("Expected %s for missing material, got %s", MissingLabel, name)
	}
	if name := s.ProductName("p1"); name != "Nastar" {
		t.Errorf("Expected Nastar, got %s", name)
	}

	// Lookups return pointers into the snapshot
	m, _ := s.Material("m1")
	m.Stock = decimal.NewFromInt(1)
	if !s.Materials[0].Stock.Equal(decimal.NewFromInt(1)) {
		t.Error("Expected lookup pointer to alias snapshot storage")
	}
}

func TestSnapshot_TransactionQueries(t *testing.T) {
	s := sampleSnapshot()

	if got := len(s.TransactionsFor("m1")); got != 2 {
		t.Errorf("Expected 2 transactions for m1, got %d", got)
	}
	linked := s.TransactionsOfProduction("prod-1")
	if len(linked) != 1 || linked[0].ID != "t2" {
		t.Errorf("Expected only t2 linked to prod-1, got %v", linked)
	}
	if got := s.TransactionsOfProduction(""); got != nil {
		t.Errorf("Expected no transactions for empty production id, got %v", got)
	}
}

func TestSnapshot_LowStockMaterials(t *testing.T) {
	s := sampleSnapshot()
	low := s.LowStockMaterials()
	if len(low) != 1 || low[0].ID != "m2" {
		t.Fatalf("Expected only Mentega to be low, got %v", low)
	}

	empty := Empty()
	if got := empty.LowStockMaterials(); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", got)
	}
}

func TestSnapshot_Customers(t *testing.T) {
	s := sampleSnapshot()
	customers := s.Customers()

	expected := []string{"Bu Ani", "Pak Budi"}
	if len(customers) != len(expected) {
		t.Fatalf("Expected %d customers, got %v", len(expected), customers)
	}
	for i, name := range expected {
		if customers[i] != name {
			t.Errorf("Expected customer %d to be %s, got %s", i, name, customers[i])
		}
	}
}
