package costing

import (
	"errors"
	"testing"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	testhelpers "github.com/vsinha/bakeshop/pkg/infrastructure/testing"
)

func TestComputeRequirements_Nastar(t *testing.T) {
	snapshot := testhelpers.BuildNastarSnapshot()

	requirements, err := ComputeRequirements(&snapshot, seed.NastarID, testhelpers.D("2"))
	if err != nil {
		t.Fatalf("Expected requirements, got error: %v", err)
	}
	if len(requirements) != 5 {
		t.Fatalf("Expected 5 requirement lines, got %d", len(requirements))
	}

	expected := map[string]struct{ needed, cost string }{
		seed.TepungID:     {"500", "6000"},
		seed.MentegaID:    {"300", "15000"},
		seed.TelurID:      {"4", "8000"},
		seed.SelaiNanasID: {"400", "16000"},
		seed.GulaHalusID:  {"100", "1500"},
	}
	for _, req := range requirements {
		want := expected[req.MaterialID]
		if !req.QuantityNeeded.Equal(testhelpers.D(want.needed)) {
			t.Errorf("Expected %s needed %s, got %s", req.MaterialName, want.needed, req.QuantityNeeded)
		}
		if !req.CostContribution.Equal(testhelpers.D(want.cost)) {
			t.Errorf("Expected %s cost %s, got %s", req.MaterialName, want.cost, req.CostContribution)
		}
	}

	if total := TotalCost(requirements); !total.Equal(testhelpers.D("46500")) {
		t.Errorf("Expected total cost 46500, got %s", total)
	}
}

func TestComputeRequirements_YieldScaling(t *testing.T) {
	testCases := []struct {
		name     string
		yield    string
		produced string
		tepung   string
	}{
		{"batch of ten, five units", "10", "5", "125"},
		{"batch of four, eight units", "4", "8", "500"},
		{"zero yield counts as one", "0", "2", "500"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := testhelpers.BuildNastarSnapshot()
			snapshot.Recipes[0].Yield = testhelpers.D(tc.yield)

			requirements, err := ComputeRequirements(&snapshot, seed.NastarID, testhelpers.D(tc.produced))
			if err != nil {
				t.Fatalf("Expected requirements, got error: %v", err)
			}
			if !requirements[0].QuantityNeeded.Equal(testhelpers.D(tc.tepung)) {
				t.Errorf("Expected Tepung %s, got %s", tc.tepung, requirements[0].QuantityNeeded)
			}
		})
	}
}

func TestComputeRequirements_SkipsMissingMaterials(t *testing.T) {
	snapshot := testhelpers.BuildNastarSnapshot()
	snapshot.Materials = snapshot.Materials[1:]

	requirements, err := ComputeRequirements(&snapshot, seed.NastarID, testhelpers.D("1"))
	if err != nil {
		t.Fatalf("Expected requirements, got error: %v", err)
	}
	if len(requirements) != 4 {
		t.Errorf("Expected 4 requirement lines without Tepung, got %d", len(requirements))
	}
}

func TestComputeRequirements_NoRecipe(t *testing.T) {
	snapshot := testhelpers.BuildNastarSnapshot()
	snapshot.Recipes = nil

	if _, err := ComputeRequirements(&snapshot, seed.NastarID, testhelpers.D("1")); !errors.Is(err, entities.ErrNoRecipe) {
		t.Errorf("Expected ErrNoRecipe, got %v", err)
	}
}

func TestComputeUnitCost(t *testing.T) {
	snapshot := testhelpers.BuildNastarSnapshot()

	cost, ok := ComputeUnitCost(&snapshot, seed.NastarID)
	if !ok {
		t.Fatal("Expected Nastar to have a unit cost")
	}
	if !cost.PerUnit.Equal(testhelpers.D("23250")) {
		t.Errorf("Expected HPP 23250, got %s", cost.PerUnit)
	}

	snapshot.Recipes[0].Yield = testhelpers.D("10")
	cost, _ = ComputeUnitCost(&snapshot, seed.NastarID)
	if !cost.BatchCost.Equal(testhelpers.D("23250")) {
		t.Errorf("Expected batch cost 23250, got %s", cost.BatchCost)
	}
	if !cost.PerUnit.Equal(testhelpers.D("2325")) {
		t.Errorf("Expected HPP 2325 for a batch of ten, got %s", cost.PerUnit)
	}

	snapshot.Recipes = nil
	if _, ok := ComputeUnitCost(&snapshot, seed.NastarID); ok {
		t.Error("Expected no unit cost without a recipe")
	}
}

func TestUpsertRecipe(t *testing.T) {
	st := testhelpers.BuildNastarStore()

	items := []entities.RecipeItem{{MaterialID: seed.TepungID, Quantity: testhelpers.D("300")}}
	id, err := UpsertRecipe(st, seed.NastarID, items, testhelpers.D("2"))
	if err != nil {
		t.Fatalf("Expected upsert to succeed: %v", err)
	}
	if id != seed.NastarRecipe {
		t.Errorf("Expected recipe id to survive replacement, got %s", id)
	}
	if len(st.Recipes) != 1 || len(st.Recipes[0].Items) != 1 {
		t.Errorf("Expected a single recipe with one line, got %v", st.Recipes)
	}

	// The stored recipe must not alias the caller's slice
	items[0].Quantity = testhelpers.D("1")
	if !st.Recipes[0].Items[0].Quantity.Equal(testhelpers.D("300")) {
		t.Error("Expected stored recipe to be independent of the input slice")
	}

	p := entities.Product{ID: "p2", Name: "Kastengel"}
	st.Products = append(st.Products, p)
	id, err = UpsertRecipe(st, "p2", nil, testhelpers.D("1"))
	if err != nil {
		t.Fatalf("Expected new recipe to be created: %v", err)
	}
	if id != "id-1" || len(st.Recipes) != 2 {
		t.Errorf("Expected new recipe id-1 and two recipes, got %s and %d", id, len(st.Recipes))
	}
}

func TestUpsertRecipe_Rejections(t *testing.T) {
	testCases := []struct {
		name      string
		productID string
		items     []entities.RecipeItem
		yield     string
		expected  error
	}{
		{"unknown product", "nope", nil, "1", entities.ErrNotFound},
		{"zero yield", seed.NastarID, nil, "0", entities.ErrInvalidInput},
		{"negative quantity", seed.NastarID,
			[]entities.RecipeItem{{MaterialID: seed.TepungID, Quantity: testhelpers.D("-1")}}, "1", entities.ErrInvalidInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := testhelpers.BuildNastarStore()
			if _, err := UpsertRecipe(st, tc.productID, tc.items, testhelpers.D(tc.yield)); !errors.Is(err, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}
