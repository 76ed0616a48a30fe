// Package seed holds the demo data a fresh installation can start from
package seed

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// Fixed ids of the demo data
const (
	TepungID       = "m1"
	MentegaID      = "m2"
	TelurID        = "m3"
	SelaiNanasID   = "m4"
	GulaHalusID    = "m5"
	NastarID       = "p1"
	NastarRecipe   = "r1"
	NastarName     = "Nastar Klasik (Toples 500g)"
	DemoAppName    = "NastarKu"
	DemoAppTagline = "Manajemen UMKM Kue"
)

func material(id, name string, unit entities.Unit, price, stock, minStock int64) entities.Material {
	return entities.Material{
		ID:           id,
		Name:         name,
		Unit:         unit,
		PricePerUnit: decimal.NewFromInt(price),
		Stock:        decimal.NewFromInt(stock),
		MinStock:     decimal.NewFromInt(minStock),
	}
}

func item(materialID string, quantity int64) entities.RecipeItem {
	return entities.RecipeItem{MaterialID: materialID, Quantity: decimal.NewFromInt(quantity)}
}

// Demo returns the NastarKu demo state: five materials and one product with its recipe
func Demo() state.Snapshot {
	s := state.Empty()
	s.Materials = []entities.Material{
		material(TepungID, "Tepung Terigu", entities.Gram, 12, 5000, 1000),
		material(MentegaID, "Mentega", entities.Gram, 50, 2000, 500),
		material(TelurID, "Telur", entities.Piece, 2000, 30, 10),
		material(SelaiNanasID, "Selai Nanas", entities.Gram, 40, 1500, 500),
		material(GulaHalusID, "Gula Halus", entities.Gram, 15, 1000, 200),
	}
	s.Products = []entities.Product{
		{ID: NastarID, Name: NastarName, Price: decimal.NewFromInt(85000), Stock: 10},
	}
	s.Recipes = []entities.Recipe{
		{
			ID:        NastarRecipe,
			ProductID: NastarID,
			Yield:     decimal.NewFromInt(1),
			Items: []entities.RecipeItem{
				item(TepungID, 250),
				item(MentegaID, 150),
				item(TelurID, 2),
				item(SelaiNanasID, 200),
				item(GulaHalusID, 50),
			},
		},
	}
	s.AppSettings = entities.AppSettings{AppName: DemoAppName, AppTagline: DemoAppTagline}
	return s
}
