package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	appcmd "github.com/vsinha/bakeshop/pkg/application/commands"
	"github.com/vsinha/bakeshop/pkg/application/engine"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/infrastructure/repositories/csv"
)

// ImportCommand loads materials.csv, products.csv and recipes.csv from a directory. Each file is
// optional. Materials and products whose name already exists are skipped; recipes replace existing ones.
type ImportCommand struct {
	config Config
}

func NewImportCommand(config Config) *ImportCommand {
	return &ImportCommand{config: config}
}

// ImportSummary counts what an import changed
type ImportSummary struct {
	Materials int
	Products  int
	Recipes   int
	Skipped   int
}

func (c *ImportCommand) Execute(ctx context.Context) error {
	if c.config.ImportDir == "" {
		return fmt.Errorf("validation error: -dir is required")
	}

	ledger, err := openLedger(ctx, c.config)
	if err != nil {
		return err
	}
	defer ledger.Close()

	if c.config.Verbose {
		fmt.Printf("📂 Importing from %s...\n", c.config.ImportDir)
	}
	summary, err := Import(ctx, ledger.engine, c.config.ImportDir)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Imported %d materials, %d products, %d recipes (%d skipped)\n",
		summary.Materials, summary.Products, summary.Recipes, summary.Skipped)
	return nil
}

// Import applies the CSV files found in dir to the ledger
func Import(ctx context.Context, e *engine.Engine, dir string) (*ImportSummary, error) {
	loader := csv.NewLoader()
	summary := &ImportSummary{}

	if path, ok := present(dir, "materials.csv"); ok {
		rows, err := loader.LoadMaterials(path)
		if err != nil {
			return nil, fmt.Errorf("error loading materials: %w", err)
		}
		for _, row := range rows {
			snapshot := e.Snapshot()
			if _, exists := findMaterialByName(&snapshot, row.Name); exists {
				summary.Skipped++
				continue
			}
			_, err := e.Dispatch(ctx, appcmd.AddMaterial{
				Name:         row.Name,
				Unit:         row.Unit,
				PricePerUnit: row.PricePerUnit,
				Stock:        row.Stock,
				MinStock:     row.MinStock,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to import material %s: %w", row.Name, err)
			}
			summary.Materials++
		}
	}

	if path, ok := present(dir, "products.csv"); ok {
		rows, err := loader.LoadProducts(path)
		if err != nil {
			return nil, fmt.Errorf("error loading products: %w", err)
		}
		for _, row := range rows {
			snapshot := e.Snapshot()
			if _, err := findProduct(&snapshot, row.Name); err == nil {
				summary.Skipped++
				continue
			}
			_, err := e.Dispatch(ctx, appcmd.AddProduct{Name: row.Name, Price: row.Price, Stock: row.Stock})
			if err != nil {
				return nil, fmt.Errorf("failed to import product %s: %w", row.Name, err)
			}
			summary.Products++
		}
	}

	if path, ok := present(dir, "recipes.csv"); ok {
		rows, err := loader.LoadRecipes(path)
		if err != nil {
			return nil, fmt.Errorf("error loading recipes: %w", err)
		}
		snapshot := e.Snapshot()
		for _, group := range csv.GroupRecipes(rows) {
			product, err := findProduct(&snapshot, group.ProductName)
			if err != nil {
				return nil, fmt.Errorf("recipe of %s: %w", group.ProductName, err)
			}
			items := make([]entities.RecipeItem, 0, len(group.Lines))
			for _, line := range group.Lines {
				material, ok := findMaterialByName(&snapshot, line.MaterialName)
				if !ok {
					return nil, fmt.Errorf("recipe of %s: %w", group.ProductName, entities.NotFoundf("material", line.MaterialName))
				}
				items = append(items, entities.RecipeItem{MaterialID: material.ID, Quantity: line.Quantity})
			}
			_, err = e.Dispatch(ctx, appcmd.UpsertRecipe{ProductID: product.ID, Yield: group.Yield, Items: items})
			if err != nil {
				return nil, fmt.Errorf("failed to import recipe of %s: %w", group.ProductName, err)
			}
			summary.Recipes++
		}
	}

	return summary, nil
}

func present(dir, name string) (string, bool) {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return path, !errors.Is(err, os.ErrNotExist)
}
