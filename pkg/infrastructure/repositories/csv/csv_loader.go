package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

// MaterialRow is one line of materials.csv
type MaterialRow struct {
	Name         string
	Unit         entities.Unit
	PricePerUnit decimal.Decimal
	Stock        decimal.Decimal
	MinStock     decimal.Decimal
}

// ProductRow is one line of products.csv
type ProductRow struct {
	Name  string
	Price decimal.Decimal
	Stock int64
}

// RecipeRow is one ingredient line of recipes.csv. Products and materials are referenced by name.
type RecipeRow struct {
	ProductName  string
	MaterialName string
	Quantity     decimal.Decimal
	Yield        decimal.Decimal
}

var (
	materialHeader = []string{"name", "unit", "price_per_unit", "stock", "min_stock"}
	productHeader  = []string{"name", "price", "stock"}
	recipeHeader   = []string{"product_name", "material_name", "quantity", "yield"}
)

// Loader handles loading master data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadMaterials loads materials from a CSV file
func (l *Loader) LoadMaterials(filename string) ([]MaterialRow, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open materials file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadMaterials(file)
}

// ReadMaterials parses materials CSV content
func (l *Loader) ReadMaterials(r io.Reader) ([]MaterialRow, error) {
	records, err := readRecords(r, "materials", materialHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]MaterialRow, 0, len(records))
	for i, record := range records {
		row, err := parseMaterial(record)
		if err != nil {
			return nil, fmt.Errorf("materials CSV row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadProducts loads products from a CSV file
func (l *Loader) LoadProducts(filename string) ([]ProductRow, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open products file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadProducts(file)
}

// ReadProducts parses products CSV content
func (l *Loader) ReadProducts(r io.Reader) ([]ProductRow, error) {
	records, err := readRecords(r, "products", productHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]ProductRow, 0, len(records))
	for i, record := range records {
		row, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadRecipes loads recipe lines from a CSV file
func (l *Loader) LoadRecipes(filename string) ([]RecipeRow, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipes file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadRecipes(file)
}

// ReadRecipes parses recipes CSV content
func (l *Loader) ReadRecipes(r io.Reader) ([]RecipeRow, error) {
	records, err := readRecords(r, "recipes", recipeHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]RecipeRow, 0, len(records))
	for i, record := range records {
		row, err := parseRecipeRow(record)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readRecords reads all records, checks the header and column counts, and returns the data rows
func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func parseMaterial(record []string) (MaterialRow, error) {
	price, err := parseDecimal("price_per_unit", record[2])
	if err != nil {
		return MaterialRow{}, err
	}
	stock, err := parseDecimal("stock", record[3])
	if err != nil {
		return MaterialRow{}, err
	}
	minStock, err := parseDecimal("min_stock", record[4])
	if err != nil {
		return MaterialRow{}, err
	}

	row := MaterialRow{
		Name:         strings.TrimSpace(record[0]),
		Unit:         entities.Unit(strings.ToLower(strings.TrimSpace(record[1]))),
		PricePerUnit: price,
		Stock:        stock,
		MinStock:     minStock,
	}
	if _, err := entities.NewMaterial(row.Name, row.Unit, row.PricePerUnit, row.Stock, row.MinStock); err != nil {
		return MaterialRow{}, err
	}
	return row, nil
}

func parseProduct(record []string) (ProductRow, error) {
	price, err := parseDecimal("price", record[1])
	if err != nil {
		return ProductRow{}, err
	}
	stock, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return ProductRow{}, fmt.Errorf("invalid stock: %w", err)
	}

	row := ProductRow{Name: strings.TrimSpace(record[0]), Price: price, Stock: stock}
	if _, err := entities.NewProduct(row.Name, row.Price, nil, row.Stock, ""); err != nil {
		return ProductRow{}, err
	}
	return row, nil
}

func parseRecipeRow(record []string) (RecipeRow, error) {
	quantity, err := parseDecimal("quantity", record[2])
	if err != nil {
		return RecipeRow{}, err
	}
	yield := decimal.NewFromInt(1)
	if strings.TrimSpace(record[3]) != "" {
		if yield, err = parseDecimal("yield", record[3]); err != nil {
			return RecipeRow{}, err
		}
	}

	row := RecipeRow{
		ProductName:  strings.TrimSpace(record[0]),
		MaterialName: strings.TrimSpace(record[1]),
		Quantity:     quantity,
		Yield:        yield,
	}
	if row.ProductName == "" || row.MaterialName == "" {
		return RecipeRow{}, fmt.Errorf("product_name and material_name are required")
	}
	return row, nil
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d, nil
}

// validateHeader checks if the CSV header matches expected format
func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(col)) != expected[i] {
			return false
		}
	}
	return true
}

// GroupRecipes collects recipe lines by product name, keeping first-seen order. The yield of the
// first line of each product applies to the whole recipe.
func GroupRecipes(rows []RecipeRow) []RecipeGroup {
	index := make(map[string]int)
	var groups []RecipeGroup
	for _, row := range rows {
		i, ok := index[row.ProductName]
		if !ok {
			i = len(groups)
			index[row.ProductName] = i
			groups = append(groups, RecipeGroup{ProductName: row.ProductName, Yield: row.Yield})
		}
		groups[i].Lines = append(groups[i].Lines, row)
	}
	return groups
}

// RecipeGroup is every line of one product's recipe
type RecipeGroup struct {
	ProductName string
	Yield       decimal.Decimal
	Lines       []RecipeRow
}
