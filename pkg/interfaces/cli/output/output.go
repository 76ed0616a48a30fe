package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/application/dto"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Name is the base file name used when writing into OutputDir
	Name string
	// Out receives output when no OutputDir is set; defaults to stdout
	Out io.Writer
}

func (c Config) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate renders a report in the configured format. Supported reports are *dto.Dashboard,
// *dto.FinancialSummary, []dto.StockLine, *dto.ProductionCheck, *entities.Production and *entities.Sale.
func Generate(report any, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report any, config Config) error {
	w := config.writer()
	switch r := report.(type) {
	case *dto.Dashboard:
		writeDashboard(w, r)
	case *dto.FinancialSummary:
		writeFinancial(w, r)
	case []dto.StockLine:
		writeStock(w, r)
	case *dto.ProductionCheck:
		writeProductionCheck(w, r)
	case *entities.Production:
		fmt.Fprintf(w, "✅ Production %s: %d units, total cost %s (%s per unit)\n",
			r.ID, r.Quantity, FormatRupiah(r.TotalCost), FormatRupiah(r.CostPerUnit))
	case *entities.Sale:
		fmt.Fprintf(w, "✅ Sale %s to %s: %s [%s]\n",
			r.ID, r.CustomerName, FormatRupiah(r.TotalPrice), statusLabel(r.Status))
	default:
		return fmt.Errorf("unsupported report type %T", report)
	}
	return nil
}

func writeDashboard(w io.Writer, d *dto.Dashboard) {
	fmt.Fprintf(w, "📊 Dashboard %s\n", d.Date.Format("2006-01-02"))
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Today's revenue:        %s (%d sales)\n", FormatRupiah(d.TodayRevenue), d.TodaySalesCount)
	fmt.Fprintf(w, "Month revenue:          %s\n", FormatRupiah(d.MonthRevenue))
	fmt.Fprintf(w, "Month expenses:         %s\n", FormatRupiah(d.MonthExpenses))
	fmt.Fprintf(w, "Month production cost:  %s\n", FormatRupiah(d.MonthProductionCost))
	fmt.Fprintf(w, "Estimated profit:       %s\n", FormatRupiah(d.EstimatedProfit))
	fmt.Fprintf(w, "Finished goods:         %d units across %d products\n", d.FinishedGoodsStock, d.ProductCount)
	fmt.Fprintf(w, "Pending pre-orders:     %d\n\n", d.PendingPreOrderCount)

	if len(d.LowStockMaterials) > 0 {
		fmt.Fprintf(w, "⚠️  Low stock:\n")
		fmt.Fprintf(w, "%-25s %-12s %-12s %-6s\n", "Material", "Stock", "Min Stock", "Unit")
		fmt.Fprintf(w, "%-25s %-12s %-12s %-6s\n",
			"-------------------------", "------------", "------------", "------")
		for _, m := range d.LowStockMaterials {
			fmt.Fprintf(w, "%-25s %-12s %-12s %-6s\n", m.Name, m.Stock, m.MinStock, m.Unit)
		}
		fmt.Fprintln(w)
	}
}

func writeFinancial(w io.Writer, s *dto.FinancialSummary) {
	fmt.Fprintf(w, "💰 Financial report (%s)\n", s.Period)
	fmt.Fprintf(w, "======================\n\n")
	if s.From != nil && s.Until != nil {
		fmt.Fprintf(w, "Window:          %s to %s\n", s.From.Format("2006-01-02"), s.Until.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Sales:           %d\n", s.SalesCount)
	fmt.Fprintf(w, "Revenue:         %s\n", FormatRupiah(s.Revenue))
	fmt.Fprintf(w, "Material cost:   %s\n", FormatRupiah(s.MaterialCost))
	fmt.Fprintf(w, "Other expenses:  %s\n", FormatRupiah(s.OtherExpenses))
	fmt.Fprintf(w, "Total expense:   %s\n", FormatRupiah(s.TotalExpense))
	fmt.Fprintf(w, "Net profit:      %s\n", FormatRupiah(s.NetProfit))
}

func writeStock(w io.Writer, lines []dto.StockLine) {
	fmt.Fprintf(w, "📦 Stock\n")
	fmt.Fprintf(w, "%-30s %-12s %-12s %-6s %-10s %-14s\n", "Name", "Stock", "Min Stock", "Unit", "Status", "HPP/unit")
	fmt.Fprintf(w, "%-30s %-12s %-12s %-6s %-10s %-14s\n",
		"------------------------------", "------------", "------------", "------", "----------", "--------------")
	for _, line := range lines {
		hpp := "-"
		if line.UnitCost != nil {
			hpp = FormatRupiah(line.UnitCost.PerUnit)
		}
		fmt.Fprintf(w, "%-30s %-12s %-12s %-6s %-10s %-14s\n",
			line.Name, line.Stock, line.MinStock, line.Unit, stockStatus(line), hpp)
	}
}

func writeProductionCheck(w io.Writer, c *dto.ProductionCheck) {
	fmt.Fprintf(w, "🔍 Production check: %d units of %s\n", c.Quantity, c.ProductID)
	fmt.Fprintf(w, "%-25s %-12s %-12s %-14s\n", "Material", "Needed", "Available", "Cost")
	fmt.Fprintf(w, "%-25s %-12s %-12s %-14s\n",
		"-------------------------", "------------", "------------", "--------------")
	for _, req := range c.Requirements {
		fmt.Fprintf(w, "%-25s %-12s %-12s %-14s\n",
			req.MaterialName, req.QuantityNeeded, req.Available, FormatRupiah(req.CostContribution))
	}
	fmt.Fprintf(w, "\nTotal cost: %s (%s per unit)\n", FormatRupiah(c.TotalCost), FormatRupiah(c.CostPerUnit))
	if c.CanProduce() {
		fmt.Fprintf(w, "✅ Enough stock\n")
		return
	}
	fmt.Fprintf(w, "❌ Short on:\n")
	for _, s := range c.Shortfalls {
		fmt.Fprintf(w, "  %s: missing %s\n", s.MaterialName, s.Missing())
	}
}

func stockStatus(line dto.StockLine) string {
	switch {
	case line.OutOfStock:
		return "OUT"
	case line.LowStock:
		return "LOW"
	default:
		return "OK"
	}
}

func statusLabel(s entities.SaleStatus) string {
	if s == "" {
		return string(entities.StatusCompleted)
	}
	return string(s)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report any, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	filename, err := outputFile(config, "json")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Printf("💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates CSV output
func generateCSVOutput(report any, config Config) error {
	rows, err := csvRows(report)
	if err != nil {
		return err
	}

	w := config.writer()
	var file *os.File
	if config.OutputDir != "" {
		filename, err := outputFile(config, "csv")
		if err != nil {
			return err
		}
		file, err = os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer file.Close()
		w = file
		if config.Verbose {
			fmt.Printf("💾 CSV results saved to: %s\n", filename)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func csvRows(report any) ([][]string, error) {
	switch r := report.(type) {
	case []dto.StockLine:
		rows := [][]string{{"id", "name", "unit", "stock", "min_stock", "status", "hpp_per_unit"}}
		for _, line := range r {
			hpp := ""
			if line.UnitCost != nil {
				hpp = line.UnitCost.PerUnit.String()
			}
			rows = append(rows, []string{
				line.ID, line.Name, line.Unit, line.Stock.String(), line.MinStock.String(), stockStatus(line), hpp,
			})
		}
		return rows, nil
	case *dto.FinancialSummary:
		return [][]string{
			{"period", "sales_count", "revenue", "material_cost", "other_expenses", "total_expense", "net_profit"},
			{string(r.Period), strconv.Itoa(r.SalesCount), r.Revenue.String(), r.MaterialCost.String(),
				r.OtherExpenses.String(), r.TotalExpense.String(), r.NetProfit.String()},
		}, nil
	case *dto.ProductionCheck:
		rows := [][]string{{"material_id", "material", "needed", "available", "price_per_unit", "cost"}}
		for _, req := range r.Requirements {
			rows = append(rows, []string{
				req.MaterialID, req.MaterialName, req.QuantityNeeded.String(), req.Available.String(),
				req.PricePerUnit.String(), req.CostContribution.String(),
			})
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("CSV output is not available for %T", report)
	}
}

func outputFile(config Config, ext string) (string, error) {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	name := config.Name
	if name == "" {
		name = "report"
	}
	return filepath.Join(config.OutputDir, name+"."+ext), nil
}

// FormatRupiah renders an amount the way the shop prints prices, e.g. "Rp 85.000"
func FormatRupiah(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	digits := amount.Round(0).StringFixed(0)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + sign + b.String()
}
