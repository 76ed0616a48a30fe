package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/bakeshop/pkg/interfaces/cli/commands"
)

type executor interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-help" || os.Args[1] == "help" {
		showHelp()
		return
	}

	subcommand := os.Args[1]
	fs := flag.NewFlagSet(subcommand, flag.ExitOnError)

	var (
		configFile = fs.String("config", "", "Path to YAML config file (optional)")
		owner      = fs.String("owner", "", "Ledger owner (user id); empty uses the device ledger")
		format     = fs.String("format", "text", "Output format: text, json, csv")
		outputDir  = fs.String("output", "", "Output directory for results (optional)")
		verbose    = fs.Bool("verbose", false, "Enable verbose output")

		period = fs.String("period", "", "Report period: today, week, month, all (empty for dashboard)")

		product      = fs.String("product", "", "Product id or name")
		quantity     = fs.Int64("quantity", 0, "Quantity to produce or sell")
		dryRun       = fs.Bool("dry-run", false, "Only check material stock, do not produce")
		priceName    = fs.String("price", "", "Wholesale price name (default: normal price)")
		customer     = fs.String("customer", "", "Customer name")
		payment      = fs.String("payment", "", "Payment method: Cash, Transfer, QRIS")
		source       = fs.String("source", "", "Sales channel, e.g. Offline, WhatsApp, Shopee")
		deliveryDate = fs.String("delivery", "", "Delivery date YYYY-MM-DD; makes the sale a pre-order")

		importDir = fs.String("dir", "", "Directory with materials.csv, products.csv, recipes.csv")
	)
	fs.Parse(os.Args[2:])

	config := commands.Config{
		ConfigFile:   *configFile,
		Owner:        *owner,
		Format:       *format,
		OutputDir:    *outputDir,
		Verbose:      *verbose,
		Period:       *period,
		Product:      *product,
		Quantity:     *quantity,
		DryRun:       *dryRun,
		PriceName:    *priceName,
		Customer:     *customer,
		Payment:      *payment,
		Source:       *source,
		DeliveryDate: *deliveryDate,
		ImportDir:    *importDir,
	}

	var cmd executor
	switch subcommand {
	case "serve":
		cmd = commands.NewServeCommand(config)
	case "report":
		cmd = commands.NewReportCommand(config)
	case "stock":
		cmd = commands.NewStockCommand(config)
	case "import":
		cmd = commands.NewImportCommand(config)
	case "produce":
		cmd = commands.NewProduceCommand(config)
	case "sell":
		cmd = commands.NewSellCommand(config)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", subcommand)
		showHelp()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Printf(`bakeshop - inventory, production costing and point of sale for a home bakery

USAGE:
    bakeshop <command> [options]

COMMANDS:
    serve      Run the HTTP API
    report     Print the dashboard, or a financial summary with -period
    stock      List material and finished-goods stock with HPP
    import     Import materials, products and recipes from CSV files
    produce    Check stock for and record a production run
    sell       Record a sale or, with -delivery, a pre-order

COMMON OPTIONS:
    -config <file>      YAML config file (BAKESHOP_* environment variables override it)
    -owner <id>         Ledger owner; empty uses the device ledger
    -format <fmt>       Output format: text, json, csv (default: text)
    -output <dir>       Output directory for results (optional)
    -verbose            Enable verbose output

CSV FILE FORMATS:

materials.csv:
    name,unit,price_per_unit,stock,min_stock
    Tepung Terigu,gram,12,5000,1000

products.csv:
    name,price,stock
    Nastar Klasik (Toples 500g),85000,10

recipes.csv:
    product_name,material_name,quantity,yield
    Nastar Klasik (Toples 500g),Tepung Terigu,250,1

EXAMPLES:
    bakeshop import -dir data/seed -verbose
    bakeshop produce -product "Nastar Klasik (Toples 500g)" -quantity 2 -dry-run
    bakeshop sell -product p1 -quantity 3 -customer "Bu Rina" -delivery 2024-12-20
    bakeshop report -period month -format json
    bakeshop serve -config config.yaml
`)
}
