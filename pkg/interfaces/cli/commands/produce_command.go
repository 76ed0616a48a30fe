package commands

import (
	"context"
	"fmt"
	"time"

	appcmd "github.com/vsinha/bakeshop/pkg/application/commands"
	"github.com/vsinha/bakeshop/pkg/application/services/production"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/interfaces/cli/output"
)

// ProduceCommand checks material stock for a production run and commits it unless DryRun is set
type ProduceCommand struct {
	config Config
	now    func() time.Time
}

func NewProduceCommand(config Config) *ProduceCommand {
	return &ProduceCommand{config: config, now: time.Now}
}

func (c *ProduceCommand) Execute(ctx context.Context) error {
	if c.config.Product == "" || c.config.Quantity <= 0 {
		return fmt.Errorf("validation error: -product and a positive -quantity are required")
	}

	ledger, err := openLedger(ctx, c.config)
	if err != nil {
		return err
	}
	defer ledger.Close()

	snapshot := ledger.engine.Snapshot()
	product, err := findProduct(&snapshot, c.config.Product)
	if err != nil {
		return err
	}

	check, err := production.CanProduce(&snapshot, product.ID, c.config.Quantity)
	if err != nil {
		return fmt.Errorf("failed to check production: %w", err)
	}

	outputConfig := output.Config{Format: c.config.Format, OutputDir: c.config.OutputDir, Verbose: c.config.Verbose, Name: "production_check"}
	if c.config.DryRun || c.config.Verbose {
		if err := output.Generate(check, outputConfig); err != nil {
			return err
		}
	}
	if c.config.DryRun {
		return nil
	}
	if !check.CanProduce() {
		return &entities.InsufficientStockError{ProductID: product.ID, Shortfalls: check.Shortfalls}
	}

	if c.config.Verbose {
		fmt.Printf("🔄 Producing %d x %s...\n", c.config.Quantity, product.Name)
	}
	res, err := ledger.engine.Dispatch(ctx, appcmd.AddProduction{
		ProductID: product.ID,
		Quantity:  c.config.Quantity,
		Date:      c.now(),
	})
	if err != nil {
		return err
	}

	if c.config.Format == "csv" {
		return nil
	}
	outputConfig.Name = "production"
	return output.Generate(res.Value, outputConfig)
}
