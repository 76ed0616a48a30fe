package commands

import (
	"context"
	"fmt"
	"time"

	appcmd "github.com/vsinha/bakeshop/pkg/application/commands"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/interfaces/cli/output"
)

// SellCommand records a single-item sale. A delivery date turns it into a pre-order.
type SellCommand struct {
	config Config
	now    func() time.Time
}

func NewSellCommand(config Config) *SellCommand {
	return &SellCommand{config: config, now: time.Now}
}

func (c *SellCommand) Execute(ctx context.Context) error {
	if c.config.Product == "" || c.config.Quantity <= 0 {
		return fmt.Errorf("validation error: -product and a positive -quantity are required")
	}

	cmd := appcmd.AddSale{
		CustomerName:  c.config.Customer,
		Date:          c.now(),
		PaymentMethod: c.config.Payment,
		Source:        c.config.Source,
		Status:        entities.StatusCompleted,
	}
	if c.config.DeliveryDate != "" {
		delivery, err := time.ParseInLocation("2006-01-02", c.config.DeliveryDate, time.Local)
		if err != nil {
			return fmt.Errorf("validation error: delivery date must be YYYY-MM-DD: %w", err)
		}
		cmd.Status = entities.StatusPreOrder
		cmd.DeliveryDate = &delivery
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
	cmd.Items = []entities.SaleItem{{
		ProductID: product.ID,
		Quantity:  c.config.Quantity,
		Price:     product.PriceFor(c.config.PriceName),
		PriceName: c.config.PriceName,
	}}

	res, err := ledger.engine.Dispatch(ctx, cmd)
	if err != nil {
		return err
	}

	if c.config.Format == "csv" {
		return nil
	}
	return output.Generate(res.Value, output.Config{Format: c.config.Format, OutputDir: c.config.OutputDir, Verbose: c.config.Verbose, Name: "sale"})
}
