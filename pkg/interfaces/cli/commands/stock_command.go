package commands

import (
	"context"

	"github.com/vsinha/bakeshop/pkg/application/services/reports"
	"github.com/vsinha/bakeshop/pkg/interfaces/cli/output"
)

// StockCommand lists material stock followed by finished-goods stock with HPP
type StockCommand struct {
	config Config
}

func NewStockCommand(config Config) *StockCommand {
	return &StockCommand{config: config}
}

func (c *StockCommand) Execute(ctx context.Context) error {
	ledger, err := openLedger(ctx, c.config)
	if err != nil {
		return err
	}
	defer ledger.Close()

	snapshot := ledger.engine.Snapshot()
	lines := append(reports.MaterialStock(&snapshot), reports.ProductStock(&snapshot)...)

	return output.Generate(lines, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Name:      "stock",
	})
}
