package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/bakeshop/pkg/application/dto"
	"github.com/vsinha/bakeshop/pkg/application/services/reports"
	"github.com/vsinha/bakeshop/pkg/interfaces/cli/output"
)

// ReportCommand prints the dashboard, or the financial summary of a period
type ReportCommand struct {
	config Config
	now    func() time.Time
}

func NewReportCommand(config Config) *ReportCommand {
	return &ReportCommand{config: config, now: time.Now}
}

func (c *ReportCommand) Execute(ctx context.Context) error {
	ledger, err := openLedger(ctx, c.config)
	if err != nil {
		return err
	}
	defer ledger.Close()

	snapshot := ledger.engine.Snapshot()
	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}

	if c.config.Period == "" || c.config.Period == "dashboard" {
		outputConfig.Name = "dashboard"
		return output.Generate(reports.Dashboard(&snapshot, c.now()), outputConfig)
	}

	summary, err := reports.Financial(&snapshot, dto.Period(c.config.Period), c.now())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	outputConfig.Name = "financial_" + c.config.Period
	return output.Generate(summary, outputConfig)
}
