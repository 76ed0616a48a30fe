package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/application/commands"
	"github.com/vsinha/bakeshop/pkg/application/engine"
	"github.com/vsinha/bakeshop/pkg/application/services/production"
	"github.com/vsinha/bakeshop/pkg/application/services/reports"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	"github.com/vsinha/bakeshop/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	store := memory.NewDocumentStore()
	ledger, err := engine.Open(ctx, repositories.DeviceOwner, repositories.ForOwner(store, ""), engine.Options{
		Seed: seed.Demo,
	})
	if err != nil {
		fmt.Printf("❌ failed to open ledger: %v\n", err)
		return
	}
	defer ledger.Close(ctx)

	now := time.Now()

	fmt.Println("🛒 Buying 2 kg of flour...")
	must(ledger.Dispatch(ctx, commands.AddMaterialTransaction{
		MaterialID: seed.TepungID,
		Type:       entities.In,
		Quantity:   decimal.NewFromInt(2000),
		Date:       now,
		Note:       "Beli tepung",
	}))

	snapshot := ledger.Snapshot()
	check, err := production.CanProduce(&snapshot, seed.NastarID, 2)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	output.Generate(check, output.Config{Format: "text"})
	fmt.Println()

	fmt.Println("🔄 Producing 2 jars of Nastar...")
	res := must(ledger.Dispatch(ctx, commands.AddProduction{ProductID: seed.NastarID, Quantity: 2, Date: now}))
	output.Generate(res.Value, output.Config{Format: "text"})

	fmt.Println("📝 Taking a pre-order for 3 jars...")
	delivery := now.AddDate(0, 0, 3)
	res = must(ledger.Dispatch(ctx, commands.AddSale{
		CustomerName: "Bu Rina",
		Date:         now,
		Items: []entities.SaleItem{
			{ProductID: seed.NastarID, Quantity: 3, Price: decimal.NewFromInt(85000)},
		},
		PaymentMethod: entities.PaymentTransfer,
		Status:        entities.StatusPreOrder,
		Source:        entities.SourceWhatsApp,
		DeliveryDate:  &delivery,
	}))
	output.Generate(res.Value, output.Config{Format: "text"})
	printStock(ledger.Snapshot())

	fmt.Println("🚚 Delivering the pre-order...")
	res = must(ledger.Dispatch(ctx, commands.CompleteSale{ID: res.ID}))
	output.Generate(res.Value, output.Config{Format: "text"})
	printStock(ledger.Snapshot())

	fmt.Println("🙅 Trying to produce 100 jars...")
	_, err = ledger.Dispatch(ctx, commands.AddProduction{ProductID: seed.NastarID, Quantity: 100, Date: now})
	var shortage *entities.InsufficientStockError
	if errors.As(err, &shortage) {
		for _, s := range shortage.Shortfalls {
			fmt.Printf("  ⚠️  %s: need %s, have %s\n", s.MaterialName, s.Required, s.Available)
		}
	}
	fmt.Println()

	snapshot = ledger.Snapshot()
	output.Generate(reports.Dashboard(&snapshot, now), output.Config{Format: "text"})
}

func must(res commands.Result, err error) commands.Result {
	if err != nil {
		panic(err)
	}
	return res
}

func printStock(snapshot state.Snapshot) {
	if p, ok := snapshot.Product(seed.NastarID); ok {
		fmt.Printf("  📦 %s in stock: %d\n\n", p.Name, p.Stock)
	}
}
