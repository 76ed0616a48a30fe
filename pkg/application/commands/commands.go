// Package commands is the fixed mutation surface of the ledger. Every change to the shop's state is a
// Command applied by Reduce, which works on a copy and returns the new snapshot only when the whole
// command succeeded.
package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/application/services/catalog"
	"github.com/vsinha/bakeshop/pkg/application/services/costing"
	"github.com/vsinha/bakeshop/pkg/application/services/ledger"
	"github.com/vsinha/bakeshop/pkg/application/services/production"
	"github.com/vsinha/bakeshop/pkg/application/services/sales"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/events"
)

// Command is one state transition
type Command interface {
	// Kind identifies the command in logs and errors
	Kind() string
	// Event is the domain event type recorded when the command commits
	Event() string
	// Apply mutates st. It may leave st half-updated on error; Reduce discards it then.
	Apply(st *state.Store) (Result, error)
}

// Result describes what a committed command touched
type Result struct {
	ID    string `json:"id,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Reduce applies cmd to a copy of snapshot. On error the returned snapshot is the unchanged input.
func Reduce(snapshot state.Snapshot, cmd Command, ids state.IDGenerator) (state.Snapshot, Result, error) {
	st := state.NewStore(snapshot, ids)
	res, err := cmd.Apply(st)
	if err != nil {
		return snapshot, Result{}, fmt.Errorf("%s: %w", cmd.Kind(), err)
	}
	return st.Snapshot, res, nil
}

// AddMaterial registers a new raw material with its opening stock
type AddMaterial struct {
	Name         string          `json:"name"`
	Unit         entities.Unit   `json:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Stock        decimal.Decimal `json:"stock"`
	MinStock     decimal.Decimal `json:"minStock"`
}

func (AddMaterial) Kind() string  { return "AddMaterial" }
func (AddMaterial) Event() string { return events.MaterialAddedEvent }

// Apply stores the material and returns it with its new id
func (c AddMaterial) Apply(st *state.Store) (Result, error) {
	m, err := catalog.AddMaterial(st, entities.Material{
		Name:         c.Name,
		Unit:         c.Unit,
		PricePerUnit: c.PricePerUnit,
		Stock:        c.Stock,
		MinStock:     c.MinStock,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{ID: m.ID, Value: m}, nil
}

// UpdateMaterial changes the set fields of a material
type UpdateMaterial struct {
	ID           string           `json:"id"`
	Name         *string          `json:"name,omitempty"`
	Unit         *entities.Unit   `json:"unit,omitempty"`
	PricePerUnit *decimal.Decimal `json:"pricePerUnit,omitempty"`
	Stock        *decimal.Decimal `json:"stock,omitempty"`
	MinStock     *decimal.Decimal `json:"minStock,omitempty"`
}

func (UpdateMaterial) Kind() string  { return "UpdateMaterial" }
func (UpdateMaterial) Event() string { return events.MaterialUpdatedEvent }

// Apply applies the partial update and returns the material
func (c UpdateMaterial) Apply(st *state.Store) (Result, error) {
	m, err := catalog.UpdateMaterial(st, c.ID, catalog.MaterialUpdate{
		Name:         c.Name,
		Unit:         c.Unit,
		PricePerUnit: c.PricePerUnit,
		Stock:        c.Stock,
		MinStock:     c.MinStock,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{ID: m.ID, Value: m}, nil
}

// DeleteMaterial removes a material, its transactions and its recipe lines
type DeleteMaterial struct {
	ID string `json:"id"`
}

func (DeleteMaterial) Kind() string  { return "DeleteMaterial" }
func (DeleteMaterial) Event() string { return events.MaterialDeletedEvent }

// Apply cascades the removal through the ledger
func (c DeleteMaterial) Apply(st *state.Store) (Result, error) {
	return Result{ID: c.ID}, catalog.DeleteMaterial(st, c.ID)
}

// AddMaterialTransaction posts a stock movement against a material
type AddMaterialTransaction struct {
	MaterialID string                   `json:"materialId"`
	Type       entities.TransactionType `json:"type"`
	Quantity   decimal.Decimal          `json:"quantity"`
	Date       time.Time                `json:"date"`
	Note       string                   `json:"note"`
}

func (AddMaterialTransaction) Kind() string  { return "AddMaterialTransaction" }
func (AddMaterialTransaction) Event() string { return events.MaterialTransactionAppliedEvent }

// Apply records the movement and adjusts the material's stock
func (c AddMaterialTransaction) Apply(st *state.Store) (Result, error) {
	id, err := ledger.ApplyTransaction(st, ledger.Movement{
		MaterialID: c.MaterialID,
		Type:       c.Type,
		Quantity:   c.Quantity,
		Date:       c.Date,
		Note:       c.Note,
	})
	if err != nil {
		return Result{}, err
	}
	tx, _ := st.MaterialTransaction(id)
	return Result{ID: id, Value: tx}, nil
}

// DeleteMaterialTransaction reverses a stock movement
type DeleteMaterialTransaction struct {
	ID string `json:"id"`
}

func (DeleteMaterialTransaction) Kind() string  { return "DeleteMaterialTransaction" }
func (DeleteMaterialTransaction) Event() string { return events.MaterialTransactionReversedEvent }

// Apply undoes the movement's effect on stock and removes it
func (c DeleteMaterialTransaction) Apply(st *state.Store) (Result, error) {
	return Result{ID: c.ID}, ledger.ReverseTransaction(st, c.ID)
}

// AddProduct registers a finished product
type AddProduct struct {
	Name            string                  `json:"name"`
	Price           decimal.Decimal         `json:"price"`
	WholesalePrices []entities.ProductPrice `json:"wholesalePrices,omitempty"`
	Stock           int64                   `json:"stock"`
	ImageURL        string                  `json:"imageUrl,omitempty"`
}

func (AddProduct) Kind() string  { return "AddProduct" }
func (AddProduct) Event() string { return events.ProductAddedEvent }

// Apply stores the product and returns it with its new id
func (c AddProduct) Apply(st *state.Store) (Result, error) {
	p, err := catalog.AddProduct(st, entities.Product{
		Name:            c.Name,
		Price:           c.Price,
		WholesalePrices: c.WholesalePrices,
		Stock:           c.Stock,
		ImageURL:        c.ImageURL,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{ID: p.ID, Value: p}, nil
}

// UpdateProduct changes the set fields of a product
type UpdateProduct struct {
	ID              string                  `json:"id"`
	Name            *string                 `json:"name,omitempty"`
	Price           *decimal.Decimal        `json:"price,omitempty"`
	WholesalePrices []entities.ProductPrice `json:"wholesalePrices,omitempty"`
	Stock           *int64                  `json:"stock,omitempty"`
	ImageURL        *string                 `json:"imageUrl,omitempty"`
}

func (UpdateProduct) Kind() string  { return "UpdateProduct" }
func (UpdateProduct) Event() string { return events.ProductUpdatedEvent }

// Apply applies the partial update and returns the product
func (c UpdateProduct) Apply(st *state.Store) (Result, error) {
	p, err := catalog.UpdateProduct(st, c.ID, catalog.ProductUpdate{
		Name:            c.Name,
		Price:           c.Price,
		WholesalePrices: c.WholesalePrices,
		Stock:           c.Stock,
		ImageURL:        c.ImageURL,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{ID: p.ID, Value: p}, nil
}

// DeleteProduct removes a product together with its recipe
type DeleteProduct struct {
	ID string `json:"id"`
}

func (DeleteProduct) Kind() string  { return "DeleteProduct" }
func (DeleteProduct) Event() string { return events.ProductDeletedEvent }

// Apply removes the product and its recipe
func (c DeleteProduct) Apply(st *state.Store) (Result, error) {
	return Result{ID: c.ID}, catalog.DeleteProduct(st, c.ID)
}

// UpsertRecipe replaces or creates the recipe of a product
type UpsertRecipe struct {
	ProductID string                `json:"productId"`
	Yield     decimal.Decimal       `json:"yield"`
	Items     []entities.RecipeItem `json:"items"`
}

func (UpsertRecipe) Kind() string  { return "UpsertRecipe" }
func (UpsertRecipe) Event() string { return events.RecipeUpsertedEvent }

// Apply validates the recipe and stores it, keeping the id of an existing one
func (c UpsertRecipe) Apply(st *state.Store) (Result, error) {
	id, err := costing.UpsertRecipe(st, c.ProductID, c.Items, c.Yield)
	if err != nil {
		return Result{}, err
	}
	recipe, _ := st.RecipeFor(c.ProductID)
	return Result{ID: id, Value: recipe}, nil
}

// AddProduction produces units of a product from its recipe
type AddProduction struct {
	ProductID string    `json:"productId"`
	Quantity  int64     `json:"quantity"`
	Date      time.Time `json:"date"`
}

func (AddProduction) Kind() string  { return "AddProduction" }
func (AddProduction) Event() string { return events.ProductionCommittedEvent }

// Apply consumes materials, credits finished goods and returns the production
func (c AddProduction) Apply(st *state.Store) (Result, error) {
	p, err := production.Commit(st, c.ProductID, c.Quantity, c.Date)
	if err != nil {
		return Result{}, err
	}
	return Result{ID: p.ID, Value: p}, nil
}

// DeleteProduction reverses a production run
type DeleteProduction struct {
	ID string `json:"id"`
}

func (DeleteProduction) Kind() string  { return "DeleteProduction" }
func (DeleteProduction) Event() string { return events.ProductionDeletedEvent }

// Apply restores the consumed materials and debits finished goods
func (c DeleteProduction) Apply(st *state.Store) (Result, error) {
	return Result{ID: c.ID}, production.Delete(st, c.ID)
}

// AddSale records a sale or pre-order
type AddSale struct {
	CustomerName  string              `json:"customerName"`
	Date          time.Time           `json:"date"`
	Items         []entities.SaleItem `json:"items"`
	PaymentMethod string              `json:"paymentMethod"`
	Status        entities.SaleStatus `json:"status,omitempty"`
	Source        string              `json:"source,omitempty"`
	DeliveryDate  *time.Time          `json:"deliveryDate,omitempty"`
}

func (AddSale) Kind() string  { return "AddSale" }
func (AddSale) Event() string { return events.SaleCreatedEvent }

// Apply stores the sale, deducting stock unless it is a pre-order
func (c AddSale) Apply(st *state.Store) (Result, error) {
	s, err := sales.Create(st, sales.NewSale(c))
	if err != nil {
		return Result{}, err
	}
	return Result{ID: s.ID, Value: s}, nil
}

// UpdateSale changes the set fields of a sale
type UpdateSale struct {
	ID            string               `json:"id"`
	CustomerName  *string              `json:"customerName,omitempty"`
	Date          *time.Time           `json:"date,omitempty"`
	Items         []entities.SaleItem  `json:"items,omitempty"`
	PaymentMethod *string              `json:"paymentMethod,omitempty"`
	Status        *entities.SaleStatus `json:"status,omitempty"`
	Source        *string              `json:"source,omitempty"`
	DeliveryDate  *time.Time           `json:"deliveryDate,omitempty"`
}

func (UpdateSale) Kind() string  { return "UpdateSale" }
func (UpdateSale) Event() string { return events.SaleUpdatedEvent }

// Apply reverts the old sale's stock effect and applies the new one
func (c UpdateSale) Apply(st *state.Store) (Result, error) {
	s, err := sales.Update(st, c.ID, sales.SaleUpdate{
		CustomerName:  c.CustomerName,
		Date:          c.Date,
		Items:         c.Items,
		PaymentMethod: c.PaymentMethod,
		Status:        c.Status,
		Source:        c.Source,
		DeliveryDate:  c.DeliveryDate,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{ID: s.ID, Value: s}, nil
}

// CompleteSale marks a pre-order as delivered
type CompleteSale struct {
	ID string `json:"id"`
}

func (CompleteSale) Kind() string  { return "CompleteSale" }
func (CompleteSale) Event() string { return events.SaleCompletedEvent }

// Apply completes the sale, deducting its stock once
func (c CompleteSale) Apply(st *state.Store) (Result, error) {
	s, err := sales.Complete(st, c.ID)
	if err != nil {
		return Result{}, err
	}
	return Result{ID: s.ID, Value: s}, nil
}

// DeleteSale removes a sale
type DeleteSale struct {
	ID string `json:"id"`
}

func (DeleteSale) Kind() string  { return "DeleteSale" }
func (DeleteSale) Event() string { return events.SaleDeletedEvent }

// Apply restores stock for a completed sale and removes it
func (c DeleteSale) Apply(st *state.Store) (Result, error) {
	return Result{ID: c.ID}, sales.Delete(st, c.ID)
}

// AddExpense records an operating expense
type AddExpense struct {
	Date     time.Time       `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

func (AddExpense) Kind() string  { return "AddExpense" }
func (AddExpense) Event() string { return events.ExpenseAddedEvent }

// Apply stores the expense and returns it with its new id
func (c AddExpense) Apply(st *state.Store) (Result, error) {
	e, err := catalog.AddExpense(st, entities.Expense{
		Date:     c.Date,
		Category: c.Category,
		Amount:   c.Amount,
		Note:     c.Note,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{ID: e.ID, Value: e}, nil
}

// UpdateExpense changes the set fields of an expense
type UpdateExpense struct {
	ID       string           `json:"id"`
	Date     *time.Time       `json:"date,omitempty"`
	Category *string          `json:"category,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Note     *string          `json:"note,omitempty"`
}

func (UpdateExpense) Kind() string  { return "UpdateExpense" }
func (UpdateExpense) Event() string { return events.ExpenseUpdatedEvent }

// Apply applies the partial update and returns the expense
func (c UpdateExpense) Apply(st *state.Store) (Result, error) {
	e, err := catalog.UpdateExpense(st, c.ID, catalog.ExpenseUpdate{
		Date:     c.Date,
		Category: c.Category,
		Amount:   c.Amount,
		Note:     c.Note,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{ID: e.ID, Value: e}, nil
}

// DeleteExpense removes an expense
type DeleteExpense struct {
	ID string `json:"id"`
}

func (DeleteExpense) Kind() string  { return "DeleteExpense" }
func (DeleteExpense) Event() string { return events.ExpenseDeletedEvent }

// Apply removes the expense
func (c DeleteExpense) Apply(st *state.Store) (Result, error) {
	return Result{ID: c.ID}, catalog.DeleteExpense(st, c.ID)
}

// UpdateSettings changes the shop's branding
type UpdateSettings struct {
	AppName    string `json:"appName"`
	AppTagline string `json:"appTagline,omitempty"`
	AppIconURL string `json:"appIconUrl,omitempty"`
}

func (UpdateSettings) Kind() string  { return "UpdateSettings" }
func (UpdateSettings) Event() string { return events.SettingsUpdatedEvent }

// Apply replaces the settings and returns them
func (c UpdateSettings) Apply(st *state.Store) (Result, error) {
	settings := catalog.UpdateSettings(st, entities.AppSettings(c))
	return Result{Value: settings}, nil
}

var (
	_ Command = AddMaterial{}
	_ Command = UpdateMaterial{}
	_ Command = DeleteMaterial{}
	_ Command = AddMaterialTransaction{}
	_ Command = DeleteMaterialTransaction{}
	_ Command = AddProduct{}
	_ Command = UpdateProduct{}
	_ Command = DeleteProduct{}
	_ Command = UpsertRecipe{}
	_ Command = AddProduction{}
	_ Command = DeleteProduction{}
	_ Command = AddSale{}
	_ Command = UpdateSale{}
	_ Command = CompleteSale{}
	_ Command = DeleteSale{}
	_ Command = AddExpense{}
	_ Command = UpdateExpense{}
	_ Command = DeleteExpense{}
	_ Command = UpdateSettings{}
)
