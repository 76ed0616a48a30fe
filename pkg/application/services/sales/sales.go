// Package sales records sales and keeps finished-goods stock in line with each sale's status:
// stock is held out of the shelf only while a sale is completed.
package sales

import (
	"fmt"
	"slices"
	"time"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// NewSale is the input of Create
type NewSale struct {
	CustomerName  string
	Date          time.Time
	Items         []entities.SaleItem
	PaymentMethod string
	Status        entities.SaleStatus
	Source        string
	DeliveryDate  *time.Time
}

// SaleUpdate is a partial change to a sale; nil fields keep their current value
type SaleUpdate struct {
	CustomerName  *string
	Date          *time.Time
	Items         []entities.SaleItem
	PaymentMethod *string
	Status        *entities.SaleStatus
	Source        *string
	DeliveryDate  *time.Time
}

// Create records a sale. Completed (or unset) status takes the items out of product stock at once;
// a pre-order leaves stock alone and must carry a delivery date.
func Create(st *state.Store, in NewSale) (*entities.Sale, error) {
	if err := entities.ValidateSaleItems(in.Items); err != nil {
		return nil, err
	}
	if err := validateStatus(in.Status, in.DeliveryDate); err != nil {
		return nil, err
	}
	if err := requireProducts(&st.Snapshot, in.Items); err != nil {
		return nil, err
	}

	sale := entities.Sale{
		ID:            st.NewID(),
		CustomerName:  in.CustomerName,
		Date:          in.Date,
		Items:         slices.Clone(in.Items),
		TotalPrice:    entities.TotalOf(in.Items),
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		Source:        in.Source,
	}
	if sale.CustomerName == "" {
		sale.CustomerName = entities.DefaultCustomer
	}
	if sale.PaymentMethod == "" {
		sale.PaymentMethod = entities.PaymentCash
	}
	if sale.Source == "" {
		sale.Source = entities.SourceOffline
	}
	if sale.IsPreOrder() {
		d := *in.DeliveryDate
		sale.DeliveryDate = &d
	}

	if sale.IsCompleted() {
		takeStock(st, sale.Items)
	}
	st.Sales = append(st.Sales, sale)

	return &sale, nil
}

// Update applies a partial change. Stock is reconciled from one snapshot of the sale as it was:
// what the old status held is put back, then what the new status holds is taken out, so an update
// that leaves status and items alone moves nothing.
func Update(st *state.Store, saleID string, upd SaleUpdate) (*entities.Sale, error) {
	found, ok := st.Sale(saleID)
	if !ok {
		return nil, entities.NotFoundf("sale", saleID)
	}
	before := *found
	before.Items = slices.Clone(found.Items)

	after := before
	after.Items = before.Items
	if upd.Items != nil {
		if err := entities.ValidateSaleItems(upd.Items); err != nil {
			return nil, err
		}
		if err := requireProducts(&st.Snapshot, upd.Items); err != nil {
			return nil, err
		}
		after.Items = slices.Clone(upd.Items)
		after.TotalPrice = entities.TotalOf(after.Items)
	}
	if upd.Status != nil {
		after.Status = *upd.Status
	}
	if upd.DeliveryDate != nil {
		d := *upd.DeliveryDate
		after.DeliveryDate = &d
	}
	if err := validateStatus(after.Status, after.DeliveryDate); err != nil {
		return nil, err
	}
	if upd.CustomerName != nil {
		after.CustomerName = *upd.CustomerName
	}
	if upd.Date != nil {
		after.Date = *upd.Date
	}
	if upd.PaymentMethod != nil {
		after.PaymentMethod = *upd.PaymentMethod
	}
	if upd.Source != nil {
		after.Source = *upd.Source
	}

	if before.IsCompleted() {
		returnStock(st, before.Items)
	}
	if after.IsCompleted() {
		takeStock(st, after.Items)
	}

	*found = after
	return &after, nil
}

// Complete turns a pre-order into a completed sale, taking its items out of stock.
// Stock sufficiency is not checked; stock may go negative.
func Complete(st *state.Store, saleID string) (*entities.Sale, error) {
	status := entities.StatusCompleted
	sale, err := Update(st, saleID, SaleUpdate{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("failed to complete sale: %w", err)
	}
	return sale, nil
}

// Delete removes a sale, putting its items back on the shelf if it was completed
func Delete(st *state.Store, saleID string) error {
	sale, ok := st.Sale(saleID)
	if !ok {
		return entities.NotFoundf("sale", saleID)
	}
	if sale.IsCompleted() {
		returnStock(st, sale.Items)
	}
	st.RemoveSale(saleID)
	return nil
}

func validateStatus(status entities.SaleStatus, deliveryDate *time.Time) error {
	if !status.Valid() {
		return entities.Invalidf("unknown sale status %q", status)
	}
	if status == entities.StatusPreOrder && (deliveryDate == nil || deliveryDate.IsZero()) {
		return entities.Invalidf("pre-order requires a delivery date")
	}
	return nil
}

func requireProducts(snapshot *state.Snapshot, items []entities.SaleItem) error {
	for _, item := range items {
		if _, ok := snapshot.Product(item.ProductID); !ok {
			return entities.NotFoundf("product", item.ProductID)
		}
	}
	return nil
}

// takeStock and returnStock skip products that have since been deleted
func takeStock(st *state.Store, items []entities.SaleItem) {
	for _, item := range items {
		st.AdjustProductStock(item.ProductID, -item.Quantity)
	}
}

func returnStock(st *state.Store, items []entities.SaleItem) {
	for _, item := range items {
		st.AdjustProductStock(item.ProductID, item.Quantity)
	}
}
