package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the fulfilment state of a sale
type SaleStatus string

const (
	// StatusCompleted means the goods left the shop and stock was deducted
	StatusCompleted SaleStatus = "Selesai"
	// StatusPreOrder means the sale is booked but not yet fulfilled
	StatusPreOrder SaleStatus = "Pre-Order"
)

// Completed reports whether stock is deducted for this status. An empty status counts as completed.
func (s SaleStatus) Completed() bool {
	return s == StatusCompleted || s == ""
}

// Valid reports whether s is a known status or unset
func (s SaleStatus) Valid() bool {
	return s == "" || s == StatusCompleted || s == StatusPreOrder
}

// Payment methods offered at the till
const (
	PaymentCash     = "Cash"
	PaymentTransfer = "Transfer"
	PaymentQRIS     = "QRIS"
)

// Sales channels
const (
	SourceOffline   = "Offline"
	SourceWhatsApp  = "WhatsApp"
	SourceShopee    = "Shopee"
	SourceTokopedia = "Tokopedia"
	SourceGoFood    = "GoFood"
	SourceGrabFood  = "GrabFood"
	SourceOther     = "Lainnya"
)

// DefaultCustomer is the placeholder name for walk-in customers
const DefaultCustomer = "Pelanggan Umum"

// SaleItem is one line of a sale
type SaleItem struct {
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	PriceName string          `json:"priceName,omitempty"`
}

// Subtotal returns price × quantity
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// Sale is a point-of-sale transaction or a pre-order
type Sale struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customerName"`
	Date          time.Time       `json:"date"`
	Items         []SaleItem      `json:"items"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        SaleStatus      `json:"status,omitempty"`
	Source        string          `json:"source,omitempty"`
	DeliveryDate  *time.Time      `json:"deliveryDate,omitempty"`
}

// IsCompleted reports whether the sale currently holds deducted stock
func (s *Sale) IsCompleted() bool {
	return s.Status.Completed()
}

// IsPreOrder reports whether the sale is a standing pre-order
func (s *Sale) IsPreOrder() bool {
	return s.Status == StatusPreOrder
}

// TotalOf sums the subtotals of items
func TotalOf(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ValidateSaleItems checks the line items of a sale
func ValidateSaleItems(items []SaleItem) error {
	if len(items) == 0 {
		return Invalidf("sale must have at least one item")
	}
	for i, item := range items {
		if item.ProductID == "" {
			return Invalidf("sale item %d: product id cannot be empty", i+1)
		}
		if item.Quantity <= 0 {
			return Invalidf("sale item %d: quantity must be positive, got %d", i+1, item.Quantity)
		}
		if item.Price.IsNegative() {
			return Invalidf("sale item %d: price cannot be negative, got %s", i+1, item.Price)
		}
	}
	return nil
}
