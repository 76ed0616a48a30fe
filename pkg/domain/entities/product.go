package entities

import "github.com/shopspring/decimal"

// ProductPrice is a named alternative price, such as a reseller tier
type ProductPrice struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Product is a finished good sold to customers
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	WholesalePrices []ProductPrice  `json:"wholesalePrices,omitempty"`
	Stock           int64           `json:"stock"`
	ImageURL        string          `json:"imageUrl,omitempty"`
}

// NewProduct creates a validated Product without an ID
func NewProduct(name string, price decimal.Decimal, wholesale []ProductPrice, stock int64, imageURL string) (*Product, error) {
	p := &Product{
		Name:            name,
		Price:           price,
		WholesalePrices: wholesale,
		Stock:           stock,
		ImageURL:        imageURL,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the editable fields of a product
func (p *Product) Validate() error {
	if p.Name == "" {
		return Invalidf("product name cannot be empty")
	}
	if p.Price.IsNegative() {
		return Invalidf("price cannot be negative, got %s", p.Price)
	}
	for _, wp := range p.WholesalePrices {
		if wp.Name == "" {
			return Invalidf("wholesale price name cannot be empty")
		}
		if wp.Price.IsNegative() {
			return Invalidf("wholesale price %q cannot be negative, got %s", wp.Name, wp.Price)
		}
	}
	return nil
}

// PriceFor returns the named wholesale price, or the normal price when name is empty or unknown
func (p *Product) PriceFor(name string) decimal.Decimal {
	for _, wp := range p.WholesalePrices {
		if wp.Name == name {
			return wp.Price
		}
	}
	return p.Price
}
