package state

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

// IDGenerator hands out identifiers for newly created entities
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random UUIDv4 identifiers
type UUIDGenerator struct{}

// NewID returns a fresh UUID string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator generates predictable identifiers like "id-1", "id-2"
type SequenceGenerator struct {
	Prefix string
	next   atomic.Int64
}

// NewSequenceGenerator creates a SequenceGenerator with the given prefix
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

// NewID returns the next identifier in the sequence
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.Prefix, g.next.Add(1))
}

// Store is a working copy of a snapshot that one command mutates. The caller decides whether to keep it.
type Store struct {
	Snapshot
	ids IDGenerator
}

// NewStore wraps a private clone of snapshot
func NewStore(snapshot Snapshot, ids IDGenerator) *Store {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Store{Snapshot: snapshot.Clone(), ids: ids}
}

// NewID returns an identifier for a new entity
func (s *Store) NewID() string {
	return s.ids.NewID()
}

// RemoveMaterial deletes a material record and reports whether it existed
func (s *Store) RemoveMaterial(id string) bool {
	n := len(s.Materials)
	s.Materials = slices.DeleteFunc(s.Materials, func(m entities.Material) bool { return m.ID == id })
	return len(s.Materials) != n
}

// RemoveTransactions deletes every material transaction matching drop and returns how many went
func (s *Store) RemoveTransactions(drop func(entities.MaterialTransaction) bool) int {
	n := len(s.MaterialTransactions)
	s.MaterialTransactions = slices.DeleteFunc(s.MaterialTransactions, drop)
	return n - len(s.MaterialTransactions)
}

// RemoveProduct deletes a product record and reports whether it existed
func (s *Store) RemoveProduct(id string) bool {
	n := len(s.Products)
	s.Products = slices.DeleteFunc(s.Products, func(p entities.Product) bool { return p.ID == id })
	return len(s.Products) != n
}

// RemoveRecipeFor deletes the recipe of a product, if any
func (s *Store) RemoveRecipeFor(productID string) {
	s.Recipes = slices.DeleteFunc(s.Recipes, func(r entities.Recipe) bool { return r.ProductID == productID })
}

// RemoveProduction deletes a production record
func (s *Store) RemoveProduction(id string) {
	s.Productions = slices.DeleteFunc(s.Productions, func(p entities.Production) bool { return p.ID == id })
}

// RemoveSale deletes a sale record
func (s *Store) RemoveSale(id string) {
	s.Sales = slices.DeleteFunc(s.Sales, func(sale entities.Sale) bool { return sale.ID == id })
}

// RemoveExpense deletes an expense record and reports whether it existed
func (s *Store) RemoveExpense(id string) bool {
	n := len(s.Expenses)
	s.Expenses = slices.DeleteFunc(s.Expenses, func(e entities.Expense) bool { return e.ID == id })
	return len(s.Expenses) != n
}

// AdjustProductStock adds delta to a product's stock; absent products are skipped
func (s *Store) AdjustProductStock(productID string, delta int64) bool {
	p, ok := s.Product(productID)
	if !ok {
		return false
	}
	p.Stock += delta
	return true
}
