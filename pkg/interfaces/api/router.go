// Package api exposes the command surface of the ledger over HTTP with gin
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vsinha/bakeshop/pkg/application/engine"
	"github.com/vsinha/bakeshop/pkg/application/session"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

// Server wires HTTP requests to the engine of the requesting owner
type Server struct {
	registry *engine.Registry
	sessions session.Provider
	logger   *zap.Logger
	now      func() time.Time
}

// Options configures the router
type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *zap.Logger
	// Now stamps commands sent without a date; defaults to time.Now
	Now func() time.Time
}

// NewRouter builds the gin engine serving /api/v1
func NewRouter(registry *engine.Registry, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	var sessions session.Provider = session.ContextProvider{}
	if len(opts.JWTSecret) == 0 {
		sessions = session.Anonymous{}
	}
	s := &Server{
		registry: registry,
		sessions: sessions,
		logger:   opts.Logger,
		now:      opts.Now,
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(opts.Logger), CORS(opts.AllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(Session(opts.JWTSecret))

	v1.GET("/state", s.getState)
	v1.GET("/dashboard", s.getDashboard)
	v1.GET("/reports/financial", s.getFinancial)
	v1.GET("/stock/materials", s.getMaterialStock)
	v1.GET("/stock/products", s.getProductStock)
	v1.GET("/customers", s.getCustomers)
	v1.GET("/events", s.getEvents)

	v1.POST("/materials", s.addMaterial)
	v1.PATCH("/materials/:id", s.updateMaterial)
	v1.DELETE("/materials/:id", s.deleteMaterial)
	v1.GET("/materials/:id/transactions", s.getMaterialTransactions)
	v1.POST("/materials/:id/transactions", s.addMaterialTransaction)
	v1.DELETE("/transactions/:id", s.deleteMaterialTransaction)

	v1.POST("/products", s.addProduct)
	v1.PATCH("/products/:id", s.updateProduct)
	v1.DELETE("/products/:id", s.deleteProduct)
	v1.PUT("/products/:id/recipe", s.upsertRecipe)
	v1.GET("/products/:id/cost", s.getUnitCost)
	v1.GET("/products/:id/production-check", s.getProductionCheck)

	v1.POST("/productions", s.addProduction)
	v1.DELETE("/productions/:id", s.deleteProduction)

	v1.POST("/sales", s.addSale)
	v1.PATCH("/sales/:id", s.updateSale)
	v1.POST("/sales/:id/complete", s.completeSale)
	v1.DELETE("/sales/:id", s.deleteSale)

	v1.POST("/expenses", s.addExpense)
	v1.PATCH("/expenses/:id", s.updateExpense)
	v1.DELETE("/expenses/:id", s.deleteExpense)

	v1.PUT("/settings", s.updateSettings)

	return r
}

func (s *Server) ledger(c *gin.Context) (*engine.Engine, bool) {
	ctx := c.Request.Context()
	e, err := s.registry.For(ctx, session.OwnerOf(ctx, s.sessions))
	if err != nil {
		s.logger.Error("failed to open ledger", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger unavailable"})
		return nil, false
	}
	return e, true
}

// writeError maps the domain error kinds onto status codes
func (s *Server) writeError(c *gin.Context, err error) {
	var shortage *entities.InsufficientStockError
	switch {
	case errors.As(err, &shortage):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "shortfalls": shortage.Shortfalls})
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrNoRecipe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
