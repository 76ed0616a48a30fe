package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/bakeshop/pkg/application/commands"
	"github.com/vsinha/bakeshop/pkg/application/dto"
	"github.com/vsinha/bakeshop/pkg/application/services/costing"
	"github.com/vsinha/bakeshop/pkg/application/services/production"
	"github.com/vsinha/bakeshop/pkg/application/services/reports"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

func (s *Server) dispatch(c *gin.Context, status int, cmd commands.Command) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	res, err := e.Dispatch(c.Request.Context(), cmd)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(status, res)
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func (s *Server) getState(c *gin.Context) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, e.Snapshot())
}

func (s *Server) getDashboard(c *gin.Context) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	snapshot := e.Snapshot()
	c.JSON(http.StatusOK, reports.Dashboard(&snapshot, s.now()))
}

func (s *Server) getFinancial(c *gin.Context) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	snapshot := e.Snapshot()
	summary, err := reports.Financial(&snapshot, dto.Period(c.DefaultQuery("period", string(dto.PeriodMonth))), s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getMaterialStock(c *gin.Context) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	snapshot := e.Snapshot()
	c.JSON(http.StatusOK, reports.MaterialStock(&snapshot))
}

func (s *Server) getProductStock(c *gin.Context) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	snapshot := e.Snapshot()
	c.JSON(http.StatusOK, reports.ProductStock(&snapshot))
}

func (s *Server) getCustomers(c *gin.Context) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	snapshot := e.Snapshot()
	customers := snapshot.Customers()
	if customers == nil {
		customers = []string{}
	}
	c.JSON(http.StatusOK, customers)
}

func (s *Server) getEvents(c *gin.Context) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an integer"})
		return
	}
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	evs, err := e.Events(from)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, evs)
}

func (s *Server) getMaterialTransactions(c *gin.Context) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	snapshot := e.Snapshot()
	id := c.Param("id")
	if _, found := snapshot.Material(id); !found {
		s.writeError(c, entities.NotFoundf("material", id))
		return
	}
	txs := snapshot.TransactionsFor(id)
	if txs == nil {
		txs = []entities.MaterialTransaction{}
	}
	c.JSON(http.StatusOK, txs)
}

func (s *Server) getUnitCost(c *gin.Context) {
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	snapshot := e.Snapshot()
	id := c.Param("id")
	if _, found := snapshot.Product(id); !found {
		s.writeError(c, entities.NotFoundf("product", id))
		return
	}
	cost, found := costing.ComputeUnitCost(&snapshot, id)
	if !found {
		s.writeError(c, fmt.Errorf("product %q: %w", id, entities.ErrNoRecipe))
		return
	}
	c.JSON(http.StatusOK, cost)
}

func (s *Server) getProductionCheck(c *gin.Context) {
	quantity, err := strconv.ParseInt(c.Query("quantity"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be an integer"})
		return
	}
	e, ok := s.ledger(c)
	if !ok {
		return
	}
	snapshot := e.Snapshot()
	check, err := production.CanProduce(&snapshot, c.Param("id"), quantity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (s *Server) addMaterial(c *gin.Context) {
	var cmd commands.AddMaterial
	if bind(c, &cmd) {
		s.dispatch(c, http.StatusCreated, cmd)
	}
}

func (s *Server) updateMaterial(c *gin.Context) {
	var cmd commands.UpdateMaterial
	if bind(c, &cmd) {
		cmd.ID = c.Param("id")
		s.dispatch(c, http.StatusOK, cmd)
	}
}

func (s *Server) deleteMaterial(c *gin.Context) {
	s.dispatch(c, http.StatusOK, commands.DeleteMaterial{ID: c.Param("id")})
}

func (s *Server) addMaterialTransaction(c *gin.Context) {
	var cmd commands.AddMaterialTransaction
	if bind(c, &cmd) {
		cmd.MaterialID = c.Param("id")
		if cmd.Date.IsZero() {
			cmd.Date = s.now()
		}
		s.dispatch(c, http.StatusCreated, cmd)
	}
}

func (s *Server) deleteMaterialTransaction(c *gin.Context) {
	s.dispatch(c, http.StatusOK, commands.DeleteMaterialTransaction{ID: c.Param("id")})
}

func (s *Server) addProduct(c *gin.Context) {
	var cmd commands.AddProduct
	if bind(c, &cmd) {
		s.dispatch(c, http.StatusCreated, cmd)
	}
}

func (s *Server) updateProduct(c *gin.Context) {
	var cmd commands.UpdateProduct
	if bind(c, &cmd) {
		cmd.ID = c.Param("id")
		s.dispatch(c, http.StatusOK, cmd)
	}
}

func (s *Server) deleteProduct(c *gin.Context) {
	s.dispatch(c, http.StatusOK, commands.DeleteProduct{ID: c.Param("id")})
}

func (s *Server) upsertRecipe(c *gin.Context) {
	var cmd commands.UpsertRecipe
	if bind(c, &cmd) {
		cmd.ProductID = c.Param("id")
		s.dispatch(c, http.StatusOK, cmd)
	}
}

func (s *Server) addProduction(c *gin.Context) {
	var cmd commands.AddProduction
	if bind(c, &cmd) {
		if cmd.Date.IsZero() {
			cmd.Date = s.now()
		}
		s.dispatch(c, http.StatusCreated, cmd)
	}
}

func (s *Server) deleteProduction(c *gin.Context) {
	s.dispatch(c, http.StatusOK, commands.DeleteProduction{ID: c.Param("id")})
}

func (s *Server) addSale(c *gin.Context) {
	var cmd commands.AddSale
	if bind(c, &cmd) {
		if cmd.Date.IsZero() {
			cmd.Date = s.now()
		}
		s.dispatch(c, http.StatusCreated, cmd)
	}
}

func (s *Server) updateSale(c *gin.Context) {
	var cmd commands.UpdateSale
	if bind(c, &cmd) {
		cmd.ID = c.Param("id")
		s.dispatch(c, http.StatusOK, cmd)
	}
}

func (s *Server) completeSale(c *gin.Context) {
	s.dispatch(c, http.StatusOK, commands.CompleteSale{ID: c.Param("id")})
}

func (s *Server) deleteSale(c *gin.Context) {
	s.dispatch(c, http.StatusOK, commands.DeleteSale{ID: c.Param("id")})
}

func (s *Server) addExpense(c *gin.Context) {
	var cmd commands.AddExpense
	if bind(c, &cmd) {
		if cmd.Date.IsZero() {
			cmd.Date = s.now()
		}
		s.dispatch(c, http.StatusCreated, cmd)
	}
}

func (s *Server) updateExpense(c *gin.Context) {
	var cmd commands.UpdateExpense
	if bind(c, &cmd) {
		cmd.ID = c.Param("id")
		s.dispatch(c, http.StatusOK, cmd)
	}
}

func (s *Server) deleteExpense(c *gin.Context) {
	s.dispatch(c, http.StatusOK, commands.DeleteExpense{ID: c.Param("id")})
}

func (s *Server) updateSettings(c *gin.Context) {
	var cmd commands.UpdateSettings
	if bind(c, &cmd) {
		s.dispatch(c, http.StatusOK, cmd)
	}
}
