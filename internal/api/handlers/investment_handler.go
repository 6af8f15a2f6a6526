package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rjoshi/findash/internal/models"
	"github.com/rjoshi/findash/internal/service"
)

type InvestmentHandler struct {
	investmentService service.InvestmentService
}

func NewInvestmentHandler(investmentService service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

func (h *InvestmentHandler) Create(c *gin.Context) {
	var input models.InvestmentCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	investment, err := h.investmentService.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, investment)
}

// List returns all holdings, optionally scoped to one account via
// ?account_id=.
func (h *InvestmentHandler) List(c *gin.Context) {
	var accountID *uuid.UUID
	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account_id"})
			return
		}
		accountID = &id
	}

	investments, err := h.investmentService.GetAll(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, investments)
}

func (h *InvestmentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investment ID"})
		return
	}

	investment, err := h.investmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, investment)
}

func (h *InvestmentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investment ID"})
		return
	}

	var input models.InvestmentUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	investment, err := h.investmentService.Update(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, investment)
}

func (h *InvestmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investment ID"})
		return
	}

	if err := h.investmentService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "investment deleted"})
}

// RefreshPrice pulls a fresh quote for one holding. A failed oracle lookup
// surfaces as 502 and leaves the cached price alone.
func (h *InvestmentHandler) RefreshPrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investment ID"})
		return
	}

	investment, err := h.investmentService.RefreshPrice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, investment)
}

// Search proxies a ticker lookup to the price oracle; a dead oracle is a
// 502 like a failed refresh.
func (h *InvestmentHandler) Search(c *gin.Context) {
	matches, err := h.investmentService.SearchSymbols(c.Request.Context(), c.Param("query"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

func (h *InvestmentHandler) PortfolioSummary(c *gin.Context) {
	var accountID *uuid.UUID
	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account_id"})
			return
		}
		accountID = &id
	}

	summary, err := h.investmentService.PortfolioSummary(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
