package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rjoshi/findash/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// dateRange reads optional start_date/end_date query parameters as
// YYYY-MM-DD. ok is false after an unparseable value; the handler has
// already responded in that case.
func dateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
			return nil, nil, false
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
			return nil, nil, false
		}
		end = &t
	}
	return start, end, true
}

func (h *AnalyticsHandler) GetNetWorth(c *gin.Context) {
	report, err := h.analyticsService.GetNetWorth(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetCashFlow(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.GetCashFlow(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetSpendingByCategory(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.GetSpendingByCategory(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetMonthlyTrend(c *gin.Context) {
	months := 6
	if raw := c.Query("months"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid months"})
			return
		}
		months = m
	}

	report, err := h.analyticsService.GetMonthlyTrend(c.Request.Context(), months)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetAccountBalances(c *gin.Context) {
	balances, err := h.analyticsService.GetAccountBalances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}

func (h *AnalyticsHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.analyticsService.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
