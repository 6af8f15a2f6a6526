package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rjoshi/findash/internal/models"
	"github.com/rjoshi/findash/internal/service"
)

type ImportHandler struct {
	importService service.ImportService
}

func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// openCSV pulls the uploaded "file" form field and rejects anything that is
// not named *.csv, like the exports this system produces.
func (h *ImportHandler) openCSV(c *gin.Context) (multipart.File, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return nil, false
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a CSV"})
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return file, true
}

func (h *ImportHandler) ImportTransactions(c *gin.Context) {
	file, ok := h.openCSV(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importService.ImportTransactions(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) ImportAccounts(c *gin.Context) {
	file, ok := h.openCSV(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importService.ImportAccounts(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) ImportInvestments(c *gin.Context) {
	file, ok := h.openCSV(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importService.ImportInvestments(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) TransactionTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, models.CSVTemplate{Template: h.importService.TransactionTemplate()})
}

func (h *ImportHandler) AccountTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, models.CSVTemplate{Template: h.importService.AccountTemplate()})
}

func (h *ImportHandler) InvestmentTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, models.CSVTemplate{Template: h.importService.InvestmentTemplate()})
}
