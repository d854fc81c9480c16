package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expensetracker/export"
	"expensetracker/summary"
)

// MonthlySummary godoc
// @Summary Monthly total, count and per-category breakdown
// @Tags summary
// @Produce json
// @Param year query int true "Calendar year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} models.MonthlySummary
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /monthly-summary [get]
func (h *Handler) MonthlySummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return
	}

	userID := currentUserID(c)
	expenses, err := h.storage.GetExpensesByPeriod(userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary.Monthly(userID, year, month, expenses))
}

// YearlySummary godoc
// @Summary Per-month totals for a year, all twelve months
// @Tags summary
// @Produce json
// @Param year query int true "Calendar year"
// @Success 200 {object} models.YearlySummary
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /yearly-summary [get]
func (h *Handler) YearlySummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}

	userID := currentUserID(c)
	expenses, err := h.storage.GetExpensesByPeriod(userID, year, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary.Yearly(userID, year, expenses))
}

// ExportExcel godoc
// @Summary Download a year (optionally one month) of expenses as xlsx
// @Tags summary
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param year query int true "Calendar year"
// @Param month query int false "Month (1-12)"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /export/excel [get]
func (h *Handler) ExportExcel(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}
	month := 0
	if v := c.Query("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
			return
		}
	}

	expenses, err := h.storage.GetExpensesByPeriod(currentUserID(c), year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, expenses); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename(year, month)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
