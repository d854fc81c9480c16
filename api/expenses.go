package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expensetracker/db"
	"expensetracker/models"
)

// CreateExpense godoc
// @Summary Record a new expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param input body models.ExpenseRequest true "Expense"
// @Success 200 {object} models.Expense
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /expense [post]
func (h *Handler) CreateExpense(c *gin.Context) {
	var req models.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.storage.CreateExpense(currentUserID(c), req.Amount, req.Category, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// GetMyExpenses godoc
// @Summary List the caller's expenses, newest first
// @Tags expenses
// @Produce json
// @Success 200 {array} models.Expense
// @Security ApiKeyAuth
// @Router /expenses/me [get]
func (h *Handler) GetMyExpenses(c *gin.Context) {
	expenses, err := h.storage.GetExpensesByUser(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// UpdateExpense godoc
// @Summary Update an owned expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense id"
// @Param input body models.ExpenseRequest true "Expense"
// @Success 200 {object} models.Expense
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /expense/{id} [put]
func (h *Handler) UpdateExpense(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	var req models.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.storage.UpdateExpense(currentUserID(c), id, req.Amount, req.Category, req.Description)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense godoc
// @Summary Delete an owned expense
// @Tags expenses
// @Produce json
// @Param id path int true "Expense id"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /expense/{id} [delete]
func (h *Handler) DeleteExpense(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	if err := h.storage.DeleteExpense(currentUserID(c), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
