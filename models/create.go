package models

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description"`
}
