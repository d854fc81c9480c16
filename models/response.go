package models

type RegisterResponse struct {
	Message string `json:"message" example:"Registered successfully"`
	UserID  int    `json:"user_id" example:"1"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

type CategoryTotal struct {
	Category string  `json:"category" example:"food"`
	Total    float64 `json:"total" example:"50"`
}

type MonthlySummary struct {
	UserID            int             `json:"user_id" example:"1"`
	Year              int             `json:"year" example:"2026"`
	Month             int             `json:"month" example:"3"`
	TotalSpent        float64         `json:"total_spent" example:"70"`
	TotalExpenses     int             `json:"total_expenses" example:"2"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	Details           []Expense       `json:"details"`
}

type MonthTotal struct {
	Month      int     `json:"month" example:"3"`
	TotalSpent float64 `json:"total_spent" example:"70"`
}

type YearlySummary struct {
	UserID int          `json:"user_id" example:"1"`
	Year   int          `json:"year" example:"2026"`
	Months []MonthTotal `json:"months"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Deleted"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"error"`
}
