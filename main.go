package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"

	"expensetracker/api"
	"expensetracker/config"
	"expensetracker/db"
	_ "expensetracker/docs"
)

// @title Expense Tracker API
// @version 1.0
// @description REST API for tracking personal expenses with monthly and yearly summaries.
// @SecurityDefinitions.apikey ApiKeyAuth
// @In header
// @Name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	storage, err := db.NewStorage(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer storage.Close()

	handler := api.NewHandler(storage, cfg.JWTSecret, cfg.TokenTTL)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", handler.Root)
	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)

	protected := r.Group("/", handler.AuthMiddleware())
	protected.POST("/expense", handler.CreateExpense)
	protected.GET("/expenses/me", handler.GetMyExpenses)
	protected.PUT("/expense/:id", handler.UpdateExpense)
	protected.DELETE("/expense/:id", handler.DeleteExpense)
	protected.GET("/monthly-summary", handler.MonthlySummary)
	protected.GET("/yearly-summary", handler.YearlySummary)
	protected.GET("/export/excel", handler.ExportExcel)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Run(":" + cfg.Port)
}
