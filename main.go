package main

import (
	"net/http"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/config"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/database"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/handlers"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Connect to database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Initialize tables
	if err := db.InitializeTables(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize tables")
	}

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Create Gin router
	router := gin.Default()

	// Add CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure this properly for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Jewellery CRM server is running",
		})
	})

	// Initialize handlers
	handlers.InitializeHandlers(db)

	// API routes
	api := router.Group("/api/v1")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
		}

		// CRM routes (protected)
		crm := api.Group("/crm")
		crm.Use(handlers.AuthMiddleware())
		{
			// Client management
			crm.GET("/clients", handlers.GetClients)
			crm.POST("/clients", handlers.CreateClient)
			crm.GET("/clients/:id", handlers.GetClient)
			crm.PUT("/clients/:id", handlers.UpdateClient)
			crm.POST("/clients/:id/consolidate", handlers.ConsolidateClient)

			// Pipeline
			crm.GET("/opportunities", handlers.GetOpportunities)
			crm.POST("/opportunities", handlers.CreateOpportunity)
			crm.PUT("/opportunities/:id/stage", handlers.UpdateOpportunityStage)
			crm.GET("/pipeline/board/:stage", handlers.GetStageBoard)
			crm.GET("/pipeline/summary", handlers.GetPipelineSummary)
			crm.GET("/pipeline/stats", handlers.GetPipelineStats)

			// Team roster
			crm.GET("/team", handlers.GetTeamMembers)
			crm.POST("/team", handlers.CreateTeamMember)
			crm.PUT("/team/:id", handlers.UpdateTeamMember)
			crm.DELETE("/team/:id", handlers.DeleteTeamMember)
			crm.POST("/team/import", handlers.ImportTeamMembers)
		}
	}

	// Start server
	logrus.Infof("Starting jewellery CRM server on 0.0.0.0:%s", config.AppConfig.ServerPort)
	logrus.Fatal(http.ListenAndServe("0.0.0.0:"+config.AppConfig.ServerPort, c.Handler(router)))
}
