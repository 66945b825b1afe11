package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/auth"
	"github.com/h4ks-com/palay/internal/config"
	"github.com/h4ks-com/palay/internal/handlers"
	"github.com/h4ks-com/palay/internal/middleware"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/h4ks-com/palay/internal/services"
	"gorm.io/gorm"

	_ "github.com/h4ks-com/palay/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func newRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	laborerRepo := repository.NewLaborerRepository(db)
	groupRepo := repository.NewLaborerGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	wageRepo := repository.NewLaborWageRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	notificationService := services.NewNotificationService(notificationRepo)
	accountService := services.NewAccountService(userRepo)
	tokenService := services.NewTokenService(tokenRepo, userRepo, cfg.JWT.Secret)
	laborerService := services.NewLaborerService(laborerRepo, groupRepo)
	taskService := services.NewTaskService(taskRepo, laborerRepo, groupRepo, wageRepo, expenseRepo, notificationService, db)
	productService := services.NewProductService(productRepo, userRepo, db)
	orderService := services.NewOrderService(
		orderRepo,
		productRepo,
		saleRepo,
		notificationService,
		db,
		cfg.Marketplace.LowStockThreshold,
		cfg.Marketplace.PickupAutoConfirmDays,
	)
	reportService := services.NewReportService(saleRepo, expenseRepo, wageRepo)
	inventoryService := services.NewInventoryService(inventoryRepo, expenseRepo, notificationService, db)

	router := gin.Default()

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("palay_session", store))

	var sessionResolver middleware.SessionResolver
	if cfg.Logto.Enabled() && !cfg.TestMode {
		logtoHandler := auth.NewLogtoHandler(&cfg.Logto, accountService)
		sessionResolver = logtoHandler

		authRoutes := router.Group("/auth")
		{
			authRoutes.GET("/login", logtoHandler.Login)
			authRoutes.GET("/callback", logtoHandler.Callback)
			authRoutes.GET("/logout", logtoHandler.Logout)
		}
	} else {
		log.Println("[Auth] OIDC login disabled, accepting API tokens only")
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenService, accountService, sessionResolver, cfg.TestMode)

	accountHandler := handlers.NewAccountHandler(accountService, tokenService)
	tokenHandler := handlers.NewTokenHandler(tokenService)
	directoryHandler := handlers.NewDirectoryHandler(accountService)
	laborerHandler := handlers.NewLaborerHandler(laborerService)
	taskHandler := handlers.NewTaskHandler(taskService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reportHandler := handlers.NewReportHandler(reportService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/swagger/index.html")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/index.html", handlers.SwaggerUI("Palay API", "/swagger/doc.json"))
	router.GET("/swagger/doc.json", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		api.POST("/accounts/register", accountHandler.Register)
		api.POST("/accounts/login", accountHandler.Login)
		api.GET("/products", productHandler.ListProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/farmers", directoryHandler.ListFarmers)

		authenticated := api.Group("")
		authenticated.Use(authMiddleware.RequireAuth())
		{
			authenticated.GET("/me", accountHandler.Me)
			authenticated.PUT("/me/role", accountHandler.SetRole)

			authenticated.POST("/tokens", tokenHandler.CreateToken)
			authenticated.GET("/tokens", tokenHandler.ListTokens)
			authenticated.DELETE("/tokens/:id", tokenHandler.DeleteToken)

			authenticated.POST("/orders", orderHandler.PlaceOrder)
			authenticated.GET("/orders", orderHandler.ListMyOrders)
			authenticated.GET("/orders/:id", orderHandler.GetOrder)
			authenticated.POST("/orders/:id/pickup", orderHandler.ConfirmPickup)
			authenticated.POST("/orders/:id/cancel", orderHandler.CancelOrder)

			authenticated.GET("/notifications", notificationHandler.ListNotifications)
			authenticated.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			authenticated.POST("/notifications/read-all", notificationHandler.MarkAllRead)
			authenticated.POST("/notifications/:id/read", notificationHandler.MarkRead)
		}

		farm := api.Group("")
		farm.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(models.RoleFarmer))
		{
			farm.POST("/laborers", laborerHandler.CreateLaborer)
			farm.GET("/laborers", laborerHandler.ListLaborers)
			farm.GET("/laborers/:id", laborerHandler.GetLaborer)
			farm.PUT("/laborers/:id", laborerHandler.UpdateLaborer)
			farm.DELETE("/laborers/:id", laborerHandler.DeleteLaborer)
			farm.GET("/laborers/:id/wages", taskHandler.GetLaborerWages)

			farm.POST("/groups", laborerHandler.CreateGroup)
			farm.GET("/groups", laborerHandler.ListGroups)
			farm.GET("/groups/:id", laborerHandler.GetGroup)
			farm.PUT("/groups/:id", laborerHandler.UpdateGroup)
			farm.DELETE("/groups/:id", laborerHandler.DeleteGroup)
			farm.POST("/groups/:id/members", laborerHandler.AddMember)
			farm.DELETE("/groups/:id/members/:laborerId", laborerHandler.RemoveMember)

			farm.POST("/tasks", taskHandler.CreateTask)
			farm.GET("/tasks", taskHandler.ListTasks)
			farm.GET("/tasks/:id", taskHandler.GetTask)
			farm.PUT("/tasks/:id", taskHandler.UpdateTask)
			farm.DELETE("/tasks/:id", taskHandler.DeleteTask)
			farm.POST("/tasks/:id/complete", taskHandler.CompleteTask)
			farm.POST("/tasks/:id/cancel", taskHandler.CancelTask)
			farm.GET("/tasks/:id/wages", taskHandler.GetTaskWages)

			farm.POST("/inventory", inventoryHandler.CreateItem)
			farm.GET("/inventory", inventoryHandler.ListItems)
			farm.GET("/inventory/low-stock", inventoryHandler.LowStock)
			farm.GET("/inventory/stats", inventoryHandler.Stats)
			farm.GET("/inventory/:id", inventoryHandler.GetItem)
			farm.PUT("/inventory/:id", inventoryHandler.UpdateItem)
			farm.DELETE("/inventory/:id", inventoryHandler.DeleteItem)
			farm.PUT("/inventory/:id/stock", inventoryHandler.UpdateStock)
			farm.POST("/inventory/:id/add-stock", inventoryHandler.AddStock)
			farm.POST("/inventory/:id/remove-stock", inventoryHandler.RemoveStock)
			farm.GET("/inventory/:id/transactions", inventoryHandler.Transactions)
		}

		farmer := api.Group("/farmer")
		farmer.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(models.RoleFarmer))
		{
			farmer.POST("/products", productHandler.CreateProduct)
			farmer.GET("/products", productHandler.ListMyProducts)
			farmer.PUT("/products/:id", productHandler.UpdateProduct)
			farmer.DELETE("/products/:id", productHandler.DeleteProduct)
			farmer.POST("/products/:id/restock", productHandler.RestockProduct)

			farmer.GET("/orders", orderHandler.ListIncomingOrders)
			farmer.POST("/orders/:id/accept", orderHandler.AcceptOrder)
			farmer.POST("/orders/:id/reject", orderHandler.RejectOrder)
			farmer.POST("/orders/:id/ready", orderHandler.MarkReadyForPickup)
			farmer.POST("/orders/:id/paid", orderHandler.MarkAsPaid)

			farmer.GET("/reports/sales", reportHandler.SalesSummary)
			farmer.GET("/reports/sales/export", reportHandler.ExportSales)
			farmer.GET("/reports/earnings", reportHandler.LaborEarnings)
		}
	}

	return router
}
