package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/handler"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/middleware"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/config"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/database"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/jwtutil"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/metrics"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found or error loading: %v\n", err)
	}

	conf, err := config.Load("fixtector")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.Info("Starting fixtector", conf.LogConfig()...)

	// Open the main store and bring it to the current schema. Failure here
	// is fatal: everything depends on the main store.
	if err := os.MkdirAll(conf.Storage.Root, 0o755); err != nil {
		log.Fatal("Failed to create storage root: " + err.Error())
	}
	dbOpts := database.Options{
		MaxIdleConns:    conf.Storage.MaxIdleConns,
		MaxOpenConns:    conf.Storage.MaxOpenConns,
		ConnMaxLifetime: conf.Storage.ConnMaxLifetime,
		LogLevel:        conf.Storage.LogLevel,
	}
	mainDB, err := database.Open(conf.Storage.MainPath(), dbOpts)
	if err != nil {
		log.Fatal("Failed to open main store: " + err.Error())
	}
	if err := database.MigrateModels(mainDB, model.MainModels()...); err != nil {
		log.Fatal("Failed to migrate main store: " + err.Error())
	}

	// Tenant data-routing layer
	provisioner := tenantdb.NewProvisioner(
		conf.Storage.Root,
		model.TenantModels(),
		dbOpts,
		conf.Storage.ProvisionTimeout,
		log,
	)
	router := tenantdb.NewRouter(mainDB, provisioner, log)
	defer router.Cache().CloseAll(log)

	resolver := tenantdb.NewScatterResolver(router, conf.Scatter.Limit, conf.Scatter.Concurrency, log)
	bulk := tenantdb.NewBulkOps(router, conf.Storage.MainPath(), tenantdb.NewBcryptVerifier(conf.Admin.WipeCredentialHash), log)

	// Initialize JWT utility
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	// Initialize HTTP metrics
	httpMetrics := metrics.NewHTTPMetrics(conf.ServiceName)

	// Handlers
	authHandler := handler.NewAuthHandler(router, jwt)
	tenantHandler := handler.NewTenantHandler(router)
	customerHandler := handler.NewCustomerHandler(router)
	repairHandler := handler.NewRepairHandler(router)
	partHandler := handler.NewPartHandler(router)
	quoteHandler := handler.NewQuoteHandler(router)
	invoiceHandler := handler.NewInvoiceHandler(router)
	appointmentHandler := handler.NewAppointmentHandler(router)
	reviewHandler := handler.NewReviewHandler(router)
	shortLinkHandler := handler.NewShortLinkHandler(router)
	publicHandler := handler.NewPublicHandler(router, resolver)
	adminHandler := handler.NewAdminHandler(router, bulk)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	// Public routes
	e.GET("/health", handler.HealthCheck)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/p/reviews/:token", publicHandler.GetPublicReview)
	e.POST("/p/reviews/:token/response", publicHandler.RespondPublicReview)
	e.GET("/s/:code", publicHandler.RedirectShortLink)

	// Secured routes - require authentication
	api := e.Group("", middleware.JWTAuthMiddleware(jwt))

	api.GET("/tenants/current", tenantHandler.CurrentTenant)

	api.POST("/customers", customerHandler.CreateCustomer)
	api.GET("/customers", customerHandler.ListCustomers)
	api.GET("/customers/:id", customerHandler.GetCustomer)
	api.PUT("/customers/:id", customerHandler.UpdateCustomer)
	api.DELETE("/customers/:id", customerHandler.DeleteCustomer)

	api.POST("/repairs", repairHandler.CreateRepair)
	api.GET("/repairs", repairHandler.ListRepairs)
	api.GET("/repairs/:id", repairHandler.GetRepair)
	api.PUT("/repairs/:id/status", repairHandler.UpdateRepairStatus)
	api.POST("/repairs/:id/parts", repairHandler.AttachPart)

	api.POST("/parts", partHandler.CreatePart)
	api.GET("/parts", partHandler.ListParts)
	api.PUT("/parts/:id", partHandler.UpdatePart)

	api.POST("/quotes", quoteHandler.CreateQuote)
	api.GET("/quotes", quoteHandler.ListQuotes)
	api.PUT("/quotes/:id/status", quoteHandler.UpdateQuoteStatus)

	api.POST("/invoices", invoiceHandler.CreateInvoice)
	api.GET("/invoices", invoiceHandler.ListInvoices)
	api.PUT("/invoices/:id/pay", invoiceHandler.MarkInvoicePaid)

	api.POST("/appointments", appointmentHandler.CreateAppointment)
	api.GET("/appointments", appointmentHandler.ListAppointments)
	api.PUT("/appointments/:id/cancel", appointmentHandler.CancelAppointment)

	api.POST("/reviews", reviewHandler.CreateReview)
	api.GET("/reviews", reviewHandler.ListReviews)
	api.PUT("/reviews/:id/response", reviewHandler.RespondReview)

	api.POST("/shortlinks", shortLinkHandler.CreateShortLink)
	api.GET("/shortlinks", shortLinkHandler.ListShortLinks)

	// Administrative routes - require the platform admin role
	admin := api.Group("", middleware.AdminRequired())
	admin.POST("/tenants", tenantHandler.CreateTenant)
	admin.GET("/tenants", tenantHandler.ListTenants)
	admin.GET("/admin/subscriptions", adminHandler.ListSubscriptions)
	admin.PUT("/admin/subscriptions/:tenant_id", adminHandler.UpdateSubscription)
	admin.GET("/admin/backup", adminHandler.Backup)
	admin.POST("/admin/wipe", adminHandler.Wipe)

	// Start server
	log.Info("Starting fixtector on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
