// File: plinio/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"plinio/config"
	"plinio/cron"
	"plinio/database"
	bookingRepo "plinio/database/repository/booking"
	commerceRepo "plinio/database/repository/commerce"
	orderRepo "plinio/database/repository/order"
	siteRepo "plinio/database/repository/site"
	tokenRepo "plinio/database/repository/token"
	"plinio/handlers"
	"plinio/routes"
	"plinio/services/calendar"
	"plinio/services/catalog"
	"plinio/services/delivery"
	"plinio/services/fulfillment"
	"plinio/services/notification"
	"plinio/services/scheduling"
	"plinio/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitQueueClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins: config.AllowedOrigins(),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type", "Authorization", "Stripe-Signature", "X-Payhip-Signature"},
		MaxAge:       12 * time.Hour,
	}))

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	orders := orderRepo.NewMongoOrderRepo()
	tokens := tokenRepo.NewMongoTokenRepo()
	site := siteRepo.NewMongoSiteRepo()
	commerce := commerceRepo.NewMongoCommerceRepo()

	for name, ensure := range map[string]func() error{
		"bookings": bookings.EnsureIndexes,
		"orders":   orders.EnsureIndexes,
		"tokens":   tokens.EnsureIndexes,
		"commerce": commerce.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	notifier := notification.NewDefaultNotificationService(
		config.AppConfig.ResendAPIKey,
		config.AppConfig.ResendFrom,
		config.AppConfig.ResendTo,
		queueClient,
	)
	emailWorker := cron.InitEmailWorker(notifier)

	gateway := calendar.NewGoogleGateway(config.AppConfig.CalendarCredentialsJSON)
	settings := scheduling.SettingsFromConfig()
	cache := utils.GetCacheClient()

	availabilitySvc := &scheduling.DefaultAvailabilityService{
		Gateway:  gateway,
		Settings: settings,
		Cache:    cache,
	}
	bookingSvc := &scheduling.DefaultBookingService{
		Gateway:  gateway,
		Repo:     bookings,
		Notifier: notifier,
		Settings: settings,
		Cache:    cache,
	}

	catalogSvc := catalog.NewPayhipCatalogService(config.AppConfig.PayhipAPIKey, nil, cache)
	fulfillmentSvc := &fulfillment.DefaultFulfillmentService{
		Orders:        orders,
		Tokens:        tokens,
		Catalog:       catalogSvc,
		Notifier:      notifier,
		Secrets:       config.StripeWebhookSecrets(),
		PublicBaseURL: config.AppConfig.PublicBaseURL,
	}
	deliverySvc := delivery.NewDefaultDeliveryService(tokens, catalogSvc)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Booking:  handlers.NewBookingHandler(availabilitySvc, bookingSvc, logger),
		Payments: handlers.NewPaymentsHandler(fulfillmentSvc, logger),
		Download: handlers.NewDownloadHandler(deliverySvc, logger),
		Payhip:   handlers.NewPayhipHandler(commerce, logger),
		Site:     handlers.NewSiteHandler(site, notifier, logger),
		Products: handlers.NewProductsHandler(catalogSvc, logger),
		Admin:    handlers.NewAdminHandler(orders, tokens, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetQueueClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	emailWorker.Shutdown()
	queueClient.Close()
	database.CloseDB(ctx)

	logger.Sugar().Info("main: server stopped gracefully")
}
