package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wholesale-backend/controllers"
	"wholesale-backend/database"
	"wholesale-backend/logger"
	"wholesale-backend/models"
	"wholesale-backend/pkg/aws"
	"wholesale-backend/repository"
	"wholesale-backend/routes"
	"wholesale-backend/sender"
	"wholesale-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if err := logger.Initialize(env); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Log.Sync()
	log := logger.Log

	cfg := LoadConfig(log)

	db, err := database.ConnectPostgres(cfg.Postgres, log,
		&models.Category{},
		&models.Product{},
		&models.PricingTier{},
		&models.ProductPrice{},
		&models.UserPricingTier{},
		&models.AddressRecord{},
		&models.OrderRecord{},
		&models.TrackingRecord{},
		&models.StoreSettings{},
		&models.NotificationLog{},
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	redisClient, err := database.NewRedisClient(cfg.RedisURL, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories
	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.CartTTL)
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	pricingRepo := repository.NewGormPricingRepository(db)
	addressRepo := repository.NewGormAddressRepository(db)
	settingsRepo := repository.NewGormSettingsRepository(db)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	if err := settingsRepo.EnsureDefaults(bootCtx); err != nil {
		cancelBoot()
		log.Fatal("Failed to seed store settings", zap.Error(err))
	}
	cancelBoot()

	// SNS is optional: events are best-effort and the service runs without it.
	var snsPublisher aws.SNSPublisher
	if cfg.SNSTopicArn != "" {
		awsCtx, cancelAws := context.WithTimeout(context.Background(), 10*time.Second)
		awsCfg, err := aws.LoadAWSConfig(awsCtx)
		cancelAws()
		if err != nil {
			log.Warn("AWS unavailable, order events disabled", zap.Error(err))
		} else {
			snsPublisher = aws.NewSNSClient(awsCfg)
		}
	}

	var emailSender sender.EmailSender
	if cfg.SMTPEnabled {
		smtpSender, err := sender.NewSMTPSender()
		if err != nil {
			log.Fatal("SMTP enabled but not configured", zap.Error(err))
		}
		emailSender = smtpSender
	} else {
		log.Info("SMTP disabled, email notifications will be dropped")
		emailSender = sender.NewNoopSender()
	}

	// Services
	moqResolver := services.NewMOQResolver(settingsRepo)
	cartService := services.NewCartService(cartRepo, productRepo, moqResolver, log)
	pricingService := services.NewPricingService(pricingRepo, log)
	shippingCalculator := services.NewShippingCalculator(settingsRepo, log)
	notificationService, err := services.NewNotificationService(settingsRepo, emailSender, log)
	if err != nil {
		log.Fatal("Failed to build notification service", zap.Error(err))
	}
	orderService := services.NewOrderService(orderRepo, productRepo, snsPublisher, cfg.SNSTopicArn, log)
	checkoutService := services.NewCheckoutService(
		cartRepo, addressRepo, orderRepo,
		shippingCalculator, pricingService, notificationService,
		snsPublisher, cfg.SNSTopicArn, log,
	)
	productService := services.NewProductService(productRepo, log)
	settingsService := services.NewSettingsService(settingsRepo, log)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(timeoutMiddleware(30 * time.Second))

	routes.SetupRoutes(router, routes.Controllers{
		Cart:     controllers.NewCartController(cartService),
		Checkout: controllers.NewCheckoutController(checkoutService),
		Order:    controllers.NewOrderController(orderService),
		Pricing:  controllers.NewPricingController(pricingService, productService),
		Shipping: controllers.NewShippingController(shippingCalculator, cartRepo),
		Settings: controllers.NewSettingsController(settingsService),
		Product:  controllers.NewProductController(productService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// timeoutMiddleware bounds each request with a deadline.
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
