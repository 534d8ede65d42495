package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"

	"example.com/storefront/internal/infra/gateway/phonepe"
	"example.com/storefront/internal/infra/invoice"
	"example.com/storefront/internal/infra/mail"
	"example.com/storefront/internal/infra/objectstore"
	"example.com/storefront/internal/infra/persistence/mysql"
	"example.com/storefront/internal/infra/security"
	apihttp "example.com/storefront/internal/interface/http"
	addressuc "example.com/storefront/internal/usecase/address"
	cartuc "example.com/storefront/internal/usecase/cart"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	orderuc "example.com/storefront/internal/usecase/order"
	productuc "example.com/storefront/internal/usecase/product"
	reviewuc "example.com/storefront/internal/usecase/review"
	"example.com/storefront/pkg/config"
	"example.com/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	db, err := mysql.Open(cfg.MySQLDSN)
	if err != nil {
		log.Error("opening database failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := mysql.RunMigrations(db, cfg.MigrationsPath); err != nil {
		log.Error("running migrations failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Error("creating storage client failed", "err", err)
		os.Exit(1)
	}
	defer gcsClient.Close()

	cartRepo := mysql.NewCartRepository(db)
	productRepo := mysql.NewProductRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	userRepo := mysql.NewUserRepository(db)
	addressRepo := mysql.NewAddressRepository(db)
	reviewRepo := mysql.NewReviewRepository(db)

	gateway := phonepe.New(phonepe.Config{
		MerchantID:  cfg.PhonePeMerchantID,
		SaltKey:     cfg.PhonePeSaltKey,
		SaltIndex:   cfg.PhonePeSaltIndex,
		BaseURL:     cfg.PhonePeBaseURL,
		FrontendURL: cfg.FrontendURL,
		CallbackURL: cfg.ServerURL + "/api/v1/order/phonepe/verify",
		Timeout:     cfg.PhonePeTimeout,
	})

	renderer := invoice.NewRenderer(cfg.MailFromName, "Premium Furniture & Home Decor")
	bucket := objectstore.NewGCSBucket(gcsClient, cfg.InvoiceBucket)
	mailer := mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromEmail)

	orderSvc := orderuc.NewService(orderRepo, userRepo, productRepo, renderer, bucket, mailer, log)
	cartSvc := cartuc.NewService(cartRepo, productRepo)
	checkoutSvc := checkoutuc.NewService(productRepo, paymentRepo, cartRepo, orderSvc, gateway, log)
	productSvc := productuc.NewService(productRepo)
	addressSvc := addressuc.NewService(addressRepo)
	reviewSvc := reviewuc.NewService(reviewRepo, orderRepo, productRepo)

	tokenSvc := security.NewJWTService(cfg.JWTSecret, cfg.JWTExpiration)

	api := apihttp.NewAPI(apihttp.Dependencies{
		CartService:     cartSvc,
		CheckoutService: checkoutSvc,
		OrderService:    orderSvc,
		ProductService:  productSvc,
		AddressService:  addressSvc,
		ReviewService:   reviewSvc,
		TokenService:    tokenSvc,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
	log.Info("server stopped")
}
