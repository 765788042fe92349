package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"storeadmin/internal/config"
	"storeadmin/internal/domain/model"
	"storeadmin/internal/handler"
	"storeadmin/internal/identity"
	"storeadmin/internal/infra/cache"
	"storeadmin/internal/infra/db"
	"storeadmin/internal/infra/payment"
	infraRepo "storeadmin/internal/infra/repository"
	"storeadmin/internal/logging"
	"storeadmin/internal/middleware"
	"storeadmin/internal/server"
	"storeadmin/internal/shutdown"
	"storeadmin/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
)

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("err", err))
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Error("db connect failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("db migrate failed", slog.Any("err", err))
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	storeRepo := infraRepo.NewStoreGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	colorRepo := infraRepo.NewColorGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//トークン検証（ダッシュボードとストアフロントで別のIDプロバイダでもよい）
	httpClient := &http.Client{Timeout: 10 * time.Second}
	adminVerifier, err := identity.NewVerifier(cfg.AdminAuth, httpClient)
	if err != nil {
		log.Error("admin identity", slog.Any("err", err))
		os.Exit(1)
	}
	customerVerifier, err := identity.NewVerifier(cfg.CustomerAuth, httpClient)
	if err != nil {
		log.Error("customer identity", slog.Any("err", err))
		os.Exit(1)
	}
	defer adminVerifier.Close()
	defer customerVerifier.Close()

	//決済ゲートウェイ（設定されているものだけ）
	var (
		gateways      []usecase.PaymentGateway
		rzpVerifier   usecase.PaymentSignatureVerifier
		rzpWebhook    usecase.WebhookParser
		stripeWebhook usecase.WebhookParser
	)
	if cfg.Stripe.Enabled() {
		g := payment.NewStripeGateway(cfg.Stripe, cfg.FrontendStoreURL, nil)
		gateways = append(gateways, g)
		stripeWebhook = g
	}
	if cfg.Razorpay.Enabled() {
		g := payment.NewRazorpayGateway(cfg.Razorpay)
		gateways = append(gateways, g)
		rzpVerifier = g
		rzpWebhook = g
	}
	if len(gateways) == 0 {
		log.Warn("no payment gateway configured; checkout will be rejected")
	}

	//webhookの重複排除（REDIS_URLがあれば）
	var dedup usecase.EventDeduper = usecase.NoopDeduper{}
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connect failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() { _ = rdb.Close() }()
		dedup = cache.NewRedisDeduper(rdb, cfg.WebhookDedupTTL)
	}

	//Usecase生成
	storeUC := usecase.NewStoreUsecase(storeRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo)
	colorUC := usecase.NewColorUsecase(colorRepo, productRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, colorRepo, orderItemRepo, inventoryRepo, auditRepo)
	customerUC := usecase.NewCustomerUsecase(txm, customerRepo, addressRepo, orderRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txm, productRepo, orderRepo, gateways, model.PaymentProvider(cfg.DefaultPaymentProvider), log)
	paymentUC := usecase.NewPaymentUsecase(usecase.PaymentUsecaseDeps{
		Tx:              txm,
		Orders:          orderRepo,
		Razorpay:        rzpVerifier,
		RazorpayWebhook: rzpWebhook,
		StripeWebhook:   stripeWebhook,
		Dedup:           dedup,
		Log:             log,
	})
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, auditRepo)

	//Handler生成
	adminAuth := middleware.AuthIdentity(adminVerifier, true)
	guards := handler.Guards{
		Owner:    []echo.MiddlewareFunc{adminAuth, middleware.StoreOwnerGuard(storeRepo)},
		Admin:    adminAuth,
		Customer: middleware.AuthIdentity(customerVerifier, true),
		Optional: middleware.AuthIdentity(customerVerifier, false),
	}
	handlers := server.Handlers{
		Store:        handler.NewStoreHandler(storeUC),
		Category:     handler.NewCategoryHandler(categoryUC),
		Color:        handler.NewColorHandler(colorUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Customer:     handler.NewCustomerHandler(customerUC),
		Checkout:     handler.NewCheckoutHandler(checkoutUC),
		Payment:      handler.NewPaymentHandler(paymentUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
	}

	//Server起動
	srv := server.New(cfg, log, guards, handlers)
	if err := srv.Run(ctx); err != nil {
		log.Error("http server error", slog.Any("err", err))
		os.Exit(1)
	}
}
