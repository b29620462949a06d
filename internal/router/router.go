package router

import (
	"context"
	"time"

	"github.com/digisapp/exa-platform/config"
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/handler"
	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/realtime"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"
	"github.com/digisapp/exa-platform/pkg/cloudinary"
	"github.com/digisapp/exa-platform/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the externally-constructed pieces the router wires together.
type Deps struct {
	Cloud    cloudinary.Client
	Provider payment.Provider
	Events   service.EventPublisher
	Hub      *realtime.Hub
	Log      zerolog.Logger
}

// Setup builds the full dependency graph and registers every route. The
// returned AuctionService is also the background closer main runs.
func Setup(ctx context.Context, cfg *config.Config, db *gorm.DB, deps Deps) (*gin.Engine, *service.AuctionService, error) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	actorRepo := repository.NewActorRepository(db)
	modelRepo := repository.NewModelRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auctionRepo := repository.NewAuctionRepository(db)
	callRepo := repository.NewCallRequestRepository(db)
	slotRepo := repository.NewAvailabilityRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, actorRepo, modelRepo)
	fcmSvc, err := service.NewFCMService(ctx, cfg.Firebase.ServiceAccountPath, deps.Log)
	if err != nil {
		return nil, nil, err
	}
	notifSvc := service.NewNotificationService(notificationRepo, actorRepo, fcmSvc, deps.Log)
	escrowSvc := service.NewEscrowService(db, ledgerRepo, bookingRepo, slotRepo, deps.Log)
	auctionSvc := service.NewAuctionService(db, ledgerRepo, auctionRepo, deps.Events, cfg.Auction, deps.Log)
	callSvc := service.NewCallService(db, ledgerRepo, callRepo)
	paymentSvc := service.NewPaymentService(&cfg.Payment, db, paymentRepo, ledgerRepo, deps.Provider, deps.Log)
	withdrawalSvc := service.NewWithdrawalService(&cfg.Payment, db, withdrawalRepo, ledgerRepo, deps.Provider, deps.Log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo, deps.Log)
	googleHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditRepo)
	modelHandler := handler.NewModelHandler(modelRepo, deps.Cloud, deps.Log)
	bookingHandler := handler.NewBookingHandler(escrowSvc, bookingRepo, modelRepo, actorRepo, notifSvc)
	offerHandler := handler.NewOfferHandler(escrowSvc, modelRepo, notifSvc)
	auctionHandler := handler.NewAuctionHandler(auctionSvc, auctionRepo, modelRepo, actorRepo)
	callHandler := handler.NewCallHandler(callSvc, callRepo, modelRepo, actorRepo, notifSvc)
	availabilityHandler := handler.NewAvailabilityHandler(slotRepo, modelRepo)
	walletHandler := handler.NewWalletHandler(ledgerRepo, escrowSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, actorRepo, deps.Log)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc, actorRepo, deps.Log)
	notificationHandler := handler.NewNotificationHandler(notifSvc, actorRepo)
	adminHandler := handler.NewAdminHandler(actorRepo, ledgerRepo, auctionSvc, auditRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	clientMw := middleware.RequireRole(domain.RoleFan, domain.RoleBrand)
	modelMw := middleware.RequireRole(domain.RoleModel)
	fanMw := middleware.RequireRole(domain.RoleFan)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/register/model", authHandler.RegisterModel)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/google", googleHandler.Redirect)
			auth.GET("/google/callback", googleHandler.Callback)
			auth.POST("/google/token", googleHandler.Token)
		}

		models := api.Group("/models")
		{
			models.GET("", modelHandler.List)
			models.GET("/:id", modelHandler.Get)
			models.GET("/:id/availability", availabilityHandler.ListForModel)
		}

		me := api.Group("/me", authMw)
		{
			me.GET("/wallet", walletHandler.Balance)
			me.GET("/wallet/transactions", walletHandler.Transactions)
			me.GET("/notifications", notificationHandler.List)
			me.POST("/notifications/:id/read", notificationHandler.MarkRead)
			me.POST("/device", notificationHandler.RegisterDevice)

			model := me.Group("/model", modelMw)
			{
				model.GET("", modelHandler.Me)
				model.PATCH("", modelHandler.UpdateMe)
				model.PATCH("/rates", modelHandler.UpdateRates)
				model.POST("/media", modelHandler.UploadMedia)
				model.DELETE("/media/:mediaId", modelHandler.DeleteMedia)
				model.GET("/availability", availabilityHandler.ListMine)
				model.POST("/availability", availabilityHandler.Create)
				model.DELETE("/availability/:id", availabilityHandler.Delete)
				model.GET("/bookings", bookingHandler.ListForModel)
				model.GET("/calls", callHandler.ListForModel)
			}
		}

		bookings := api.Group("/bookings", authMw)
		{
			bookings.POST("", clientMw, bookingHandler.Create)
			bookings.GET("", clientMw, bookingHandler.ListMine)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("/:id/accept", modelMw, bookingHandler.Accept)
			bookings.POST("/:id/decline", modelMw, bookingHandler.Decline)
			bookings.POST("/:id/counter", modelMw, bookingHandler.Counter)
			bookings.POST("/:id/no-show", modelMw, bookingHandler.NoShow)
			bookings.POST("/:id/complete", clientMw, bookingHandler.Complete)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
		}

		api.PATCH("/offers/:id", authMw, clientMw, offerHandler.Respond)

		auctions := api.Group("/auctions")
		{
			auctions.GET("", auctionHandler.List)
			auctions.GET("/:id", auctionHandler.Get)
			auctions.GET("/:id/bids", auctionHandler.ListBids)
			auctions.POST("", authMw, modelMw, auctionHandler.Create)
			auctions.POST("/:id/bids", authMw, clientMw, auctionHandler.PlaceBid)
			auctions.POST("/:id/cancel", authMw, modelMw, auctionHandler.Cancel)
		}

		calls := api.Group("/calls", authMw)
		{
			calls.POST("", fanMw, callHandler.Create)
			calls.GET("", fanMw, callHandler.ListMine)
			calls.POST("/:id/accept", modelMw, callHandler.Accept)
			calls.POST("/:id/decline", modelMw, callHandler.Decline)
			calls.POST("/:id/cancel", fanMw, callHandler.Cancel)
		}

		coins := api.Group("/coins")
		{
			coins.GET("/packages", paymentHandler.ListPackages)
			coins.POST("/purchase", authMw, paymentHandler.InitiatePurchase)
			coins.GET("/purchases", authMw, paymentHandler.ListMine)
		}

		withdrawals := api.Group("/withdrawals", authMw, modelMw)
		{
			withdrawals.POST("", withdrawalHandler.Request)
			withdrawals.GET("", withdrawalHandler.ListMine)
		}

		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("/payment", paymentHandler.Webhook)
			webhooks.POST("/withdrawal", withdrawalHandler.Webhook)
		}

		admin := api.Group("/admin", authMw, adminMw)
		{
			admin.GET("/actors", adminHandler.ListActors)
			admin.GET("/transactions", adminHandler.ListTransactions)
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/audit", adminHandler.ListAuditLog)
			admin.POST("/auctions/:id/cancel", adminHandler.CancelAuction)
		}
	}

	r.GET("/ws/auctions", realtime.UpgradeAuctionWS(&cfg.JWT, deps.Hub))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	return r, auctionSvc, nil
}
