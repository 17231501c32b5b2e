package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/admin"
	"github.com/wifigate/WiFiGate-API/internal/api/handlers"
	"github.com/wifigate/WiFiGate-API/internal/api/middleware"
	"github.com/wifigate/WiFiGate-API/internal/events"
	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/network"
	"github.com/wifigate/WiFiGate-API/internal/notify"
	"github.com/wifigate/WiFiGate-API/internal/payment"
	"github.com/wifigate/WiFiGate-API/internal/settings"
	"github.com/wifigate/WiFiGate-API/internal/sms"
	"github.com/wifigate/WiFiGate-API/internal/stats"
	"github.com/wifigate/WiFiGate-API/internal/token"
	"gorm.io/gorm"
)

// Dependencies 路由依赖
// 外部适配器（短信、支付）在启动时显式构造注入，便于测试替换
type Dependencies struct {
	DB             *gorm.DB
	Logger         *logger.Logger
	AdminService   *admin.Service
	Sender         sms.Sender
	StripeProvider *payment.StripeProvider
	PaynowProvider *payment.PaynowProvider
	MobileProvider *payment.PaynowProvider
	RequestCounter *stats.RequestCounter
}

// SetupRouter 配置路由
func SetupRouter(deps *Dependencies) *gin.Engine {
	router := gin.Default()

	// Portal 页面与管理前端跨域访问
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	if deps.RequestCounter == nil {
		deps.RequestCounter = stats.NewRequestCounter(0)
	}
	router.Use(middleware.RequestCounterMiddleware(deps.RequestCounter))

	// 健康检查端点
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "WiFiGate-API",
		})
	})

	// 构建服务层
	eventService := events.NewService(deps.DB)

	tokenRepo := token.NewRepository(deps.DB)
	tokenService := token.NewService(tokenRepo, deps.Sender, eventService, deps.Logger)

	networkRepo := network.NewRepository(deps.DB)
	networkService := network.NewService(networkRepo, eventService, deps.Logger)

	settingsRepo := settings.NewRepository(deps.DB)
	settingsService := settings.NewService(settingsRepo, eventService, deps.Logger)

	notifyService := notify.NewService(tokenRepo, deps.Sender, deps.Logger)

	var providers []payment.Provider
	if deps.StripeProvider != nil {
		providers = append(providers, deps.StripeProvider)
	}
	if deps.PaynowProvider != nil {
		providers = append(providers, deps.PaynowProvider)
	}
	if deps.MobileProvider != nil {
		providers = append(providers, deps.MobileProvider)
	}

	paymentRepo := payment.NewRepository(deps.DB)
	paymentService := payment.NewService(paymentRepo, providers, tokenService,
		networkService, settingsService, eventService, deps.Logger)

	// 构建处理器
	portalHandler := handlers.NewPortalHandler(paymentService, tokenService)
	authHandler := handlers.NewAuthHandler(deps.AdminService)
	tokenHandler := handlers.NewTokenHandler(tokenService, networkService, settingsService, notifyService)
	networkHandler := handlers.NewNetworkHandler(networkService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	statsHandler := handlers.NewStatsHandler(stats.NewDashboard(deps.DB), deps.RequestCounter, eventService)
	webhookHandler := handlers.NewWebhookHandler(paymentService, deps.StripeProvider, deps.PaynowProvider, deps.Logger)

	apiGroup := router.Group("/api")
	{
		// 公开接口
		apiGroup.POST("/purchase-token", portalHandler.PurchaseToken)
		apiGroup.POST("/validate-token", portalHandler.ValidateToken)
		apiGroup.GET("/networks/active", networkHandler.ListActiveNetworks)
		apiGroup.POST("/admin/login", authHandler.Login)

		// 支付渠道回调
		apiGroup.POST("/webhook/stripe", webhookHandler.HandleStripeWebhook)
		apiGroup.POST("/payment/webhook", webhookHandler.HandlePaynowWebhook)

		// 管理接口
		adminGroup := apiGroup.Group("")
		adminGroup.Use(middleware.AdminAuthMiddleware(deps.AdminService))
		{
			adminGroup.POST("/tokens/generate", tokenHandler.GenerateToken)
			adminGroup.GET("/tokens", tokenHandler.ListTokens)
			adminGroup.GET("/tokens/active", tokenHandler.ListActiveTokens)
			adminGroup.POST("/tokens/:id/revoke", tokenHandler.RevokeToken)
			adminGroup.POST("/tokens/send-expiration-notifications", tokenHandler.SendExpirationNotifications)

			adminGroup.GET("/networks", networkHandler.ListNetworks)
			adminGroup.POST("/networks", networkHandler.CreateNetwork)
			adminGroup.GET("/networks/:id", networkHandler.GetNetwork)
			adminGroup.PUT("/networks/:id", networkHandler.UpdateNetwork)
			adminGroup.DELETE("/networks/:id", networkHandler.DeleteNetwork)

			adminGroup.GET("/settings", settingsHandler.GetSettings)
			adminGroup.PUT("/settings", settingsHandler.UpdateSettings)

			adminGroup.GET("/stats", statsHandler.GetStats)
			adminGroup.GET("/events", statsHandler.GetEvents)
		}
	}

	return router
}
