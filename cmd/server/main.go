package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wifigate/WiFiGate-API/internal/admin"
	"github.com/wifigate/WiFiGate-API/internal/api"
	"github.com/wifigate/WiFiGate-API/internal/config"
	"github.com/wifigate/WiFiGate-API/internal/db"
	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/payment"
	"github.com/wifigate/WiFiGate-API/internal/sms"
	"github.com/wifigate/WiFiGate-API/internal/stats"
)

const (
	// Version 项目版本
	Version = "0.1.0"
	// AppName 应用名称
	AppName = "WiFiGate-API"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.Server.Development)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer appLogger.SugaredLogger.Sync()

	appLogger.Infof("=== %s v%s ===", AppName, Version)

	database, err := db.InitDatabase(&cfg.Database)
	if err != nil {
		appLogger.Fatalf("初始化数据库失败: %v", err)
	}
	defer db.CloseDatabase(database)

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(database); err != nil {
			appLogger.Fatalf("数据库迁移失败: %v", err)
		}
	}

	// 短信发送器：未配置 Twilio 凭证时退化为演示模式
	var sender sms.Sender
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" && cfg.Twilio.PhoneNumber != "" {
		sender = sms.NewTwilioSender(cfg.Twilio)
		appLogger.Info("短信发送器: Twilio")
	} else {
		sender = sms.NewLogSender(appLogger)
		appLogger.Warn("短信发送器: 演示模式（未配置 Twilio 凭证）")
	}

	// 支付渠道：按配置启用
	deps := &api.Dependencies{
		DB:             database,
		Logger:         appLogger,
		AdminService:   admin.NewService(cfg.Admin.Password, cfg.Admin.SessionSecret),
		Sender:         sender,
		RequestCounter: stats.NewRequestCounter(60 * time.Second),
	}
	if cfg.Stripe.SecretKey != "" {
		deps.StripeProvider = payment.NewStripeProvider(cfg.Stripe)
		appLogger.Info("支付渠道: Stripe 已启用")
	}
	if cfg.Paynow.IntegrationID != "" && cfg.Paynow.IntegrationKey != "" {
		deps.PaynowProvider = payment.NewPaynowProvider(cfg.Paynow, false)
		deps.MobileProvider = payment.NewPaynowProvider(cfg.Paynow, true)
		appLogger.Info("支付渠道: Paynow / 移动钱包已启用")
	}

	router := api.SetupRouter(deps)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("HTTP 服务监听 :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("HTTP 服务异常退出: %v", err)
		}
	}()

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("收到退出信号，开始关闭...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorf("关闭 HTTP 服务失败: %v", err)
	}
	appLogger.Info("服务已退出")
}
