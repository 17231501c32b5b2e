package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path            string        // 数据库文件路径
	MaxOpenConns    int           // 最大连接数
	MaxIdleConns    int           // 最大空闲连接数
	ConnMaxLifetime time.Duration // 连接最大生命周期
	AutoMigrate     bool          // 是否自动迁移
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int
	Development bool
}

// AdminConfig 管理端认证配置
type AdminConfig struct {
	Password      string // 共享管理密码
	SessionSecret string // 会话凭证签名密钥
}

// StripeConfig Stripe 支付配置
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// PaynowConfig Paynow 支付配置
type PaynowConfig struct {
	IntegrationID  string
	IntegrationKey string
	ResultURL      string
	ReturnURL      string
}

// TwilioConfig Twilio 短信配置
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Config 应用配置
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Admin    AdminConfig
	Stripe   StripeConfig
	Paynow   PaynowConfig
	Twilio   TwilioConfig
}

// LoadConfig 从环境变量加载配置（支持 .env 文件）
func LoadConfig() (*Config, error) {
	// .env 存在时加载，不存在则忽略
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Development: getEnvAsBool("DEVELOPMENT", false),
		},
		Database: DatabaseConfig{
			Path:            getEnv("DATABASE_PATH", "./data/wifigate.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Hour,
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Admin: AdminConfig{
			Password:      getEnv("ADMIN_PASSWORD", ""),
			SessionSecret: getEnv("SESSION_SECRET", ""),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Paynow: PaynowConfig{
			IntegrationID:  getEnv("PAYNOW_INTEGRATION_ID", ""),
			IntegrationKey: getEnv("PAYNOW_INTEGRATION_KEY", ""),
			ResultURL:      getEnv("PAYNOW_RESULT_URL", ""),
			ReturnURL:      getEnv("PAYNOW_RETURN_URL", ""),
		},
		Twilio: TwilioConfig{
			AccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
			PhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		},
	}

	return cfg, nil
}

// getEnv 读取环境变量，缺省时返回默认值
func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 读取整型环境变量
func getEnvAsInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsBool 读取布尔型环境变量
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
