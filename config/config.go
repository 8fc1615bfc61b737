package config

import (
	"github.com/internbridge/trustguard/internal/logger"
	"github.com/internbridge/trustguard/internal/tracing"
)

type AppConfig struct {
	APIPort     string `env:"PORT,required" envDefault:"11000"`
	APIKey      string `env:"API_KEY,required"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
}

type DatabaseConfig struct {
	Host            string `env:"TRUSTGUARD_POSTGRES_HOST,required"`
	Port            string `env:"TRUSTGUARD_POSTGRES_PORT,required"`
	User            string `env:"TRUSTGUARD_POSTGRES_USER,required"`
	DBName          string `env:"TRUSTGUARD_POSTGRES_DB_NAME,required"`
	Password        string `env:"TRUSTGUARD_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"TRUSTGUARD_POSTGRES_DB_MAX_CONN"`
	MaxIdleConn     int    `env:"TRUSTGUARD_POSTGRES_DB_MAX_IDLE_CONN"`
	ConnMaxLifetime int    `env:"TRUSTGUARD_POSTGRES_DB_CONN_MAX_LIFETIME"`
	LogLevel        string `env:"TRUSTGUARD_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"TRUSTGUARD_POSTGRES_SSL_MODE" envDefault:"require"`
}

type PaymentGatewayConfig struct {
	Url       string `env:"PAYMENT_GATEWAY_URL" envDefault:"https://api.razorpay.com/v1"`
	KeyID     string `env:"PAYMENT_GATEWAY_KEY_ID"`
	KeySecret string `env:"PAYMENT_GATEWAY_KEY_SECRET"`
	Currency  string `env:"PAYMENT_GATEWAY_CURRENCY" envDefault:"INR"`
}

type Config struct {
	AppConfig            *AppConfig
	Logger               *logger.Config
	Tracing              *tracing.JaegerConfig
	DatabaseConfig       *DatabaseConfig
	PaymentGatewayConfig *PaymentGatewayConfig
}
