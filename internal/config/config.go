package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	SMTP     *SMTPConfig     `mapstructure:"smtp"`
	Razorpay *RazorpayConfig `mapstructure:"razorpay"`
	PhonePe  *PhonePeConfig  `mapstructure:"phonepe"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	BaseURL            string        `mapstructure:"base_url"`
	Port               string        `mapstructure:"port"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	AdminPIN           string        `mapstructure:"admin_pin"`
	UPIID              string        `mapstructure:"upi_id"`
	MerchantName       string        `mapstructure:"merchant_name"`
	UploadDir          string        `mapstructure:"upload_dir"`
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// SMTPConfig carries the mail transport settings. Provider selects a preset
// ("default", "gmail" or "sendgrid"); host and port are only read for "default".
type SMTPConfig struct {
	Provider string `mapstructure:"provider"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type RazorpayConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
	Currency  string `mapstructure:"currency"`
}

type PhonePeConfig struct {
	MerchantID string `mapstructure:"merchant_id"`
	SaltKey    string `mapstructure:"salt_key"`
	SaltIndex  int    `mapstructure:"salt_index"`
	HostURL    string `mapstructure:"host_url"`
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	loadSecretsFromEnv(conf)

	return conf, nil
}

// loadSecretsFromEnv lets deployment environments override credentials
// without touching the config file.
func loadSecretsFromEnv(conf *AppConfig) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		conf.API.JWTSigningKey = v
	}
	if v := os.Getenv("ADMIN_PIN"); v != "" {
		conf.API.AdminPIN = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		conf.Postgres.Password = v
	}
	if v := os.Getenv("RAZORPAY_KEY_ID"); v != "" {
		conf.Razorpay.KeyID = v
	}
	if v := os.Getenv("RAZORPAY_KEY_SECRET"); v != "" {
		conf.Razorpay.KeySecret = v
	}
	if v := os.Getenv("PHONEPE_SALT_KEY"); v != "" {
		conf.PhonePe.SaltKey = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		conf.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		conf.SMTP.Password = v
	}
}
