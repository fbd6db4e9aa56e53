package config

import (
	"fmt"
	"strings"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_DSN,required=true"`
	RedisURL    string `env:"REDIS_URL,required=true"`

	OrderAPIURL    string `env:"ORDER_API_URL,required=true"`
	CustomerAPIURL string `env:"CUSTOMER_API_URL,required=true"`
	ERPUsername    string `env:"ERP_USERNAME,required=true"`
	ERPPassword    string `env:"ERP_PASSWORD,required=true"`

	SMTPHost     string `env:"SMTP_HOST,required=true"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS,default=true"`
	SMTPUsername string `env:"SMTP_USERNAME,required=true"`
	SMTPPassword string `env:"SMTP_PASSWORD,required=true"`
	FromEmail    string `env:"FROM_EMAIL,required=true"`
	CCEmails     string `env:"CC_EMAILS"`

	SMSTokenURL        string `env:"SMS_TOKEN_URL,required=true"`
	SMSSendURL         string `env:"SMS_SEND_URL,required=true"`
	SMSAPIKey          string `env:"SMS_API_KEY,required=true"`
	SMSClientKey       string `env:"SMS_CLIENT_KEY,required=true"`
	SMSSenderID        string `env:"SMS_SENDER_ID,required=true"`
	SMSCallbackURL     string `env:"SMS_CALLBACK_URL"`
	SMSCountryPrefix   string `env:"SMS_COUNTRY_PREFIX,default=254"`
	SMSRateLimitPerSec int    `env:"SMS_RATE_LIMIT_PER_SEC,default=10"`

	ContactPhone       string `env:"CONTACT_PHONE"`
	RunIntervalSeconds int    `env:"RUN_INTERVAL_SECONDS,default=300"`
	APIPort            int    `env:"API_PORT,default=8080"`
	LogLevel           string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// CCList splits the comma-separated CC_EMAILS value, dropping empty entries.
func (c *Config) CCList() []string {
	if strings.TrimSpace(c.CCEmails) == "" {
		return nil
	}

	parts := strings.Split(c.CCEmails, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
