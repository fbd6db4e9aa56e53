package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultSMSTimeout      = 10 * time.Second
	defaultTokenLifetime   = 3599
	scheduleTimeLayout     = "2006-01-02T15:04:05"
	defaultCountryPrefix   = "254"
	smsSendOptionImmediate = "NOW"
)

// SMSConfig carries the provider endpoints and credentials for the bearer
// token flow.
type SMSConfig struct {
	TokenURL      string
	SendURL       string
	APIKey        string
	ClientKey     string
	SenderID      string
	CallbackURL   string
	CountryPrefix string
}

// SMSSender sends one-shot SMS notifications through the provider's
// token-then-send protocol. The token cache is shared across all sends.
type SMSSender struct {
	client *resty.Client
	cfg    SMSConfig
	cache  *TokenCache
	logger *zap.Logger
	now    func() time.Time
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

type smsPayload struct {
	SenderID     string `json:"senderId"`
	Message      string `json:"message"`
	PhoneNumber  string `json:"phoneNumber"`
	MessageID    string `json:"messageId"`
	SendOption   string `json:"sendOption"`
	Description  string `json:"description"`
	CallbackURL  string `json:"callBackUrl,omitempty"`
	ScheduleTime string `json:"scheduleTime"`
}

func NewSMSSender(cfg SMSConfig, cache *TokenCache, logger *zap.Logger) (*SMSSender, error) {
	client := resty.New()
	client.SetTimeout(defaultSMSTimeout)
	client.SetRetryCount(0)

	return NewSMSSenderWithClient(cfg, cache, client, logger)
}

func NewSMSSenderWithClient(cfg SMSConfig, cache *TokenCache, client *resty.Client, logger *zap.Logger) (*SMSSender, error) {
	if strings.TrimSpace(cfg.TokenURL) == "" {
		return nil, fmt.Errorf("sms token url is required")
	}
	if strings.TrimSpace(cfg.SendURL) == "" {
		return nil, fmt.Errorf("sms send url is required")
	}
	if strings.TrimSpace(cfg.SenderID) == "" {
		return nil, fmt.Errorf("sms sender id is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}
	if cache == nil {
		cache = NewTokenCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.CountryPrefix) == "" {
		cfg.CountryPrefix = defaultCountryPrefix
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultSMSTimeout)
	}
	client.SetRetryCount(0)

	return &SMSSender{
		client: client,
		cfg:    cfg,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Send delivers one SMS. Success is strictly HTTP 200 from the provider; any
// other status, other 2xx included, is a failure carrying the response body.
func (s *SMSSender) Send(ctx context.Context, phone, message string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("sms sender is not initialized")
	}
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("destination phone number is required")
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("cannot send sms: %w", err)
	}

	payload := smsPayload{
		SenderID:     s.cfg.SenderID,
		Message:      message,
		PhoneNumber:  NormalizePhone(phone, s.cfg.CountryPrefix),
		MessageID:    uuid.NewString(),
		SendOption:   smsSendOptionImmediate,
		Description:  "Dispatch Notification",
		CallbackURL:  s.cfg.CallbackURL,
		ScheduleTime: s.now().Format(scheduleTimeLayout),
	}

	response, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(token).
		SetBody(payload).
		Post(s.cfg.SendURL)
	if err != nil {
		return fmt.Errorf("sms send request failed: %w", err)
	}

	if response.StatusCode() != http.StatusOK {
		return fmt.Errorf("sms provider returned status %d: %s",
			response.StatusCode(), strings.TrimSpace(response.String()))
	}

	s.logger.Debug("sms sent",
		zap.String("phoneNumber", payload.PhoneNumber),
		zap.String("messageId", payload.MessageID),
	)
	return nil
}

// accessToken returns the cached bearer token, refreshing it through the
// basic-auth token endpoint when missing or expired.
func (s *SMSSender) accessToken(ctx context.Context) (string, error) {
	if token, ok := s.cache.Get(); ok {
		return token, nil
	}

	response, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBasicAuth(s.cfg.APIKey, s.cfg.ClientKey).
		Get(s.cfg.TokenURL)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	if !response.IsSuccess() {
		return "", fmt.Errorf("token endpoint returned status %d: %s",
			response.StatusCode(), strings.TrimSpace(response.String()))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(response.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if strings.TrimSpace(parsed.AccessToken) == "" {
		return "", fmt.Errorf("token response carries no access token")
	}
	if parsed.ExpiresIn <= 0 {
		parsed.ExpiresIn = defaultTokenLifetime
	}

	s.cache.Set(parsed.AccessToken, parsed.ExpiresIn)
	s.logger.Info("sms access token refreshed", zap.Int("expiresIn", parsed.ExpiresIn))

	return parsed.AccessToken, nil
}

// NormalizePhone converts a local number to the provider's international
// format: numbers already starting with "+" pass through, otherwise the
// country prefix replaces a single leading "0".
func NormalizePhone(phone, countryPrefix string) string {
	trimmed := strings.TrimSpace(phone)
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	if countryPrefix == "" {
		countryPrefix = defaultCountryPrefix
	}
	return countryPrefix + strings.TrimPrefix(trimmed, "0")
}
