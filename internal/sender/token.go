package sender

import (
	"sync"
	"time"
)

// tokenExpiryMargin is subtracted from the provider-reported lifetime so a
// token is never used in the final seconds before it expires.
const tokenExpiryMargin = 60 * time.Second

// TokenCache holds the SMS provider bearer token shared across all sends in
// the process. It is owned by the sender instance rather than package-global
// state so tests can inject a fake clock.
type TokenCache struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
	now    func() time.Time
}

func NewTokenCache() *TokenCache {
	return newTokenCache(time.Now)
}

func newTokenCache(nowFn func() time.Time) *TokenCache {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &TokenCache{now: nowFn}
}

// Get returns the cached token while it is still inside its validity window.
func (c *TokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == "" || !c.now().Before(c.expiry) {
		return "", false
	}
	return c.token, true
}

// Set caches a token with its provider-reported lifetime in seconds; the
// recorded expiry already includes the safety margin.
func (c *TokenCache) Set(token string, expiresInSeconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	c.expiry = c.now().Add(time.Duration(expiresInSeconds)*time.Second - tokenExpiryMargin)
}
