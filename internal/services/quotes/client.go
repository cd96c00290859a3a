// internal/services/quotes/client.go
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"insurance-intake/internal/common/httpclient"
	"insurance-intake/internal/common/logger"
)

const cacheKey = "quotes:random"

// Client fetches motivational quotes from ZenQuotes, caching the most
// recent one in Redis so frustrated users don't hammer the API.
type Client struct {
	baseURL    string
	cacheTTL   time.Duration
	httpClient *httpclient.Client
	redis      *redis.Client
	logger     logger.Logger
}

func NewClient(baseURL string, timeout, cacheTTL time.Duration, rdb *redis.Client, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cacheTTL:   cacheTTL,
		httpClient: httpclient.NewClient(timeout),
		redis:      rdb,
		logger:     log.WithFields(map[string]interface{}{"service": "quotes"}),
	}
}

type zenQuote struct {
	Quote  string `json:"q"`
	Author string `json:"a"`
}

// Quote returns a formatted quote, from cache when available.
func (c *Client) Quote(ctx context.Context) (string, error) {
	if c.redis != nil {
		if cached, err := c.redis.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/random", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("quote service returned status %d", resp.StatusCode)
	}

	var payload []zenQuote
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload) == 0 || strings.TrimSpace(payload[0].Quote) == "" {
		return "", fmt.Errorf("quote service returned no quotes")
	}

	quote := fmt.Sprintf("\"%s\" - %s", strings.TrimSpace(payload[0].Quote), strings.TrimSpace(payload[0].Author))

	if c.redis != nil {
		if err := c.redis.Set(ctx, cacheKey, quote, c.cacheTTL).Err(); err != nil {
			c.logger.Warn("failed to cache quote", map[string]interface{}{"error": err.Error()})
		}
	}

	return quote, nil
}
