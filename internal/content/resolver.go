// Package content wraps the external AI content service. Every lookup
// makes exactly one upstream call (memoized lookups aside), never
// retries, and substitutes the family's fixed fallback string on any
// failure, so callers never see an error.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"daymate/internal/metrics"
	"daymate/internal/models"
	"daymate/internal/requestcache"
	"daymate/internal/trigger"
)

// Endpoint paths on the content service
const (
	pathContent = "/api/content"
	pathNews    = "/api/news"
	pathVideos  = "/api/videos"
)

// familyContexts maps trigger families to the content endpoint's
// context enum
var familyContexts = map[string]string{
	trigger.FamilyPreReminder: models.ContextPreReminder,
	trigger.FamilyStart:       models.ContextScheduleStart,
	trigger.FamilyCheckIn:     models.ContextInProgress,
	trigger.FamilyFeedback:    models.ContextScheduleCompleted,
}

// Client talks to the content service. It implements trigger.Resolver.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *requestcache.Cache

	mu        sync.RWMutex
	baseURL   string
	fallbacks map[string]string
}

// NewClient creates a content client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		cache:      requestcache.New(requestcache.DefaultTTL),
		baseURL:    baseURL,
		fallbacks:  defaultFallbacks(),
	}
}

// Reconfigure applies a hot-reloaded assistant config: a new base URL
// and/or fallback-string overrides. Empty values leave the current
// setting untouched.
func (c *Client) Reconfigure(baseURL string, fallbackOverrides map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if baseURL != "" {
		c.baseURL = baseURL
	}
	for family, text := range fallbackOverrides {
		if text != "" {
			c.fallbacks[family] = text
		}
	}
}

func (c *Client) endpoint(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL + path
}

// Fallback returns the deterministic fallback string for a family
func (c *Client) Fallback(family string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if text, ok := c.fallbacks[family]; ok {
		return text
	}
	return c.fallbacks[fallbackGeneric]
}

// post performs one JSON request. Non-2xx and malformed payloads are
// errors; the caller decides the fallback.
func (c *Client) post(ctx context.Context, url string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("content service returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ActivityMessage resolves personalized text for an activity-scoped
// family, falling back to the family's fixed string
func (c *Client) ActivityMessage(ctx context.Context, family, activityName string) string {
	req := models.ContentRequest{
		ActivityName: activityName,
		Context:      familyContexts[family],
	}
	var resp models.ContentResponse
	if err := c.post(ctx, c.endpoint(pathContent), req, &resp); err != nil || resp.Recommendation == "" {
		if err != nil {
			slog.Debug("content call failed, using fallback", "family", family, "error", err)
		}
		metrics.ContentFallbacks.WithLabelValues(family).Inc()
		return c.Fallback(family)
	}
	return resp.Recommendation
}

// NewsMessage resolves the periodic news briefing. The second return is
// false only for a legitimate "no relevant news" response; transport
// failures produce the fallback text instead.
func (c *Client) NewsMessage(ctx context.Context) (string, bool) {
	value, err := c.cache.Do("news", func() (interface{}, error) {
		var resp models.NewsResponse
		if err := c.post(ctx, c.endpoint(pathNews), struct{}{}, &resp); err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		slog.Debug("news call failed, using fallback", "error", err)
		metrics.ContentFallbacks.WithLabelValues(trigger.FamilyNews).Inc()
		return c.Fallback(trigger.FamilyNews), true
	}

	news := value.(models.NewsResponse)
	if !news.HasNews {
		return "", false
	}
	text := fmt.Sprintf("📰 %s\n%s", news.Headline, news.Content)
	if news.Source != "" {
		text += fmt.Sprintf(" (출처: %s)", news.Source)
	}
	return text, true
}

// VideoMessage resolves a video recommendation for the gap-filler and
// idle families, using at most the first recommendation
func (c *Client) VideoMessage(ctx context.Context, idle bool) string {
	family := trigger.FamilyGapFiller
	if idle {
		family = trigger.FamilyIdle
	}

	value, err := c.cache.Do("videos", func() (interface{}, error) {
		var resp models.VideoResponse
		if err := c.post(ctx, c.endpoint(pathVideos), struct{}{}, &resp); err != nil {
			return nil, err
		}
		if len(resp.Recommendations) == 0 {
			return nil, fmt.Errorf("empty recommendation list")
		}
		return resp.Recommendations[0], nil
	})
	if err != nil {
		slog.Debug("video call failed, using fallback", "family", family, "error", err)
		metrics.ContentFallbacks.WithLabelValues(family).Inc()
		return c.Fallback(family)
	}

	rec := value.(models.VideoRecommendation)
	if idle {
		return fmt.Sprintf("지금은 자유 시간이에요! '%s' (%s, %s) 영상 한 편 어떠세요? 🎬", rec.Title, rec.Channel, rec.Duration)
	}
	return fmt.Sprintf("다음 일정까지 여유가 있네요. '%s' (%s, %s) 영상으로 잠깐 쉬어가요 🎬", rec.Title, rec.Channel, rec.Duration)
}
