package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/config"
)

const posterCachePrefix = "poster:"

// PosterService looks up poster images on TMDB. Every failure path (cache,
// limiter, breaker, network, decoding) ends in "no poster" rather than an
// error, so a lookup can never break a recommendation response.
type PosterService struct {
	enabled   bool
	baseURL   string
	apiKey    string
	imageBase string
	timeout   time.Duration
	cacheTTL  time.Duration

	httpClient *http.Client
	cache      *redis.Client
	breaker    *gobreaker.CircuitBreaker[string]
	limiter    *rate.Limiter
	metrics    *Metrics
	logger     *logrus.Logger
}

type tmdbSearchResponse struct {
	Results []struct {
		PosterPath *string `json:"poster_path"`
	} `json:"results"`
}

// NewPosterService builds the TMDB client. A nil cache disables caching; an
// empty API key disables lookups entirely.
func NewPosterService(
	cfg *config.PosterConfig,
	cache *redis.Client,
	metrics *Metrics,
	logger *logrus.Logger,
) *PosterService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	threshold := cfg.Breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	p := &PosterService{
		enabled:    cfg.Enabled && cfg.APIKey != "",
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		imageBase:  strings.TrimRight(cfg.ImageBase, "/"),
		timeout:    timeout,
		cacheTTL:   cfg.CacheTTL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    metrics,
		logger:     logger,
	}

	p.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "tmdb",
		Timeout: cfg.Breaker.OpenTimeout,
		// A caller walking away is not a TMDB failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Poster lookup circuit breaker changed state")
		},
	})

	if cfg.Enabled && cfg.APIKey == "" {
		logger.Warn("Poster lookups disabled: posters.api_key is not set")
	}

	return p
}

// PosterURL returns the poster image URL for title, or nil.
func (p *PosterService) PosterURL(ctx context.Context, title string) *string {
	if p == nil || !p.enabled || strings.TrimSpace(title) == "" {
		return nil
	}

	key := posterCacheKey(title)
	if cached, ok := p.cached(ctx, key); ok {
		p.metrics.PosterLookup(PosterCached)
		if cached == "" {
			return nil
		}
		return &cached
	}

	if !p.limiter.Allow() {
		p.metrics.PosterLookup(PosterThrottled)
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	path, err := p.breaker.Execute(func() (string, error) {
		return p.search(lookupCtx, title)
	})
	if err != nil {
		outcome := PosterError
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = PosterBreakerOpen
		}
		p.metrics.PosterLookup(outcome)
		p.logger.WithError(err).WithField("title", title).Debug("Poster lookup failed")
		return nil
	}

	poster := ""
	if path != "" {
		poster = p.imageBase + path
	}
	p.store(ctx, key, poster)

	if poster == "" {
		p.metrics.PosterLookup(PosterMissing)
		return nil
	}
	p.metrics.PosterLookup(PosterFound)
	return &poster
}

func posterCacheKey(title string) string {
	return posterCachePrefix + strings.ToLower(catalog.NormalizeTitle(title))
}

// search returns the first result's poster path, or "" when TMDB has none.
func (p *PosterService) search(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("api_key", p.apiKey)
	params.Set("query", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search/movie?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build poster request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("poster request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("poster search returned status %d", resp.StatusCode)
	}

	var body tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode poster search: %w", err)
	}

	if len(body.Results) == 0 || body.Results[0].PosterPath == nil {
		return "", nil
	}
	return *body.Results[0].PosterPath, nil
}

func (p *PosterService) cached(ctx context.Context, key string) (string, bool) {
	if p.cache == nil {
		return "", false
	}
	v, err := p.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.WithError(err).Warn("Failed to read poster cache")
		}
		return "", false
	}
	return v, true
}

func (p *PosterService) store(ctx context.Context, key, poster string) {
	if p.cache == nil || p.cacheTTL <= 0 {
		return
	}
	if err := p.cache.Set(ctx, key, poster, p.cacheTTL).Err(); err != nil {
		p.logger.WithError(err).Warn("Failed to cache poster")
	}
}
