// Package collyfetcher implements the page fetcher using gocolly, with a
// bounded retry budget and an optional rotating forward proxy.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/legislation-crawler/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Config controls collector and retry behavior.
type Config struct {
	UserAgent     string
	Timeout       time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	ProxyEnabled  bool
	ProxyRotation bool
	ProxyTimeout  time.Duration
	Proxies       []string
}

// Fetcher retrieves pages one at a time. It is not safe for concurrent use:
// the proxy cursor advances in place between attempts.
type Fetcher struct {
	cfg           Config
	pool          ProxyPool
	transports    map[string]*http.Transport
	baseCollector *colly.Collector
	pause         pauseController
	logger        *zap.Logger
}

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher. It fails only on malformed proxy URLs.
func New(cfg Config, logger *zap.Logger) (*Fetcher, error) {
	pool, err := NewProxyPool(cfg.Proxies)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RetryAttempts < 0 {
		cfg.RetryAttempts = 0
	}
	return &Fetcher{
		cfg:           cfg,
		pool:          pool,
		transports:    make(map[string]*http.Transport),
		baseCollector: colly.NewCollector(colly.Async(false)),
		pause:         timerPauseController{},
		logger:        logger.Named("fetcher"),
	}, nil
}

// Fetch GETs rawURL with params merged into its query string. Failed
// attempts rotate the proxy and wait the configured backoff before the next
// one. Exhausting the budget yields a *FetchError; cancellation returns the
// context error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	target, err := buildURL(rawURL, params)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	maxAttempts := f.cfg.RetryAttempts + 1
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		body, err := f.fetchOnce(ctx, target)
		if err == nil {
			metrics.ObserveFetch(target, "success", time.Since(start))
			return body, nil
		}
		metrics.ObserveFetch(target, "error", time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", target, ctxErr)
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}

		f.logger.Warn("request failed, retrying",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err),
		)
		metrics.ObserveFetchRetry(target)
		f.rotateProxy()
		f.pause.Pause(ctx, f.cfg.RetryBackoff)
	}

	f.logger.Warn("request failed after retries",
		zap.String("url", target),
		zap.Int("attempts", maxAttempts),
		zap.Error(lastErr),
	)
	return nil, &FetchError{URL: target, Attempts: maxAttempts, Err: lastErr}
}

// CurrentProxy returns the proxy the next request will use, or nil.
func (f *Fetcher) CurrentProxy() *url.URL {
	if !f.cfg.ProxyEnabled {
		return nil
	}
	return f.pool.Current()
}

func (f *Fetcher) rotateProxy() {
	if !f.cfg.ProxyEnabled || !f.cfg.ProxyRotation || f.pool.Len() == 0 {
		return
	}
	f.pool = f.pool.Next()
	metrics.ObserveProxyRotation()
	f.logger.Debug("rotated proxy", zap.Stringer("proxy", f.pool.Current()))
}

// effectiveTimeout is the shorter of the request and proxy timeouts while
// proxying.
func (f *Fetcher) effectiveTimeout() time.Duration {
	timeout := f.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if f.cfg.ProxyEnabled && f.cfg.ProxyTimeout > 0 && f.cfg.ProxyTimeout < timeout {
		timeout = f.cfg.ProxyTimeout
	}
	return timeout
}

func (f *Fetcher) fetchOnce(ctx context.Context, target string) ([]byte, error) {
	var (
		body     []byte
		fetchErr error
	)
	collector := f.buildCollector(ctx, &body, &fetchErr)
	if err := f.runCollector(ctx, collector, target, &fetchErr); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) buildCollector(ctx context.Context, body *[]byte, fetchErr *error) *colly.Collector {
	collector := f.baseCollector.Clone()
	collector.Context = ctx
	collector.AllowURLRevisit = true
	collector.IgnoreRobotsTxt = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.WithTransport(f.transportFor(f.CurrentProxy()))
	collector.SetRequestTimeout(f.effectiveTimeout())

	f.configureCollectorHooks(collector, body, fetchErr)
	return collector
}

func (f *Fetcher) configureCollectorHooks(hooks collectorHooks, body *[]byte, fetchErr *error) {
	hooks.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "fr-FR,fr;q=0.9,en-US;q=0.5,en;q=0.3")
		r.Headers.Set("Upgrade-Insecure-Requests", "1")
	})

	hooks.OnResponse(func(r *colly.Response) {
		*body = append([]byte(nil), r.Body...)
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode >= http.StatusBadRequest {
			*fetchErr = &StatusError{StatusCode: r.StatusCode}
			return
		}
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, target string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(target)
	}()

	select {
	case <-ctx.Done():
		// Hooks write into the caller's frame until Visit returns.
		<-done
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		return nil
	}
}

// transportFor returns a pooled transport dialing through proxy, or
// directly when proxy is nil.
func (f *Fetcher) transportFor(proxy *url.URL) *http.Transport {
	key := ""
	if proxy != nil {
		key = proxy.String()
	}
	if t, ok := f.transports[key]; ok {
		return t
	}
	t := newHTTPTransport(proxy)
	f.transports[key] = t
	return t
}

func newHTTPTransport(proxy *url.URL) *http.Transport {
	proxyFunc := http.ProxyFromEnvironment
	if proxy != nil {
		proxyFunc = http.ProxyURL(proxy)
	}
	return &http.Transport{
		Proxy: proxyFunc,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

func buildURL(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for key, values := range params {
		q[key] = append([]string(nil), values...)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
