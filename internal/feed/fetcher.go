package feed

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxFeedBytes = 5 << 20

// Fetcher retrieves raw feed payloads.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	pacer     *hostPacer
}

// FetcherOptions configures a Fetcher. Zero values fall back to defaults.
type FetcherOptions struct {
	UserAgent string
	// Timeout bounds a single feed fetch including the body read.
	Timeout time.Duration
	// HostInterval spaces requests to the same host; zero disables pacing.
	HostInterval time.Duration
	Client       *http.Client
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts FetcherOptions) *Fetcher {
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "ai-cofounder-bot"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Client == nil {
		opts.Client = newHTTPClient()
	}
	f := &Fetcher{
		client:    opts.Client,
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
	}
	if opts.HostInterval > 0 {
		f.pacer = newHostPacer(opts.HostInterval)
	}
	return f
}

// Fetch returns the body of src as text. Network failures, timeouts and
// non-2xx statuses are errors.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if f.pacer != nil {
		if err := f.pacer.wait(ctx, src.URL); err != nil {
			return "", fmt.Errorf("feed: %s: %w", src.Name, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("feed: %s status %d", src.Name, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", fmt.Errorf("feed: %s read body: %w", src.Name, err)
	}
	return string(b), nil
}

func newHTTPClient() *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: tr}
}

// hostPacer keeps one token-bucket limiter per host.
type hostPacer struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*rate.Limiter
}

func newHostPacer(interval time.Duration) *hostPacer {
	return &hostPacer{interval: interval, limiters: make(map[string]*rate.Limiter)}
}

func (p *hostPacer) wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in url %q", rawURL)
	}
	p.mu.Lock()
	l, ok := p.limiters[u.Host]
	if !ok {
		l = rate.NewLimiter(rate.Every(p.interval), 1)
		p.limiters[u.Host] = l
	}
	p.mu.Unlock()
	return l.Wait(ctx)
}
