package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// Status is the outcome of a single fetch.
type Status string

const (
	StatusOK           Status = "ok"
	StatusEmpty        Status = "empty"
	StatusBadStatus    Status = "bad_status"
	StatusNetworkError Status = "network_error"
)

// Result is what a fetch produced. Content is only meaningful for StatusOK.
type Result struct {
	URL        string
	Status     Status
	StatusCode int
	Content    string
	Err        error
}

// Text returns the extracted text, or "" for every status other than ok.
func (r Result) Text() string {
	if r.Status != StatusOK {
		return ""
	}
	return r.Content
}

type ScraperConfig struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second
	UserAgent string
}

type Scraper struct {
	config  ScraperConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ScraperConfig) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // 2 requests per second by default
	}

	return &Scraper{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

func New() *Scraper {
	return NewWithConfig(ScraperConfig{})
}

// Scrape returns the visible text of the page at url, or "" if the page
// could not be retrieved.
func (s *Scraper) Scrape(ctx context.Context, url string) string {
	return s.Fetch(ctx, url).Text()
}

// Fetch retrieves url and extracts its visible text. It never retries.
func (s *Scraper) Fetch(ctx context.Context, url string) Result {
	result := Result{URL: url}

	if err := s.limiter.Wait(ctx); err != nil {
		result.Status = StatusNetworkError
		result.Err = err
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Status = StatusNetworkError
		result.Err = err
		return result
	}
	if s.config.UserAgent != "" {
		req.Header.Set("User-Agent", s.config.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		result.Status = StatusNetworkError
		result.Err = err
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Status = StatusBadStatus
		result.Err = fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, url)
		return result
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		result.Status = StatusNetworkError
		result.Err = err
		return result
	}

	result.Content = extractText(doc)
	if result.Content == "" {
		result.Status = StatusEmpty
		return result
	}

	result.Status = StatusOK
	return result
}

func extractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()
	return cleanContent(doc.Text())
}

func cleanContent(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
