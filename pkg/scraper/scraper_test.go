package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `
<html>
	<head>
		<title>Test Page</title>
		<style>body { color: red; }</style>
		<script>var tracking = "do not index";</script>
	</head>
	<body>
		<main>
			<h1>Test Content</h1>
			<p>This is a   test paragraph.</p>
		</main>
		<noscript>Enable JavaScript</noscript>
	</body>
</html>
`

func newTestScraper() *Scraper {
	return NewWithConfig(ScraperConfig{RateLimit: 100, Timeout: time.Second})
}

func TestScraperConfig(t *testing.T) {
	s := New()
	assert.Equal(t, 30*time.Second, s.config.Timeout)
	assert.Equal(t, 2.0, s.config.RateLimit)

	s = NewWithConfig(ScraperConfig{Timeout: 10 * time.Second, RateLimit: 1.0, UserAgent: "test"})
	assert.Equal(t, 10*time.Second, s.client.Timeout)
	assert.Equal(t, "test", s.config.UserAgent)
}

func TestFetchWithMockServer(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	s := NewWithConfig(ScraperConfig{RateLimit: 100, UserAgent: "cdpask-test"})
	result := s.Fetch(context.Background(), server.URL)

	require.NoError(t, result.Err)
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "cdpask-test", userAgent)
	assert.Contains(t, result.Content, "Test Page")
	assert.Contains(t, result.Content, "Test Content")
	assert.Contains(t, result.Content, "This is a test paragraph.")
	assert.NotContains(t, result.Content, "tracking")
	assert.NotContains(t, result.Content, "color: red")
	assert.NotContains(t, result.Content, "Enable JavaScript")
	assert.Equal(t, result.Content, result.Text())
}

func TestFetchNonSuccessStatus(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				w.Write([]byte("<html><body>error page with text</body></html>"))
			}))
			defer server.Close()

			s := newTestScraper()
			result := s.Fetch(context.Background(), server.URL)

			assert.Equal(t, StatusBadStatus, result.Status)
			assert.Equal(t, code, result.StatusCode)
			assert.Error(t, result.Err)
			assert.Equal(t, "", result.Text())
			assert.Equal(t, "", s.Scrape(context.Background(), server.URL))
		})
	}
}

func TestFetchEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><script>x()</script></head><body>   </body></html>"))
	}))
	defer server.Close()

	result := newTestScraper().Fetch(context.Background(), server.URL)

	assert.Equal(t, StatusEmpty, result.Status)
	assert.NoError(t, result.Err)
	assert.Equal(t, "", result.Text())
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result := newTestScraper().Fetch(context.Background(), url)

	assert.Equal(t, StatusNetworkError, result.Status)
	assert.Error(t, result.Err)
	assert.Equal(t, "", result.Text())
}

func TestFetchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := newTestScraper().Fetch(ctx, "http://example.invalid/")

	assert.Equal(t, StatusNetworkError, result.Status)
	assert.Error(t, result.Err)
}

func TestCleanContent(t *testing.T) {
	assert.Equal(t, "a b c", cleanContent("  a\n\tb   c \n"))
	assert.Equal(t, "", cleanContent(" \n "))
}
