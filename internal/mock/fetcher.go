package mock

import (
	"context"

	"github.com/xhad/cdpask/pkg/scraper"
)

// Fetcher is a mock implementation of ingest.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) scraper.Result
}

func (f *Fetcher) Fetch(ctx context.Context, url string) scraper.Result {
	return f.FetchFn(ctx, url)
}

// Pages returns a Fetcher serving content by URL. Unknown URLs come back as
// a 404.
func Pages(pages map[string]string) *Fetcher {
	return &Fetcher{
		FetchFn: func(_ context.Context, url string) scraper.Result {
			content, ok := pages[url]
			if !ok {
				return scraper.Result{URL: url, Status: scraper.StatusBadStatus, StatusCode: 404}
			}
			return scraper.Result{URL: url, Status: scraper.StatusOK, Content: content}
		},
	}
}
