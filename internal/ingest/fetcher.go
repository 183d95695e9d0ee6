package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stephen-devops/specsift/internal/model"
	"github.com/stephen-devops/specsift/internal/util"
)

// Fetcher retrieves remote source documents over HTTP
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(userAgent, timeout),
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch retrieves a remote document, honoring robots.txt
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.SourceDocument, error) {
	allowed, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,text/markdown,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	limitedReader := io.LimitReader(resp.Body, f.maxBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	kind, content := classifyBody(rawURL, resp.Header.Get("Content-Type"), string(body))

	return &model.SourceDocument{
		Origin:  resp.Request.URL.String(),
		Kind:    kind,
		Content: content,
	}, nil
}

// classifyBody picks the document kind from the content type, falling
// back to the URL extension, and strips markup from HTML bodies
func classifyBody(rawURL, contentType, body string) (model.SourceKind, string) {
	switch {
	case strings.Contains(contentType, "text/html"):
		return model.KindHTML, VisibleText(body)
	case strings.Contains(contentType, "text/markdown"):
		return model.KindMarkdown, body
	case strings.Contains(contentType, "text/plain"):
		return model.KindText, body
	}

	kind := DetectKind(rawURL)
	if kind == model.KindHTML {
		return kind, VisibleText(body)
	}
	return kind, body
}
