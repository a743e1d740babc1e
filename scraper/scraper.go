package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/pevans/judgearchive/problem"
)

// DefaultTimeout bounds a single problem page fetch.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies judgearchive to online judges.
const DefaultUserAgent = "judgearchive/1.0 (solution archive maintenance)"

// ErrTimeout marks a FetchError caused by the request running out of time.
var ErrTimeout = errors.New("request timed out")

// ProblemScraper retrieves the display name of a problem, e.g.
// "100 - The 3n + 1 problem", from its page on an online judge.
type ProblemScraper interface {
	ProblemName(ctx context.Context, url string) (string, error)
}

// FetchError describes a failure to retrieve a problem page: a transport
// error, a timeout, or a non-200 response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch failed because it ran out of time.
func (e *FetchError) Timeout() bool {
	return errors.Is(e.Err, ErrTimeout)
}

// Options configures page fetching.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// Fetcher downloads and parses HTML pages. It makes exactly one attempt per
// call.
type Fetcher struct {
	client *resty.Client
	logger *slog.Logger
}

// NewFetcher creates a fetcher. Zero-valued options fall back to
// DefaultTimeout and DefaultUserAgent.
func NewFetcher(opts Options) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// FetchHTML fetches the page at url and parses it.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (*goquery.Document, error) {
	f.logger.DebugContext(ctx, "fetching page", "url", url)

	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		if isTimeout(err) {
			return nil, &FetchError{URL: url, Err: fmt.Errorf("%w: %v", ErrTimeout, err)}
		}
		return nil, &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}

	f.logger.DebugContext(ctx, "fetched page", "url", url, "status", resp.StatusCode(), "bytes", len(resp.Body()))
	return doc, nil
}

// ExtractName returns the whitespace-normalised text of the first element
// matching one of the page's selectors.
func ExtractName(doc *goquery.Document, page PageConfig) (string, error) {
	for _, selector := range page.Selectors() {
		text := doc.Find(selector).First().Text()
		text = strings.Join(strings.Fields(text), " ")
		if text != "" {
			return text, nil
		}
	}
	return "", &problem.ParseError{
		Reason: fmt.Sprintf("problem name element not found (selectors %q)", page.Selectors()),
	}
}

// PageScraper is a ProblemScraper for judges whose problem name sits in a
// single element of the problem page.
type PageScraper struct {
	fetcher *Fetcher
	page    PageConfig
}

var _ ProblemScraper = (*PageScraper)(nil)

// NewPageScraper creates a scraper for the given page layout.
func NewPageScraper(page PageConfig, opts Options) *PageScraper {
	return &PageScraper{
		fetcher: NewFetcher(opts),
		page:    page,
	}
}

// NewUVaScraper creates a scraper for UVa Online Judge problem pages.
func NewUVaScraper(opts Options) *PageScraper {
	return NewPageScraper(UVaPageConfig(), opts)
}

// Judge returns the identifier of the judge this scraper understands.
func (s *PageScraper) Judge() string {
	return s.page.Judge
}

// ProblemName fetches url and extracts the problem name.
func (s *PageScraper) ProblemName(ctx context.Context, url string) (string, error) {
	doc, err := s.fetcher.FetchHTML(ctx, url)
	if err != nil {
		return "", err
	}
	return ExtractName(doc, s.page)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
