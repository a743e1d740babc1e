package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pevans/judgearchive/archive"
	"github.com/pevans/judgearchive/problem"
	"github.com/pevans/judgearchive/scraper"
)

// Judge identifiers accepted by ForURL.
const (
	JudgeAuto = "auto"
	JudgeUVa  = "uva"
	JudgeNone = "none"
)

// ErrUnsupportedJudge is returned when no creator exists for a judge or URL.
var ErrUnsupportedJudge = errors.New("unsupported online judge")

// Creator builds the on-disk workspace for one problem. CreateWorkspace runs
// CreateDirectory, WriteTestcases and WriteInfoJSON in that order and stops
// at the first error; earlier steps are not rolled back.
type Creator interface {
	CreateWorkspace(ctx context.Context) (*Result, error)
	CreateDirectory(ctx context.Context) error
	WriteTestcases(ctx context.Context) error
	WriteInfoJSON(ctx context.Context) error
}

// Result describes a created workspace.
type Result struct {
	Judge    string
	Dir      string // path of the workspace directory
	DirName  string
	Created  bool // false if the directory already existed
	Metadata problem.Metadata
}

// Deps holds what creators need beyond the problem URL.
type Deps struct {
	Archive *archive.Archive
	// Scraper overrides the judge's default scraper when set.
	Scraper        scraper.ProblemScraper
	ScraperOptions scraper.Options
	Logger         *slog.Logger
}

// ForURL returns the creator for judge and problemURL. JudgeAuto picks the
// judge from the URL's host.
func ForURL(judge, problemURL string, deps Deps) (Creator, error) {
	if judge == "" || judge == JudgeAuto {
		detected, err := DetectJudge(problemURL)
		if err != nil {
			return nil, err
		}
		judge = detected
	}

	switch judge {
	case JudgeUVa:
		if deps.Archive == nil {
			return nil, fmt.Errorf("uva workspace creator needs an archive")
		}
		s := deps.Scraper
		if s == nil {
			s = scraper.NewUVaScraper(deps.ScraperOptions)
		}
		return NewUVaCreator(problemURL, s, deps.Archive, deps.Logger), nil
	case JudgeNone:
		return NoopCreator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedJudge, judge)
	}
}

// DetectJudge maps a problem URL to a judge identifier by its host.
func DetectJudge(problemURL string) (string, error) {
	u, err := url.Parse(problemURL)
	if err != nil {
		return "", fmt.Errorf("invalid problem URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid problem URL %q: must use http or https scheme", problemURL)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "onlinejudge.org", strings.HasSuffix(host, ".onlinejudge.org"):
		return JudgeUVa, nil
	default:
		return "", fmt.Errorf("%w: no judge known for host %q", ErrUnsupportedJudge, host)
	}
}

// NoopCreator skips every step. It is used for dry runs and for problems
// that are filed by hand.
type NoopCreator struct{}

var _ Creator = NoopCreator{}

// CreateWorkspace does nothing and returns a nil result.
func (NoopCreator) CreateWorkspace(ctx context.Context) (*Result, error) {
	return nil, nil
}

func (NoopCreator) CreateDirectory(ctx context.Context) error { return nil }

func (NoopCreator) WriteTestcases(ctx context.Context) error { return nil }

func (NoopCreator) WriteInfoJSON(ctx context.Context) error { return nil }

// runSteps executes the three creation steps in order.
func runSteps(ctx context.Context, c Creator) error {
	if err := c.CreateDirectory(ctx); err != nil {
		return err
	}
	if err := c.WriteTestcases(ctx); err != nil {
		return err
	}
	return c.WriteInfoJSON(ctx)
}
