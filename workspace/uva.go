package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pevans/judgearchive/archive"
	"github.com/pevans/judgearchive/problem"
	"github.com/pevans/judgearchive/scraper"
)

// uvaExternalURLFormat is where UVa hosts problem statements: bucketed by
// number/100, the file named after the number as the judge shows it.
const uvaExternalURLFormat = "https://onlinejudge.org/external/%d/%s.pdf"

// UVaExternalURL returns the PDF statement URL of a scraped UVa problem.
func UVaExternalURL(name *problem.ScrapedName) string {
	return fmt.Sprintf(uvaExternalURLFormat, name.Number/100, name.Token)
}

// UVaCreator creates workspaces for UVa Online Judge problems. The problem
// page is scraped at most once per creator.
type UVaCreator struct {
	url     string
	scraper scraper.ProblemScraper
	archive *archive.Archive
	logger  *slog.Logger

	name    *problem.ScrapedName
	created bool
}

var _ Creator = (*UVaCreator)(nil)

// NewUVaCreator creates a UVa workspace creator for problemURL.
func NewUVaCreator(
	problemURL string,
	s scraper.ProblemScraper,
	a *archive.Archive,
	logger *slog.Logger,
) *UVaCreator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &UVaCreator{
		url:     problemURL,
		scraper: s,
		archive: a,
		logger:  logger,
	}
}

// CreateWorkspace creates the directory and writes info.json.
func (c *UVaCreator) CreateWorkspace(ctx context.Context) (*Result, error) {
	if err := runSteps(ctx, c); err != nil {
		return nil, err
	}

	meta, err := c.metadata(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{
		Judge:    JudgeUVa,
		Dir:      c.archive.WorkspacePath(c.name.DirName()),
		DirName:  c.name.DirName(),
		Created:  c.created,
		Metadata: meta,
	}, nil
}

// CreateDirectory creates "<padded id> - <title>" under the solutions
// root. An existing directory is not an error.
func (c *UVaCreator) CreateDirectory(ctx context.Context) error {
	name, err := c.problemName(ctx)
	if err != nil {
		return err
	}

	created, err := c.archive.CreateWorkspace(name.DirName())
	if err != nil {
		return err
	}
	c.created = created

	if created {
		c.logger.InfoContext(ctx, "created workspace", "dir", name.DirName())
	} else {
		c.logger.InfoContext(ctx, "workspace already exists", "dir", name.DirName())
	}
	return nil
}

// WriteTestcases is a no-op: UVa statements are PDFs and carry no sample
// data that can be scraped.
func (c *UVaCreator) WriteTestcases(ctx context.Context) error {
	return nil
}

// WriteInfoJSON writes the problem's metadata, replacing any existing
// info.json.
func (c *UVaCreator) WriteInfoJSON(ctx context.Context) error {
	meta, err := c.metadata(ctx)
	if err != nil {
		return err
	}

	if err := c.archive.WriteInfo(c.name.DirName(), meta); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "wrote metadata", "id", meta.ID, "name", meta.Name)
	return nil
}

func (c *UVaCreator) metadata(ctx context.Context) (problem.Metadata, error) {
	name, err := c.problemName(ctx)
	if err != nil {
		return problem.Metadata{}, err
	}

	return problem.Metadata{
		Name:           name.Title,
		ID:             name.ID(),
		OnlineJudgeURL: c.url,
		ExternalURL:    UVaExternalURL(name),
	}, nil
}

func (c *UVaCreator) problemName(ctx context.Context) (*problem.ScrapedName, error) {
	if c.name != nil {
		return c.name, nil
	}

	raw, err := c.scraper.ProblemName(ctx, c.url)
	if err != nil {
		return nil, err
	}

	name, err := problem.ParseName(raw)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "scraped problem name", "url", c.url, "name", name.Raw)
	c.name = name
	return name, nil
}
