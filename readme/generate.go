package readme

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pevans/judgearchive/archive"
	"github.com/pevans/judgearchive/problem"
)

// Lister lists the records that make up the README.
type Lister interface {
	List() (*archive.ListResult, error)
}

// Report summarises one README regeneration.
type Report struct {
	Path    string
	Entries int
	Skipped []archive.ReadError
}

// Render returns the README table for records: the header followed by one
// row per record, sorted by ID.
func Render(content *ContentProvider, records []problem.Metadata) string {
	sorted := make([]problem.Metadata, len(records))
	copy(sorted, records)
	problem.SortByID(sorted)

	var b strings.Builder
	b.WriteString(content.Header())
	for _, meta := range sorted {
		b.WriteString(content.Entry(meta))
	}
	return b.String()
}

// Generate rebuilds the README at readmePath from every record the lister
// returns. The previous content is replaced. Records that could not be read
// are logged and left out.
func Generate(lister Lister, content *ContentProvider, readmePath string, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	result, err := lister.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}

	for _, readErr := range result.Errors {
		logger.Warn("skipping unreadable metadata", "path", readErr.Path, "error", readErr.Err)
	}

	data := Render(content, result.Records)
	if err := os.WriteFile(readmePath, []byte(data), 0o644); err != nil {
		return nil, &archive.FilesystemError{Op: "write", Path: readmePath, Err: err}
	}

	logger.Info("regenerated readme", "path", readmePath, "entries", len(result.Records))
	return &Report{
		Path:    readmePath,
		Entries: len(result.Records),
		Skipped: result.Errors,
	}, nil
}
