package readme

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pevans/judgearchive/problem"
)

// HeaderProvider returns the column header of the README table.
type HeaderProvider interface {
	Header() string
}

// EntryBuilder formats one README table row. Rows must have as many columns
// as the matching HeaderProvider's header.
type EntryBuilder interface {
	Entry(meta problem.Metadata) string
}

// UVaHeader is the table header for UVa problems.
type UVaHeader struct{}

var _ HeaderProvider = UVaHeader{}

// Header returns the header and alignment lines.
func (UVaHeader) Header() string {
	return "| ID | UVa Online Judge | External | Link to solution |\n" +
		"|:---|:---|:---|:---:|\n"
}

// UVaEntryBuilder formats rows for UVa problems. SolutionBaseURL is the web
// location of the repository's default branch; solution links are built
// relative to it.
type UVaEntryBuilder struct {
	SolutionBaseURL string
}

var _ EntryBuilder = UVaEntryBuilder{}

// Entry formats meta as a table row linking the problem page, its PDF
// statement and its solution directory.
func (b UVaEntryBuilder) Entry(meta problem.Metadata) string {
	return fmt.Sprintf("| %s | [%s](%s) | [PDF](%s) | [Solution](%s) |\n",
		meta.ID,
		cellEscaper.Replace(meta.Name),
		meta.OnlineJudgeURL,
		meta.ExternalURL,
		SolutionLink(b.SolutionBaseURL, meta),
	)
}

// cellEscaper keeps a name from splitting its table cell or closing its
// link text early.
var cellEscaper = strings.NewReplacer("|", `\|`, "]", `\]`)

// SolutionLink returns the URL of meta's workspace under baseURL.
func SolutionLink(baseURL string, meta problem.Metadata) string {
	rel := "solutions/" + meta.ID + problem.NameSeparator + meta.Name
	return strings.TrimRight(baseURL, "/") + "/" + escapePath(rel)
}

// escapePath escapes each segment of p, keeping the separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// ContentProvider supplies the README table: one header, one row per
// problem.
type ContentProvider struct {
	header  HeaderProvider
	entries EntryBuilder
}

// NewContentProvider pairs a header with the rows that go under it.
func NewContentProvider(header HeaderProvider, entries EntryBuilder) *ContentProvider {
	return &ContentProvider{
		header:  header,
		entries: entries,
	}
}

// NewUVaContentProvider returns the content provider for UVa problems.
func NewUVaContentProvider(solutionBaseURL string) *ContentProvider {
	return NewContentProvider(UVaHeader{}, UVaEntryBuilder{SolutionBaseURL: solutionBaseURL})
}

// Header returns the table header.
func (p *ContentProvider) Header() string {
	return p.header.Header()
}

// Entry returns the table row for meta.
func (p *ContentProvider) Entry(meta problem.Metadata) string {
	return p.entries.Entry(meta)
}
