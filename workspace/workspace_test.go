package workspace

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pevans/judgearchive/archive"
	"github.com/pevans/judgearchive/problem"
	"github.com/pevans/judgearchive/readme"
	"github.com/pevans/judgearchive/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solutionBaseURL = "https://github.com/example/uva-solutions/tree/master"

const problemURL = "https://onlinejudge.org/index.php?option=com_onlinejudge&Itemid=8&page=show_problem&problem=36"

// fakeScraper returns a canned name and counts calls
type fakeScraper struct {
	name  string
	err   error
	calls int
}

func (f *fakeScraper) ProblemName(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.name, f.err
}

// Test helper: create an archive in a temp directory
func setupTestArchive(t *testing.T) *archive.Archive {
	a, err := archive.New(filepath.Join(t.TempDir(), "solutions"))
	require.NoError(t, err)
	return a
}

// TestCreateWorkspace_UVa verifies the full three-step flow
func TestCreateWorkspace_UVa(t *testing.T) {
	a := setupTestArchive(t)
	s := &fakeScraper{name: "100 - The 3n + 1 problem"}
	c := NewUVaCreator(problemURL, s, a, nil)

	result, err := c.CreateWorkspace(context.Background())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, JudgeUVa, result.Judge)
	assert.Equal(t, "00100 - The 3n + 1 problem", result.DirName)
	assert.Equal(t, filepath.Join(a.Dir(), "00100 - The 3n + 1 problem"), result.Dir)
	assert.True(t, result.Created)
	assert.Equal(t, 1, s.calls, "should scrape the page once")

	meta, err := a.ReadInfo("00100 - The 3n + 1 problem")
	require.NoError(t, err)
	assert.Equal(t, problem.Metadata{
		Name:           "The 3n + 1 problem",
		ID:             "00100",
		OnlineJudgeURL: problemURL,
		ExternalURL:    "https://onlinejudge.org/external/1/100.pdf",
	}, *meta)
	assert.Equal(t, *meta, result.Metadata)
}

// TestCreateWorkspace_IDAndDirAgree verifies padding across number widths
func TestCreateWorkspace_IDAndDirAgree(t *testing.T) {
	tests := []struct {
		scraped string
		id      string
		title   string
	}{
		{"1 - One", "00001", "One"},
		{"99 - Ninety  Nine", "00099", "Ninety  Nine"},
		{"458 - The Decoder", "00458", "The Decoder"},
		{"10055 - Hashmat the Brave Warrior", "10055", "Hashmat the Brave Warrior"},
	}

	for _, tt := range tests {
		t.Run(tt.scraped, func(t *testing.T) {
			a := setupTestArchive(t)
			c := NewUVaCreator(problemURL, &fakeScraper{name: tt.scraped}, a, nil)

			result, err := c.CreateWorkspace(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.id, result.Metadata.ID)
			assert.Equal(t, tt.title, result.Metadata.Name)
			assert.Equal(t, tt.id+" - "+tt.title, result.DirName)
			assert.DirExists(t, result.Dir)
		})
	}
}

// TestUVaExternalURL verifies the bucketed PDF URL
func TestUVaExternalURL(t *testing.T) {
	tests := []struct {
		scraped  string
		expected string
	}{
		{"100 - The 3n + 1 problem", "https://onlinejudge.org/external/1/100.pdf"},
		{"99 - B", "https://onlinejudge.org/external/0/99.pdf"},
		{"10055 - Hashmat the Brave Warrior", "https://onlinejudge.org/external/100/10055.pdf"},
		{"458 - The Decoder", "https://onlinejudge.org/external/4/458.pdf"},
		{"007 - Leading Zeros", "https://onlinejudge.org/external/0/007.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.scraped, func(t *testing.T) {
			name, err := problem.ParseName(tt.scraped)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, UVaExternalURL(name))
		})
	}
}

// TestCreateWorkspace_SolutionLinkMatchesDir verifies the README link resolves
// to the created directory whichever separator the judge used
func TestCreateWorkspace_SolutionLinkMatchesDir(t *testing.T) {
	tests := []struct {
		scraped string
		dirName string
	}{
		{"10055 - Hashmat the Brave Warrior", "10055 - Hashmat the Brave Warrior"},
		{"10055 Hashmat the Brave Warrior", "10055 - Hashmat the Brave Warrior"},
		{"458 - The  Decoder", "00458 - The  Decoder"},
		{"272\tTEX Quotes", "00272 - TEX Quotes"},
	}

	for _, tt := range tests {
		t.Run(tt.scraped, func(t *testing.T) {
			a := setupTestArchive(t)
			c := NewUVaCreator(problemURL, &fakeScraper{name: tt.scraped}, a, nil)

			result, err := c.CreateWorkspace(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.dirName, result.DirName)
			assert.DirExists(t, result.Dir)

			link := readme.SolutionLink(solutionBaseURL, result.Metadata)
			linkPath, err := url.PathUnescape(strings.TrimPrefix(link, solutionBaseURL+"/"))
			require.NoError(t, err)
			assert.Equal(t, "solutions/"+result.DirName, linkPath)
			assert.Equal(t, filepath.Join(filepath.Dir(a.Dir()), filepath.FromSlash(linkPath)), result.Dir)
		})
	}
}

// TestCreateDirectory_Idempotent verifies repeated creation is harmless
func TestCreateDirectory_Idempotent(t *testing.T) {
	a := setupTestArchive(t)
	c := NewUVaCreator(problemURL, &fakeScraper{name: "272 - TEX Quotes"}, a, nil)

	require.NoError(t, c.CreateDirectory(context.Background()))
	require.NoError(t, c.CreateDirectory(context.Background()))

	entries, err := os.ReadDir(a.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "00272 - TEX Quotes", entries[0].Name())
}

// TestCreateWorkspace_ExistingDirectory verifies reruns report Created=false
func TestCreateWorkspace_ExistingDirectory(t *testing.T) {
	a := setupTestArchive(t)
	_, err := a.CreateWorkspace("00272 - TEX Quotes")
	require.NoError(t, err)

	c := NewUVaCreator(problemURL, &fakeScraper{name: "272 - TEX Quotes"}, a, nil)
	result, err := c.CreateWorkspace(context.Background())

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.FileExists(t, filepath.Join(result.Dir, archive.InfoFilename))
}

// TestWriteInfoJSON_LastWriteWins verifies info.json is overwritten
func TestWriteInfoJSON_LastWriteWins(t *testing.T) {
	a := setupTestArchive(t)
	first := NewUVaCreator("http://first", &fakeScraper{name: "100 - The 3n + 1 problem"}, a, nil)
	_, err := first.CreateWorkspace(context.Background())
	require.NoError(t, err)

	second := NewUVaCreator("http://second", &fakeScraper{name: "100 - The 3n + 1 problem"}, a, nil)
	require.NoError(t, second.WriteInfoJSON(context.Background()))
	require.NoError(t, second.WriteInfoJSON(context.Background()))

	meta, err := a.ReadInfo("00100 - The 3n + 1 problem")
	require.NoError(t, err)
	assert.Equal(t, "http://second", meta.OnlineJudgeURL)
}

// TestWriteInfoJSON_WithoutDirectory verifies the directory step is required
func TestWriteInfoJSON_WithoutDirectory(t *testing.T) {
	a := setupTestArchive(t)
	c := NewUVaCreator(problemURL, &fakeScraper{name: "100 - X"}, a, nil)

	err := c.WriteInfoJSON(context.Background())

	var fsErr *archive.FilesystemError
	assert.True(t, errors.As(err, &fsErr))
}

// TestCreateWorkspace_FetchErrorWritesNothing verifies fetch failures abort early
func TestCreateWorkspace_FetchErrorWritesNothing(t *testing.T) {
	a := setupTestArchive(t)
	fetchErr := &scraper.FetchError{URL: problemURL, StatusCode: 503}
	c := NewUVaCreator(problemURL, &fakeScraper{err: fetchErr}, a, nil)

	result, err := c.CreateWorkspace(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, fetchErr)
	entries, err := os.ReadDir(a.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestCreateWorkspace_NonNumericName verifies bad names are parse errors
func TestCreateWorkspace_NonNumericName(t *testing.T) {
	a := setupTestArchive(t)
	c := NewUVaCreator(problemURL, &fakeScraper{name: "Problem A - Title"}, a, nil)

	_, err := c.CreateWorkspace(context.Background())

	var parseErr *problem.ParseError
	assert.True(t, errors.As(err, &parseErr))
	entries, err := os.ReadDir(a.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "should not pad a non-numeric token into a directory")
}

// TestNoopCreator verifies every step does nothing
func TestNoopCreator(t *testing.T) {
	c := NoopCreator{}
	ctx := context.Background()

	result, err := c.CreateWorkspace(ctx)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, c.CreateDirectory(ctx))
	assert.NoError(t, c.WriteTestcases(ctx))
	assert.NoError(t, c.WriteInfoJSON(ctx))
}

// TestDetectJudge verifies host-based judge detection
func TestDetectJudge(t *testing.T) {
	judge, err := DetectJudge(problemURL)
	require.NoError(t, err)
	assert.Equal(t, JudgeUVa, judge)

	judge, err = DetectJudge("https://uva.onlinejudge.org/index.php?problem=36")
	require.NoError(t, err)
	assert.Equal(t, JudgeUVa, judge)

	_, err = DetectJudge("https://codeforces.com/problemset/problem/1/A")
	assert.ErrorIs(t, err, ErrUnsupportedJudge)

	_, err = DetectJudge("ftp://onlinejudge.org/x")
	assert.Error(t, err)
}

// TestForURL verifies creator selection
func TestForURL(t *testing.T) {
	a := setupTestArchive(t)
	deps := Deps{Archive: a, Scraper: &fakeScraper{name: "100 - X"}}

	c, err := ForURL(JudgeAuto, problemURL, deps)
	require.NoError(t, err)
	assert.IsType(t, &UVaCreator{}, c)

	c, err = ForURL(JudgeUVa, "https://mirror.example.com/p/36", deps)
	require.NoError(t, err)
	assert.IsType(t, &UVaCreator{}, c)

	c, err = ForURL(JudgeNone, "https://codeforces.com/problemset/problem/1/A", Deps{})
	require.NoError(t, err)
	assert.IsType(t, NoopCreator{}, c)

	_, err = ForURL("codeforces", problemURL, deps)
	assert.ErrorIs(t, err, ErrUnsupportedJudge)

	_, err = ForURL(JudgeUVa, problemURL, Deps{})
	assert.Error(t, err, "uva needs an archive")
}
