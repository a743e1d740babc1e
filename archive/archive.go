package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pevans/judgearchive/problem"
)

// InfoFilename is the metadata file kept in every problem workspace.
const InfoFilename = "info.json"

// Archive is the solutions tree: one directory per problem, each holding an
// info.json metadata file.
type Archive struct {
	solutionsDir string
}

// FilesystemError describes a failed directory or file operation in the
// archive.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ReadError describes a failure to read a single info.json file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ListResult contains the records found in the archive and any per-file
// errors that occurred while reading them.
type ListResult struct {
	Records []problem.Metadata
	Errors  []ReadError
}

// New opens the archive rooted at solutionsDir, creating the directory if it
// doesn't exist.
func New(solutionsDir string) (*Archive, error) {
	if err := os.MkdirAll(solutionsDir, 0o755); err != nil {
		return nil, &FilesystemError{Op: "create solutions directory", Path: solutionsDir, Err: err}
	}

	return &Archive{
		solutionsDir: solutionsDir,
	}, nil
}

// Dir returns the solutions root.
func (a *Archive) Dir() string {
	return a.solutionsDir
}

// WorkspacePath returns the path of the workspace directory named dirName.
func (a *Archive) WorkspacePath(dirName string) string {
	return filepath.Join(a.solutionsDir, dirName)
}

// CreateWorkspace creates the workspace directory dirName. An existing
// directory is left alone. It reports whether the directory was created.
func (a *Archive) CreateWorkspace(dirName string) (bool, error) {
	path := a.WorkspacePath(dirName)

	err := os.Mkdir(path, 0o755)
	if errors.Is(err, fs.ErrExist) {
		info, statErr := os.Stat(path)
		if statErr == nil && info.IsDir() {
			return false, nil
		}
		return false, &FilesystemError{Op: "create workspace", Path: path, Err: err}
	}
	if err != nil {
		return false, &FilesystemError{Op: "create workspace", Path: path, Err: err}
	}

	return true, nil
}

// WriteInfo writes meta to info.json in the workspace dirName, replacing any
// existing file. The workspace must already exist.
func (a *Archive) WriteInfo(dirName string, meta problem.Metadata) error {
	path := filepath.Join(a.WorkspacePath(dirName), InfoFilename)

	data, err := encodeInfo(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FilesystemError{Op: "write", Path: path, Err: err}
	}

	return nil
}

// ReadInfo reads the info.json of the workspace dirName.
func (a *Archive) ReadInfo(dirName string) (*problem.Metadata, error) {
	return readInfoFile(filepath.Join(a.WorkspacePath(dirName), InfoFilename))
}

// List returns every record in the archive sorted by ID. Workspaces without
// an info.json are skipped. Unreadable or invalid files are collected in the
// result's Errors slice rather than failing the whole listing; a non-nil
// error means the solutions root itself could not be read.
func (a *Archive) List() (*ListResult, error) {
	entries, err := os.ReadDir(a.solutionsDir)
	if err != nil {
		return nil, &FilesystemError{Op: "read", Path: a.solutionsDir, Err: err}
	}

	result := &ListResult{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(a.solutionsDir, entry.Name(), InfoFilename)
		meta, err := readInfoFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			result.Errors = append(result.Errors, ReadError{Path: path, Err: err})
			continue
		}

		if err := meta.Validate(); err != nil {
			result.Errors = append(result.Errors, ReadError{Path: path, Err: err})
			continue
		}

		result.Records = append(result.Records, *meta)
	}

	problem.SortByID(result.Records)
	return result, nil
}

func readInfoFile(path string) (*problem.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var meta problem.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", InfoFilename, err)
	}

	return &meta, nil
}

// encodeInfo renders meta with four-space indentation. HTML characters are
// written as-is since titles routinely contain "&" and "<".
func encodeInfo(meta problem.Metadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
