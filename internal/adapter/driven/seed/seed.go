// Package seed implements the SeedSource port over bundled, on-disk and
// HTTP-hosted data.json documents.
package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

//go:embed public/data.json
var bundledFS embed.FS

// maxSeedBytes caps the size of a seed document.
const maxSeedBytes = 4 << 20

// ErrSeedTooLarge is returned for seed documents over maxSeedBytes.
var ErrSeedTooLarge = fmt.Errorf("seed document exceeds %d bytes", maxSeedBytes)

// Compile-time interface satisfaction checks.
var (
	_ driven.SeedSource = (*FileSource)(nil)
	_ driven.SeedSource = (*HTTPSource)(nil)
)

// FileSource reads the seed document from a file system.
type FileSource struct {
	fsys fs.FS
	path string
}

// Bundled returns the seed shipped inside the binary. Out of the box it holds
// the placeholder marker, so first runs fall back to the default content.
func Bundled() *FileSource {
	return &FileSource{fsys: bundledFS, path: "public/data.json"}
}

// NewFileSource reads the seed from path on the host file system.
func NewFileSource(path string) *FileSource {
	return &FileSource{fsys: osFS{}, path: path}
}

// NewFSSource reads the seed from path within fsys.
func NewFSSource(fsys fs.FS, path string) *FileSource {
	return &FileSource{fsys: fsys, path: path}
}

// FetchSeed returns the file content, or nil, nil when the file does not exist.
func (s *FileSource) FetchSeed(_ context.Context) ([]byte, error) {
	f, err := s.fsys.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed %q: %w", s.path, err)
	}
	defer f.Close()

	data, err := readSeed(f)
	if err != nil {
		return nil, fmt.Errorf("read seed %q: %w", s.path, err)
	}
	return data, nil
}

// osFS opens paths on the host file system as given, absolute or relative.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// HTTPSource fetches the seed document with a GET request.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client gets a 10 second timeout.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{url: url, client: client}
}

// FetchSeed returns the response body. A 404 yields nil, nil; other non-2xx
// statuses are errors.
func (s *HTTPSource) FetchSeed(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build seed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch seed %s: unexpected status %d", s.url, resp.StatusCode)
	}

	data, err := readSeed(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", s.url, err)
	}
	return data, nil
}

// readSeed reads all of r, failing with ErrSeedTooLarge rather than returning
// a truncated document.
func readSeed(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSeedBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSeedBytes {
		return nil, ErrSeedTooLarge
	}
	return data, nil
}
