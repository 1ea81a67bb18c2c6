// Package content loads the body content referenced by mock definition files.
package content

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Resolver opens body references from mock definition files. References
// starting with http:// or https:// are fetched with a GET request;
// anything else is a file path, resolved against BaseDir when relative.
type Resolver struct {
	BaseDir string
	Client  *http.Client
}

// New returns a resolver rooted at baseDir.
func New(baseDir string) *Resolver {
	return &Resolver{
		BaseDir: baseDir,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Open returns a stream of the referenced content. The caller closes it.
func (r *Resolver) Open(ref string) (io.ReadCloser, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return r.openURL(ref)
	}

	path := ref
	if r.BaseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.BaseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content file: %w", err)
	}
	return f, nil
}

func (r *Resolver) openURL(ref string) (io.ReadCloser, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: status %d", ref, resp.StatusCode)
	}
	return resp.Body, nil
}
