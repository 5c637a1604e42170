// Package fetch downloads remote files into the destination tree.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/output"
)

// copyBufferSize bounds how much of a response is held in memory at once.
const copyBufferSize = 32 * 1024

// DefaultTimeout bounds one download.
const DefaultTimeout = 60 * time.Second

// Fetcher streams URLs into files under root.
type Fetcher struct {
	client *http.Client
	fs     afero.Fs
	root   string
}

// New creates a fetcher. A nil client gets DefaultTimeout.
func New(client *http.Client, fsys afero.Fs, root string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Fetcher{client: client, fs: fsys, root: root}
}

// Download streams url into rel, overwriting it. Non-2xx responses and
// transport errors fail with ErrDownloadFailed and leave no file behind.
// There are no retries.
func (f *Fetcher) Download(ctx context.Context, url, rel string) error {
	dest := rel
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(f.root, rel)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return oerrors.NewDownloadError(url, 0, err)
	}

	output.Debug("downloading", "url", url, "dest", rel)

	resp, err := f.client.Do(req)
	if err != nil {
		return oerrors.NewDownloadError(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return oerrors.NewDownloadError(url, resp.StatusCode, nil)
	}

	out, err := f.fs.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	n, copyErr := io.CopyBuffer(out, resp.Body, make([]byte, copyBufferSize))
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = f.fs.Remove(dest)
		return oerrors.NewDownloadError(url, resp.StatusCode, copyErr)
	}

	output.Debug("downloaded", "url", url, "bytes", n)
	return nil
}
