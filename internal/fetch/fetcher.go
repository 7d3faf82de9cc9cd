// Package fetch retrieves and caches the base Manual archive the final
// plugin is assembled on top of. The rest of the pipeline only sees the
// returned filesystem path; network policy (retries, timeouts) lives here.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cenkalti/backoff/v5"

	"github.com/kingrea/manualforge/internal/config"
	"github.com/kingrea/manualforge/internal/logging"
)

// ReleaseAsset is one downloadable file attached to a GitHub release.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Release is the subset of the GitHub release payload the fetcher reads.
type Release struct {
	TagName string         `json:"tag_name"`
	Assets  []ReleaseAsset `json:"assets"`
}

// Fetcher downloads the latest base archive, caching it on disk.
type Fetcher struct {
	cfg    config.Config
	client *http.Client
	log    *logging.Logger
}

// New builds a fetcher. The logger may be nil.
func New(cfg config.Config, log *logging.Logger) *Fetcher {
	return &Fetcher{cfg: cfg, client: &http.Client{}, log: log}
}

// CachedPath is where the base archive is (or will be) cached.
func (f *Fetcher) CachedPath() string {
	return f.cfg.BaseArchivePath()
}

// Fetch returns the path to the cached base archive, downloading the latest
// release first when the cache is empty or force is set.
func (f *Fetcher) Fetch(ctx context.Context, force bool) (string, error) {
	cached := f.CachedPath()
	if !force {
		if _, err := os.Stat(cached); err == nil {
			f.log.Printf("fetch: using cached base archive %s", cached)
			return cached, nil
		}
	}
	if err := f.cfg.EnsureCacheDir(); err != nil {
		return "", err
	}

	release, err := f.latestRelease(ctx)
	if err != nil {
		return "", err
	}
	asset, err := findArchiveAsset(release)
	if err != nil {
		return "", err
	}
	f.log.Printf("fetch: downloading %s (%d bytes) from release %s", asset.Name, asset.Size, release.TagName)
	if err := f.download(ctx, asset.BrowserDownloadURL, cached); err != nil {
		return "", err
	}
	f.log.Printf("fetch: cached base archive at %s", cached)
	return cached, nil
}

// latestRelease queries the GitHub API with retry and exponential backoff.
func (f *Fetcher) latestRelease(ctx context.Context) (Release, error) {
	operation := func() (Release, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, f.cfg.ReleaseAPIURL, nil)
		if err != nil {
			return Release{}, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		resp, err := f.client.Do(req)
		if err != nil {
			return Release{}, err
		}
		defer resp.Body.Close()
		if err := statusError(resp); err != nil {
			return Release{}, err
		}
		var release Release
		if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
			return Release{}, err
		}
		return release, nil
	}
	release, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(f.cfg.MaxRetries)),
	)
	if err != nil {
		return Release{}, fmt.Errorf("fetch: release info after %d attempts: %w", f.cfg.MaxRetries, err)
	}
	return release, nil
}

// download streams the asset to a temp file and renames it into place so a
// partial download never shadows a good cache entry.
func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	operation := func() (struct{}, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.DownloadTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()
		if err := statusError(resp); err != nil {
			return struct{}{}, err
		}
		tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		defer os.Remove(tmp.Name())
		if _, err := io.Copy(tmp, resp.Body); err != nil {
			tmp.Close()
			return struct{}{}, err
		}
		if err := tmp.Close(); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, os.Rename(tmp.Name(), dest)
	}
	if _, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(f.cfg.MaxRetries)),
	); err != nil {
		return fmt.Errorf("fetch: download after %d attempts: %w", f.cfg.MaxRetries, err)
	}
	return nil
}

// statusError maps non-200 responses to errors; client errors are permanent
// since retrying a 404 or 403 will not change the outcome.
func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	err := fmt.Errorf("unexpected status %s", resp.Status)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return backoff.Permanent(err)
	}
	return err
}

func findArchiveAsset(release Release) (ReleaseAsset, error) {
	for _, asset := range release.Assets {
		if strings.HasSuffix(asset.Name, ".apworld") {
			return asset, nil
		}
	}
	return ReleaseAsset{}, fmt.Errorf("fetch: no .apworld asset in release %s", release.TagName)
}
