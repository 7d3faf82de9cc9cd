package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kingrea/manualforge/internal/config"
)

func testConfig(t *testing.T, apiURL string) config.Config {
	t.Helper()
	return config.Config{
		CacheDir:        t.TempDir(),
		ReleaseAPIURL:   apiURL,
		RequestTimeout:  5 * time.Second,
		DownloadTimeout: 5 * time.Second,
		MaxRetries:      3,
	}
}

func releaseServer(t *testing.T, archive []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/release", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name":"v1.2.3","assets":[
			{"name":"notes.txt","browser_download_url":"%s/notes"},
			{"name":"Manual.apworld","browser_download_url":"%s/asset","size":%d}
		]}`, server.URL, server.URL, len(archive))
	})
	mux.HandleFunc("/asset", func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	payload := []byte("fake archive bytes")
	server := releaseServer(t, payload)
	cfg := testConfig(t, server.URL+"/release")
	f := New(cfg, nil)

	path, err := f.Fetch(context.Background(), false)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path != cfg.BaseArchivePath() {
		t.Fatalf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cached archive: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("cached archive content mismatch")
	}
}

func TestFetchUsesCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected network request to %s", r.URL.Path)
	}))
	t.Cleanup(server.Close)
	cfg := testConfig(t, server.URL)
	if err := cfg.EnsureCacheDir(); err != nil {
		t.Fatalf("ensure cache dir: %v", err)
	}
	if err := os.WriteFile(cfg.BaseArchivePath(), []byte("cached"), 0644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	path, err := New(cfg, nil).Fetch(context.Background(), false)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if filepath.Base(path) != config.BaseArchiveName {
		t.Fatalf("unexpected path: %s", path)
	}
}

func TestFetchForceIgnoresCache(t *testing.T) {
	payload := []byte("fresh bytes")
	server := releaseServer(t, payload)
	cfg := testConfig(t, server.URL+"/release")
	if err := cfg.EnsureCacheDir(); err != nil {
		t.Fatalf("ensure cache dir: %v", err)
	}
	if err := os.WriteFile(cfg.BaseArchivePath(), []byte("stale"), 0644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	path, err := New(cfg, nil).Fetch(context.Background(), true)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != string(payload) {
		t.Fatalf("expected cache replaced, got %q", data)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	payload := []byte("eventually served")
	var failures atomic.Int32
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/release", func(w http.ResponseWriter, r *http.Request) {
		if failures.Add(1) == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"tag_name":"v1","assets":[{"name":"Manual.apworld","browser_download_url":"%s/asset"}]}`, server.URL)
	})
	mux.HandleFunc("/asset", func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := testConfig(t, server.URL+"/release")
	if _, err := New(cfg, nil).Fetch(context.Background(), false); err != nil {
		t.Fatalf("fetch should retry past one server error: %v", err)
	}
	if failures.Load() < 2 {
		t.Fatalf("expected at least 2 release requests, got %d", failures.Load())
	}
}

func TestFetchClientErrorIsPermanent(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	cfg := testConfig(t, server.URL)
	if _, err := New(cfg, nil).Fetch(context.Background(), false); err == nil {
		t.Fatalf("expected error for 404 release endpoint")
	}
	if hits.Load() != 1 {
		t.Fatalf("client errors must not be retried, got %d requests", hits.Load())
	}
}

func TestFetchNoArchiveAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name":"v1","assets":[{"name":"notes.txt","browser_download_url":"http://example.invalid"}]}`)
	}))
	t.Cleanup(server.Close)

	cfg := testConfig(t, server.URL)
	if _, err := New(cfg, nil).Fetch(context.Background(), false); err == nil {
		t.Fatalf("expected error when release carries no .apworld asset")
	}
}
