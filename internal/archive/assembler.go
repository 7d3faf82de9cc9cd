// Package archive assembles the final plugin archive: the base Manual
// archive with the derived artifact files overlaid on top.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/kingrea/manualforge/internal/artifacts"
	"github.com/kingrea/manualforge/internal/definition"
)

// SuggestedFilename derives the output archive name from the game name.
func SuggestedFilename(def definition.GameDefinition) string {
	return artifacts.Sanitize(def.Name) + ".apworld"
}

// Assemble writes the final archive at outPath: every entry of the base
// archive is copied through except those replaced by a derived artifact,
// and the artifacts themselves are appended in sorted path order so the
// output is reproducible.
func Assemble(basePath string, generated []artifacts.Artifact, outPath string) error {
	base, err := zip.OpenReader(basePath)
	if err != nil {
		return fmt.Errorf("archive: open base %s: %w", basePath, err)
	}
	defer base.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("archive: ensure output dir: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", outPath, err)
	}
	defer out.Close()

	overridden := make(map[string]bool, len(generated))
	for _, artifact := range generated {
		overridden[artifact.Path] = true
	}

	w := zip.NewWriter(out)
	for _, entry := range base.File {
		if overridden[entry.Name] || entry.FileInfo().IsDir() {
			continue
		}
		if err := copyEntry(w, entry); err != nil {
			return err
		}
	}

	sorted := make([]artifacts.Artifact, len(generated))
	copy(sorted, generated)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	for _, artifact := range sorted {
		dst, err := w.CreateHeader(&zip.FileHeader{Name: artifact.Path, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("archive: add %s: %w", artifact.Path, err)
		}
		if _, err := dst.Write(artifact.Data); err != nil {
			return fmt.Errorf("archive: write %s: %w", artifact.Path, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("archive: finalize %s: %w", outPath, err)
	}
	return nil
}

func copyEntry(w *zip.Writer, entry *zip.File) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("archive: open entry %s: %w", entry.Name, err)
	}
	defer src.Close()
	dst, err := w.CreateHeader(&zip.FileHeader{Name: entry.Name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("archive: copy entry %s: %w", entry.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("archive: copy entry %s: %w", entry.Name, err)
	}
	return nil
}
