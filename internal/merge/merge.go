// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge concatenates chapter PDFs into one document with a
// top-level bookmark at the first page of each chapter.
package merge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/pdiddy/slidedeck/pkg/types"
)

// ErrNoEntries is returned when Merge is called with an empty chapter list.
var ErrNoEntries = errors.New("no chapters to merge")

// PDFWriter is the PDF capability the merger depends on.
type PDFWriter interface {
	Merge(in []string, out string) error
	AddOutline(in, out string, bms []pdfcpu.Bookmark) error
	PageCount(path string) (int, error)
}

// Chapter is one merged source with its position in the output.
type Chapter struct {
	Title     string
	Path      string
	FirstPage int
	Pages     int
}

// Result describes a merged document.
type Result struct {
	Output   string
	Pages    int
	Chapters []Chapter
}

// Resolve joins file onto inputDir and makes the result absolute.
func Resolve(inputDir, file string) (string, error) {
	p := file
	if !filepath.IsAbs(file) {
		p = filepath.Join(inputDir, file)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", file, err)
	}
	return abs, nil
}

// Merge appends the documents named by entries, in order, into cfg.Output
// and adds one top-level bookmark per entry at the first page it
// contributed. Any bookmarks carried over from the sources are replaced.
// A missing or unreadable source aborts the whole merge; no output is left
// behind in that case.
func Merge(doc PDFWriter, entries []types.ChapterEntry, cfg types.MergeConfig, w io.Writer) (Result, error) {
	if len(entries) == 0 {
		return Result{}, ErrNoEntries
	}

	output := cfg.Output
	if output == "" {
		output = types.DefaultMergeOut
	}

	chapters := make([]Chapter, len(entries))
	paths := make([]string, len(entries))
	next := 1
	for i, e := range entries {
		p, err := Resolve(cfg.InputDir, e.File)
		if err != nil {
			return Result{}, err
		}
		if _, err := os.Stat(p); err != nil {
			return Result{}, fmt.Errorf("chapter %q: %w", e.Title, err)
		}
		n, err := doc.PageCount(p)
		if err != nil {
			return Result{}, fmt.Errorf("chapter %q: %w", e.Title, err)
		}
		chapters[i] = Chapter{Title: e.Title, Path: p, FirstPage: next, Pages: n}
		paths[i] = p
		next += n
	}

	outDir := filepath.Dir(output)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := tempPath(outDir)
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(tmp)

	if err := doc.Merge(paths, tmp); err != nil {
		return Result{}, err
	}

	total, err := doc.PageCount(tmp)
	if err != nil {
		return Result{}, err
	}
	if total != next-1 {
		return Result{}, fmt.Errorf("merged document has %d pages, chapters add up to %d", total, next-1)
	}

	if err := doc.AddOutline(tmp, output, Bookmarks(chapters)); err != nil {
		return Result{}, err
	}

	for _, c := range chapters {
		fmt.Fprintf(w, "page %d: %s (%s, %d pages)\n", c.FirstPage, c.Title, filepath.Base(c.Path), c.Pages)
	}
	fmt.Fprintf(w, "merged PDF saved as %s (%d pages)\n", output, total)

	return Result{Output: output, Pages: total, Chapters: chapters}, nil
}

// Bookmarks returns one top-level bookmark per chapter.
func Bookmarks(chapters []Chapter) []pdfcpu.Bookmark {
	bms := make([]pdfcpu.Bookmark, len(chapters))
	for i, c := range chapters {
		bms[i] = pdfcpu.Bookmark{Title: c.Title, PageFrom: c.FirstPage}
	}
	return bms
}

// tempPath reserves a unique, not yet existing file name in dir.
func tempPath(dir string) (string, error) {
	f, err := os.CreateTemp(dir, ".slidedeck-merge-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	return name, nil
}
