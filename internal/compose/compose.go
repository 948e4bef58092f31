// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns a directory of slide images into a single PDF with
// a nested bookmark outline.
package compose

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/pdiddy/slidedeck/internal/imagedir"
	"github.com/pdiddy/slidedeck/internal/outline"
	"github.com/pdiddy/slidedeck/pkg/types"
)

// ErrNoImages is returned when the image directory holds no jpg, jpeg or png
// files. Nothing is written in that case.
var ErrNoImages = errors.New("no images found")

// intermediate is the name of the outline-less PDF built in the work dir.
const intermediate = "__tmp_no_bookmark.pdf"

// PDFWriter is the PDF capability the composer depends on.
type PDFWriter interface {
	ImportImages(images []string, out string) error
	AddOutline(in, out string, bms []pdfcpu.Bookmark) error
	PageCount(path string) (int, error)
}

// Result describes a composed document.
type Result struct {
	Output    string
	Pages     int
	Bookmarks int
}

// Compose builds cfg.Output inside cfg.ImageDir (or at cfg.Output when it is
// absolute) from every image in that directory, one page per image in
// filename order, and attaches chapters as the bookmark outline. The chapter tree is validated against the page count
// before any file is written. Intermediate files live in a temporary
// directory that is removed on return.
func Compose(doc PDFWriter, cfg types.ComposeConfig, chapters []types.ChapterNode, w io.Writer) (Result, error) {
	images, err := imagedir.List(cfg.ImageDir)
	if err != nil {
		return Result{}, err
	}
	if len(images) == 0 {
		return Result{}, fmt.Errorf("%s: %w", cfg.ImageDir, ErrNoImages)
	}

	bms, err := outline.Attach(chapters, len(images))
	if err != nil {
		return Result{}, fmt.Errorf("chapters: %w", err)
	}

	output := cfg.Output
	if output == "" {
		output = types.DefaultComposeOut
	}
	outPath := output
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(cfg.ImageDir, output)
	}

	work, err := os.MkdirTemp(cfg.ImageDir, ".slidedeck-*")
	if err != nil {
		return Result{}, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(work)

	pages := make([]string, len(images))
	for i, src := range images {
		pages[i] = filepath.Join(work, fmt.Sprintf("%05d.png", i+1))
		size, err := imagedir.Normalize(src, pages[i])
		if err != nil {
			return Result{}, err
		}
		fmt.Fprintf(w, "page %d: %s (%dx%d)\n", i+1, filepath.Base(src), size.X, size.Y)
	}

	tmpPDF := filepath.Join(work, intermediate)
	if err := doc.ImportImages(pages, tmpPDF); err != nil {
		return Result{}, err
	}

	n, err := doc.PageCount(tmpPDF)
	if err != nil {
		return Result{}, err
	}
	if n != len(images) {
		return Result{}, fmt.Errorf("composed %d pages from %d images", n, len(images))
	}

	if err := doc.AddOutline(tmpPDF, outPath, bms); err != nil {
		return Result{}, err
	}

	result := Result{
		Output:    outPath,
		Pages:     n,
		Bookmarks: countNodes(chapters),
	}
	fmt.Fprintf(w, "composed %s (%d pages, %d bookmarks)\n", outPath, result.Pages, result.Bookmarks)
	return result, nil
}

func countNodes(nodes []types.ChapterNode) int {
	total := 0
	for _, n := range nodes {
		total += n.Count()
	}
	return total
}
