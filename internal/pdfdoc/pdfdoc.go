// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc wraps pdfcpu behind the small set of operations the
// composer and merger need: import images as pages, merge documents, count
// pages and read or replace the bookmark outline.
package pdfdoc

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating ~/.config/pdfcpu on every run.
	api.DisableConfigDir()
}

// Writer performs PDF operations with pdfcpu. The zero value is not usable;
// call New.
type Writer struct {
	conf *model.Configuration
}

// New returns a Writer using pdfcpu's default configuration.
func New() *Writer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Writer{conf: conf}
}

// ImportImages creates out with one page per image, in slice order. Each page
// takes the dimensions of its image. out must not exist yet: pdfcpu appends
// to an existing file.
func (w *Writer) ImportImages(images []string, out string) error {
	if len(images) == 0 {
		return fmt.Errorf("importing images into %s: no images", out)
	}
	if _, err := os.Stat(out); err == nil {
		return fmt.Errorf("importing images: %s already exists", out)
	}

	imp := pdfcpu.DefaultImportConfig()
	if err := api.ImportImagesFile(images, out, imp, w.conf); err != nil {
		return fmt.Errorf("importing images into %s: %w", out, err)
	}
	return nil
}

// AddOutline copies in to out with bms as its bookmark outline, replacing any
// existing outline. Siblings keep slice order whatever their pages. An empty
// bms copies the document unchanged. in and out must differ.
func (w *Writer) AddOutline(in, out string, bms []pdfcpu.Bookmark) (err error) {
	if len(bms) == 0 {
		return copyFile(in, out)
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening %s: %w", in, err)
	}
	defer f.Close()

	conf := *w.conf
	conf.Cmd = model.ADDBOOKMARKS
	ctx, err := api.ReadValidateAndOptimize(f, &conf)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}
	if err := writeOutline(ctx, bms); err != nil {
		return fmt.Errorf("adding bookmarks to %s: %w", out, err)
	}

	o, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer func() {
		if cerr := o.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", out, cerr)
		}
		if err != nil {
			os.Remove(out)
		}
	}()
	if err := api.WriteContext(ctx, o); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

// Merge concatenates the documents in order into out.
func (w *Writer) Merge(in []string, out string) error {
	if err := api.MergeCreateFile(in, out, false, w.conf); err != nil {
		return fmt.Errorf("merging into %s: %w", out, err)
	}
	return nil
}

// PageCount returns the number of pages in the document at path.
func (w *Writer) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return n, nil
}

// Outline reads the bookmark tree of the document at path. A document
// without bookmarks yields an empty tree.
func (w *Writer) Outline(path string) ([]pdfcpu.Bookmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	conf := *w.conf
	bms, err := api.Bookmarks(f, &conf)
	if err != nil {
		return nil, fmt.Errorf("reading bookmarks of %s: %w", path, err)
	}
	return bms, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
