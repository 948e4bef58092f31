// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/slidedeck/internal/outline"
	"github.com/pdiddy/slidedeck/internal/pdfdoc"
	"github.com/pdiddy/slidedeck/pkg/types"
)

// recordingWriter implements PDFWriter without pdfcpu. It records the width
// of every page image it is given and writes a placeholder file.
type recordingWriter struct {
	widths     []int
	bookmarks  []pdfcpu.Bookmark
	pageCount  int // overrides the reported page count when > 0
	importErr  error
	outlineErr error
}

func (r *recordingWriter) ImportImages(images []string, out string) error {
	if r.importErr != nil {
		return r.importErr
	}
	for _, p := range images {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			return err
		}
		r.widths = append(r.widths, cfg.Width)
	}
	return os.WriteFile(out, []byte("%PDF-fake"), 0o644)
}

func (r *recordingWriter) AddOutline(in, out string, bms []pdfcpu.Bookmark) error {
	if r.outlineErr != nil {
		return r.outlineErr
	}
	r.bookmarks = bms
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

func (r *recordingWriter) PageCount(string) (int, error) {
	if r.pageCount > 0 {
		return r.pageCount, nil
	}
	return len(r.widths), nil
}

// writeSlides writes one PNG per name into dir. The i-th image is 10*(i+1)
// pixels wide so page order can be checked from image widths.
func writeSlides(t *testing.T, dir string, names ...string) {
	t.Helper()
	for i, name := range names {
		img := image.NewNRGBA(image.Rect(0, 0, 10*(i+1), 20))
		img.Set(0, 0, color.NRGBA{G: 200, A: 128})
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
}

func slideNames(n int) []string {
	names := make([]string, n)
	for i := range n {
		names[i] = fmt.Sprintf("%d.png", i+1)
	}
	return names
}

func TestComposePageOrder(t *testing.T) {
	dir := t.TempDir()
	writeSlides(t, dir, slideNames(9)...)

	rw := &recordingWriter{}
	var log bytes.Buffer
	res, err := Compose(rw, types.ComposeConfig{ImageDir: dir, Output: "deck.pdf"}, nil, &log)
	require.NoError(t, err)

	assert.Equal(t, 9, res.Pages)
	assert.Equal(t, filepath.Join(dir, "deck.pdf"), res.Output)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90}, rw.widths)
	assert.Contains(t, log.String(), "page 1: 1.png (10x20)")
	assert.Contains(t, log.String(), "page 9: 9.png (90x20)")
	assert.FileExists(t, res.Output)
}

func TestComposeLexicographicOrder(t *testing.T) {
	dir := t.TempDir()
	// Written in this order, listed as 01, 02, 10.
	writeSlides(t, dir, "10.png", "01.png", "02.jpg.png")

	rw := &recordingWriter{}
	_, err := Compose(rw, types.ComposeConfig{ImageDir: dir}, nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []int{20, 30, 10}, rw.widths)
}

func TestComposeEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("no slides"), 0o644))

	_, err := Compose(&recordingWriter{}, types.ComposeConfig{ImageDir: dir}, nil, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrNoImages)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no output or work directory may be left behind")
	assert.NoFileExists(t, filepath.Join(dir, types.DefaultComposeOut))
}

func TestComposeRejectsOutOfRangeChapters(t *testing.T) {
	dir := t.TempDir()
	writeSlides(t, dir, slideNames(2)...)

	chapters := []types.ChapterNode{{Title: "Intro", Page: 1}, {Title: "Later", Page: 3}}
	rw := &recordingWriter{}
	_, err := Compose(rw, types.ComposeConfig{ImageDir: dir}, chapters, &bytes.Buffer{})
	require.ErrorIs(t, err, outline.ErrPageOutOfRange)
	assert.Empty(t, rw.widths, "nothing should be imported")
	assert.NoFileExists(t, filepath.Join(dir, types.DefaultComposeOut))
}

func TestComposeCleansUpOnWriterFailure(t *testing.T) {
	tests := []struct {
		name string
		rw   *recordingWriter
		msg  string
	}{
		{name: "import fails", rw: &recordingWriter{importErr: errors.New("disk full")}, msg: "disk full"},
		{name: "outline fails", rw: &recordingWriter{outlineErr: errors.New("bad outline")}, msg: "bad outline"},
		{name: "page count mismatch", rw: &recordingWriter{pageCount: 7}, msg: "composed 7 pages from 3 images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSlides(t, dir, slideNames(3)...)

			_, err := Compose(tt.rw, types.ComposeConfig{ImageDir: dir}, nil, &bytes.Buffer{})
			require.ErrorContains(t, err, tt.msg)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			for _, e := range entries {
				assert.False(t, e.IsDir(), "work directory %s left behind", e.Name())
			}
			assert.NoFileExists(t, filepath.Join(dir, types.DefaultComposeOut))
		})
	}
}

func TestComposeWithPDFWriter(t *testing.T) {
	dir := t.TempDir()
	writeSlides(t, dir, slideNames(3)...)

	chapters := []types.ChapterNode{
		{Title: "A", Page: 1, Children: []types.ChapterNode{{Title: "A.1", Page: 2}}},
		{Title: "B", Page: 3},
	}
	doc := pdfdoc.New()
	res, err := Compose(doc, types.ComposeConfig{ImageDir: dir}, chapters, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 3, res.Bookmarks)

	n, err := doc.PageCount(res.Output)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	bms, err := doc.Outline(res.Output)
	require.NoError(t, err)
	assert.Equal(t, chapters, outline.FromBookmarks(bms))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, e.IsDir(), "work directory %s left behind", e.Name())
	}
}

func TestComposeKeepsChapterOrderWithPDFWriter(t *testing.T) {
	tests := []struct {
		name     string
		chapters []types.ChapterNode
	}{
		{
			name:     "later sibling on an earlier page",
			chapters: []types.ChapterNode{{Title: "Summary", Page: 3}, {Title: "Intro", Page: 1}},
		},
		{
			name: "child before its parent",
			chapters: []types.ChapterNode{
				{Title: "Appendix", Page: 3, Children: []types.ChapterNode{{Title: "Recap", Page: 1}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSlides(t, dir, slideNames(3)...)

			doc := pdfdoc.New()
			res, err := Compose(doc, types.ComposeConfig{ImageDir: dir}, tt.chapters, &bytes.Buffer{})
			require.NoError(t, err)

			bms, err := doc.Outline(res.Output)
			require.NoError(t, err)
			assert.Equal(t, tt.chapters, outline.FromBookmarks(bms))
		})
	}
}
