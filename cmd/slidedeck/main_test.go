// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidedeck/pkg/types"
)

// execute runs the CLI with args and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSlides(t *testing.T, dir string, n int) {
	t.Helper()
	for i := range n {
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%02d.png", i+1)))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 32, 18))))
		require.NoError(t, f.Close())
	}
}

func TestComposeBookmarksMerge(t *testing.T) {
	slides := t.TempDir()
	writeSlides(t, slides, 3)

	chapters := filepath.Join(t.TempDir(), "chapters.yaml")
	require.NoError(t, os.WriteFile(chapters, []byte(`- title: 前言
  page: 1
- title: 方法
  page: 2
  children:
    - title: 數據收集
      page: 3
`), 0o644))

	out, err := execute(t, "compose", slides, "--chapters", chapters, "--output", "deck.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "page 3: 03.png")
	deck := filepath.Join(slides, "deck.pdf")
	require.FileExists(t, deck)

	out, err = execute(t, "bookmarks", deck, "--yaml")
	require.NoError(t, err)
	var nodes []types.ChapterNode
	require.NoError(t, yaml.Unmarshal([]byte(out), &nodes))
	assert.Equal(t, []types.ChapterNode{
		{Title: "前言", Page: 1},
		{Title: "方法", Page: 2, Children: []types.ChapterNode{{Title: "數據收集", Page: 3}}},
	}, nodes)

	combined := filepath.Join(t.TempDir(), "book.pdf")
	out, err = execute(t, "merge", "Part One=deck.pdf", "Part Two=deck.pdf",
		"--input-dir", slides, "--output", combined)
	require.NoError(t, err)
	assert.Contains(t, out, "page 4: Part Two")

	out, err = execute(t, "bookmarks", combined, "--yaml=false")
	require.NoError(t, err)
	assert.Contains(t, out, "6 pages")
	assert.Contains(t, out, "Part One (p. 1)\nPart Two (p. 4)\n")
}

func TestComposeEmptyDirectoryFails(t *testing.T) {
	_, err := execute(t, "compose", t.TempDir(), "--chapters", "")
	assert.ErrorContains(t, err, "no images found")
}

func TestMergeRequiresChapters(t *testing.T) {
	_, err := execute(t, "merge", "--manifest", "")
	assert.ErrorContains(t, err, "Title=file.pdf")
}

func TestTitlesRequiresCredential(t *testing.T) {
	t.Setenv("SLIDEDECK_TEST_MISSING_KEY", "")
	_, err := execute(t, "titles", t.TempDir(), "--api-key-env", "SLIDEDECK_TEST_MISSING_KEY", "--no-cache")
	assert.ErrorContains(t, err, "missing API credential")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "slidedeck dev\n", out)
}

// failingModelServer answers every chat completion with a server error.
func failingModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"upstream unavailable"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestOutlineRecoversFromModelFailure(t *testing.T) {
	ts := failingModelServer(t)
	t.Setenv("SLIDEDECK_TEST_KEY", "sk-test")

	dir := t.TempDir()
	writeSlides(t, dir, 1)
	slide := filepath.Join(dir, "01.png")

	tests := []struct {
		name    string
		strict  string
		wantErr bool
		wantOut string
	}{
		{name: "default recovers", strict: "--strict=false", wantOut: "no outline available\n"},
		{name: "strict fails", strict: "--strict=true", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "outline", slide,
				"--base-url", ts.URL+"/v1",
				"--api-key-env", "SLIDEDECK_TEST_KEY",
				"--no-cache",
				tt.strict,
			)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, "01.png")
				assert.NotContains(t, out, "no outline available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}
