// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline builds, validates and loads nested bookmark trees and
// turns model responses into outline lines.
package outline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidedeck/internal/title"
	"github.com/pdiddy/slidedeck/pkg/types"
)

var (
	// ErrPageOutOfRange is returned when a node points outside the document.
	ErrPageOutOfRange = errors.New("bookmark page out of range")

	// ErrEmptyTitle is returned when a node title has no usable characters.
	ErrEmptyTitle = errors.New("bookmark title is empty")
)

const pathSep = " > "

// Validate checks that every node in the tree has a usable title and a page
// within [1, pageCount]. The returned error names the offending node by its
// path from the root.
func Validate(nodes []types.ChapterNode, pageCount int) error {
	return validate(nodes, pageCount, "")
}

func validate(nodes []types.ChapterNode, pageCount int, parent string) error {
	for i, n := range nodes {
		path := n.Title
		if parent != "" {
			path = parent + pathSep + n.Title
		}
		if !title.Valid(n.Title) {
			return fmt.Errorf("node %d under %q: %w", i+1, parent, ErrEmptyTitle)
		}
		if n.Page < 1 || n.Page > pageCount {
			return fmt.Errorf("%q: page %d not in [1, %d]: %w", path, n.Page, pageCount, ErrPageOutOfRange)
		}
		if err := validate(n.Children, pageCount, path); err != nil {
			return err
		}
	}
	return nil
}

// Attach validates nodes against pageCount and converts them into the
// bookmark tree consumed by the PDF writer. Siblings keep their input order;
// nothing is reordered or deduplicated.
func Attach(nodes []types.ChapterNode, pageCount int) ([]pdfcpu.Bookmark, error) {
	if err := Validate(nodes, pageCount); err != nil {
		return nil, err
	}
	return attach(nodes, nil), nil
}

// attach converts one sibling list; parent is the bookmark the list hangs
// under, nil at the document root.
func attach(nodes []types.ChapterNode, parent *pdfcpu.Bookmark) []pdfcpu.Bookmark {
	if len(nodes) == 0 {
		return nil
	}
	bms := make([]pdfcpu.Bookmark, len(nodes))
	for i, n := range nodes {
		bms[i] = pdfcpu.Bookmark{
			Title:    n.Title,
			PageFrom: n.Page,
			Parent:   parent,
		}
		bms[i].Kids = attach(n.Children, &bms[i])
	}
	return bms
}

// FromBookmarks converts a bookmark tree read back from a PDF.
func FromBookmarks(bms []pdfcpu.Bookmark) []types.ChapterNode {
	if len(bms) == 0 {
		return nil
	}
	nodes := make([]types.ChapterNode, len(bms))
	for i, bm := range bms {
		nodes[i] = types.ChapterNode{
			Title:    bm.Title,
			Page:     bm.PageFrom,
			Children: FromBookmarks(bm.Kids),
		}
	}
	return nodes
}

// Load reads a chapter tree from a YAML or JSON file.
func Load(path string) ([]types.ChapterNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chapters %s: %w", path, err)
	}
	var nodes []types.ChapterNode
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parsing chapters %s: %w", path, err)
	}
	return nodes, nil
}

// Render writes the tree to w, one node per line, indented two spaces per
// level.
func Render(w io.Writer, nodes []types.ChapterNode) {
	render(w, nodes, 0)
}

func render(w io.Writer, nodes []types.ChapterNode, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s (p. %d)\n", strings.Repeat("  ", depth), n.Title, n.Page)
		render(w, n.Children, depth+1)
	}
}

var bulletRe = regexp.MustCompile(`^\s*[-*•]\s+(.+)$`)

// ParseBullets extracts the text of every line that starts with a bullet
// marker (-, * or •). When no line does, it returns the lines of the trimmed
// text unchanged.
func ParseBullets(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	var bullets []string
	for _, line := range lines {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			bullets = append(bullets, strings.TrimSpace(m[1]))
		}
	}
	if len(bullets) > 0 {
		return bullets
	}
	return lines
}
