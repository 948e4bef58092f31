// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidedeck/pkg/types"
)

// LoadEntries reads a merge manifest: a YAML or JSON list of
// {title, file} objects.
func LoadEntries(path string) ([]types.ChapterEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var entries []types.ChapterEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	for i, e := range entries {
		if e.File == "" {
			return nil, fmt.Errorf("manifest %s: entry %d has no file", path, i+1)
		}
	}
	return entries, nil
}

// ParseEntry parses a "Title=file.pdf" argument. The title is everything
// before the first '='.
func ParseEntry(arg string) (types.ChapterEntry, error) {
	t, file, ok := strings.Cut(arg, "=")
	t, file = strings.TrimSpace(t), strings.TrimSpace(file)
	if !ok || t == "" || file == "" {
		return types.ChapterEntry{}, fmt.Errorf("invalid chapter %q: want Title=file.pdf", arg)
	}
	return types.ChapterEntry{Title: t, File: file}, nil
}
