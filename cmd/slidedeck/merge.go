// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidedeck/internal/merge"
	"github.com/pdiddy/slidedeck/internal/outline"
	"github.com/pdiddy/slidedeck/internal/pdfdoc"
	"github.com/pdiddy/slidedeck/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [Title=file.pdf ...]",
	Short: "Merge chapter PDFs with one bookmark per chapter",
	Long: `Merge concatenates PDFs in the given order and adds a top-level bookmark at
the first page of each one. Chapters come from Title=file.pdf arguments, from
a manifest file, or both (manifest first):

  - title: Introduction
    file: 01-intro.pdf
  - title: Results
    file: 02-results.pdf

Relative file names are resolved against --input-dir. A missing or unreadable
file aborts the merge.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("manifest", "", "manifest file (YAML or JSON) listing title and file per chapter")
	mergeCmd.Flags().String("input-dir", "", "directory the chapter files are relative to (default current directory)")
	mergeCmd.Flags().String("output", "", "combined PDF path (default combined.pdf)")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	var entries []types.ChapterEntry
	if path, _ := cmd.Flags().GetString("manifest"); path != "" {
		e, err := outline.LoadEntries(path)
		if err != nil {
			return err
		}
		entries = e
	}
	for _, arg := range args {
		e, err := outline.ParseEntry(arg)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return fmt.Errorf("provide chapters as Title=file.pdf arguments or with --manifest")
	}

	cfg := types.MergeConfig{
		InputDir: stringSetting(cmd, "input-dir", "merge.input_dir"),
		Output:   stringSetting(cmd, "output", "merge.output"),
	}

	res, err := merge.Merge(pdfdoc.New(), entries, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	appLog.Info("merged PDF saved", "output", res.Output, "pages", res.Pages, "chapters", len(res.Chapters))
	return nil
}
