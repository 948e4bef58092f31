// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/slidedeck/internal/compose"
	"github.com/pdiddy/slidedeck/internal/outline"
	"github.com/pdiddy/slidedeck/internal/pdfdoc"
	"github.com/pdiddy/slidedeck/pkg/types"
)

var composeCmd = &cobra.Command{
	Use:   "compose <image-dir>",
	Short: "Combine slide images into one PDF with nested bookmarks",
	Long: `Compose converts every jpg, jpeg and png image in the directory to RGB and
places them, one per page and in filename order, into a single PDF written
inside the directory. The optional chapters file (YAML or JSON) supplies the
bookmark tree:

  - title: Introduction
    page: 1
  - title: Methods
    page: 4
    children:
      - title: Data collection
        page: 5

Pages are 1-based. Every page must exist in the composed document.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().String("chapters", "", "chapters file (YAML or JSON) with the bookmark tree")
	composeCmd.Flags().String("output", "", "PDF filename inside the image directory (default output.pdf)")

	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	var chapters []types.ChapterNode
	if path, _ := cmd.Flags().GetString("chapters"); path != "" {
		c, err := outline.Load(path)
		if err != nil {
			return err
		}
		chapters = c
	}

	cfg := types.ComposeConfig{
		ImageDir: args[0],
		Output:   stringSetting(cmd, "output", "compose.output"),
	}

	res, err := compose.Compose(pdfdoc.New(), cfg, chapters, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	appLog.Info("PDF with nested bookmarks saved", "output", res.Output, "pages", res.Pages, "bookmarks", res.Bookmarks)
	return nil
}
