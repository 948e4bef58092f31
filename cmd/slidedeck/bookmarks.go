// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidedeck/internal/outline"
	"github.com/pdiddy/slidedeck/internal/pdfdoc"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks <pdf>",
	Short: "Print the bookmark outline of a PDF",
	Long: `Bookmarks prints the outline of a PDF as an indented tree. With --yaml it
prints a chapters file that compose accepts, which makes it easy to copy an
outline from one document to another.`,
	Args: cobra.ExactArgs(1),
	RunE: runBookmarks,
}

func init() {
	bookmarksCmd.Flags().Bool("yaml", false, "print the outline as a chapters file")

	rootCmd.AddCommand(bookmarksCmd)
}

func runBookmarks(cmd *cobra.Command, args []string) error {
	doc := pdfdoc.New()
	pages, err := doc.PageCount(args[0])
	if err != nil {
		return err
	}
	bms, err := doc.Outline(args[0])
	if err != nil {
		return err
	}
	nodes := outline.FromBookmarks(bms)

	out := cmd.OutOrStdout()
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		data, err := yaml.Marshal(nodes)
		if err != nil {
			return fmt.Errorf("encoding outline: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintf(out, "%s: %d pages\n", args[0], pages)
	if len(nodes) == 0 {
		fmt.Fprintln(out, "no bookmarks")
		return nil
	}
	outline.Render(out, nodes)
	return nil
}
