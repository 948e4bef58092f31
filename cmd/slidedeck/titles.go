// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var titlesCmd = &cobra.Command{
	Use:   "titles <image-dir>",
	Short: "Extract slide titles from images with a vision model",
	Long: `Titles sends every jpg, jpeg and png image in the directory, in filename
order, to the vision model and asks for the slide title. Titles are cleaned
into bookmark-safe labels and written inside the directory as a numbered list
(slide_titles.txt by default), ready to be curated into a chapters file.

A failed model call stops the batch. Answers are cached per image, so
running the command again resumes where it stopped.`,
	Args: cobra.ExactArgs(1),
	RunE: runTitles,
}

func init() {
	addVisionFlags(titlesCmd)
	titlesCmd.Flags().Duration("delay", 0, "pause between model calls (default 1.2s)")
	titlesCmd.Flags().String("output", "", "title list filename inside the image directory (default slide_titles.txt)")

	rootCmd.AddCommand(titlesCmd)
}

func runTitles(cmd *cobra.Command, args []string) error {
	ex, closeCache, err := newExtractor(cmd)
	if err != nil {
		return err
	}
	defer closeCache()

	batch, err := ex.ExtractTitles(cmd.Context(), args[0])
	if err != nil {
		if len(batch.Results) > 0 {
			appLog.Warn("title extraction stopped early", "completed", len(batch.Results))
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "All titles extracted and saved to %s.\n", batch.File)
	return nil
}
