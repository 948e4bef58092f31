// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidedeck/internal/vision"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <image>",
	Short: "Extract the agenda or outline shown on one slide",
	Long: `Outline asks the vision model for the agenda, table of contents or outline
on a single slide and prints it one item per line.

If the model call fails the error is logged and "no outline available" is
printed; pass --strict to fail instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	addVisionFlags(outlineCmd)
	outlineCmd.Flags().Bool("strict", false, "exit with an error when the model call fails")

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	ex, closeCache, err := newExtractor(cmd)
	if err != nil {
		return err
	}
	defer closeCache()

	out := cmd.OutOrStdout()
	items, err := ex.ExtractOutline(cmd.Context(), args[0])
	var callErr *vision.CallError
	if errors.As(err, &callErr) {
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			return err
		}
		appLog.Error("outline extraction failed", "image", callErr.Image, "error", callErr.Err)
		fmt.Fprintln(out, "no outline available")
		return nil
	}
	if err != nil {
		return err
	}

	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
	return nil
}
