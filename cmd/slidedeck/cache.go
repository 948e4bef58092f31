// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidedeck/internal/titlecache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the vision response cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached model responses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCacheStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Entries()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "IMAGE\tKIND\tMODEL\tCREATED\tRESPONSE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Image, e.Kind, e.Model,
				e.CreatedAt.Format("2006-01-02 15:04"), firstLine(e.Raw))
		}
		return tw.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached model response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCacheStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached responses\n", n)
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().String("cache", "", "response cache database (default <user cache dir>/slidedeck/cache.db)")
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}

func openCacheStore(cmd *cobra.Command) (*titlecache.Store, error) {
	path := stringSetting(cmd, "cache", "cache.path")
	if path == "" {
		p, err := titlecache.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return titlecache.Open(path)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}
