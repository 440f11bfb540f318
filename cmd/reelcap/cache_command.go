package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"reelcap/internal/artifactcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage cached conversions and transcripts",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}

			entries := cache.List()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					shortDigest(entry.SHA256),
					entry.Source,
					yesNo(entry.MonoPath != ""),
					transcriptVariants(entry),
					entry.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Digest", "Source", "Mono", "Transcripts", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <digest>",
		Short: "Remove one cached entry by digest prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}

			prefix := strings.ToLower(strings.TrimSpace(args[0]))
			if prefix == "" {
				return fmt.Errorf("digest prefix required")
			}

			var matches []string
			for _, entry := range cache.List() {
				if strings.HasPrefix(entry.SHA256, prefix) {
					matches = append(matches, entry.SHA256)
				}
			}
			switch len(matches) {
			case 0:
				return fmt.Errorf("no cache entry matches digest prefix %q", prefix)
			case 1:
				if err := cache.Remove(matches[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed cache entry %s\n", shortDigest(matches[0]))
				return nil
			default:
				return fmt.Errorf("digest prefix %q is ambiguous (%d matches)", prefix, len(matches))
			}
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop cache references whose files no longer exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			changed, err := cache.Prune()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cache entries\n", changed)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			count := cache.Count()
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cache entries\n", count)
			return nil
		},
	}
}

func transcriptVariants(entry artifactcache.Entry) string {
	if len(entry.Transcripts) == 0 {
		return "-"
	}
	variants := make([]string, 0, len(entry.Transcripts))
	for variant := range entry.Transcripts {
		variants = append(variants, variant)
	}
	sort.Strings(variants)
	return strings.Join(variants, ", ")
}

func shortDigest(sha string) string {
	if len(sha) > 16 {
		return sha[:16]
	}
	return sha
}
