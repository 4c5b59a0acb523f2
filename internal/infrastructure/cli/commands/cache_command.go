package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/statusline-go/internal/app"
	"github.com/doeshing/statusline-go/internal/infrastructure/cache"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(lazy *app.Lazy) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached weather data",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(lazy),
		newCacheClearCommand(lazy),
		newCachePruneCommand(lazy),
	)

	return cacheCmd
}

// newCacheListCommand creates the 'cache list' subcommand
func newCacheListCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(cmd.Context(), lazy)
			if err != nil {
				return err
			}
			return listCacheEntries(cmd.OutOrStdout(), store, time.Now())
		},
	}
}

// newCacheClearCommand creates the 'cache clear' subcommand
func newCacheClearCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(cmd.Context(), lazy)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Dir())
			return nil
		},
	}
}

// newCachePruneCommand creates the 'cache prune' subcommand
func newCachePruneCommand(lazy *app.Lazy) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cache entries older than a duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be > 0")
			}
			store, err := cacheStore(cmd.Context(), lazy)
			if err != nil {
				return err
			}
			removed, err := store.Prune(olderThan)
			if err != nil {
				return fmt.Errorf("failed to prune cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries older than %s\n", removed, olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", DefaultPruneAge, "Remove entries not refreshed for this long")
	return cmd
}

func cacheStore(ctx context.Context, lazy *app.Lazy) (*cache.FileCache, error) {
	container, err := lazy.Get(ctx)
	if err != nil {
		return nil, err
	}
	if container.CacheStore == nil {
		return nil, errors.New(ErrCacheStoreUnavailable)
	}
	return container.CacheStore, nil
}

// listCacheEntries lists all cache entries with size and age
func listCacheEntries(out io.Writer, store *cache.FileCache, now time.Time) error {
	entries, err := store.Entries()
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedEntries)
		return nil
	}

	var total int64
	for _, entry := range entries {
		total += entry.Size
		fmt.Fprintf(out, "%s | %s | %s\n",
			entry.Key,
			humanize.Bytes(uint64(entry.Size)),
			humanize.RelTime(entry.ModTime, now, "ago", "from now"))
	}
	fmt.Fprintf(out, "%d entries, %s in %s\n", len(entries), humanize.Bytes(uint64(total)), store.Dir())

	return nil
}
