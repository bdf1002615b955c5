package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/cinepoll/cinepoll/internal/movies"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the movie cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts per preference scope",
	RunE:  runCacheStats,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop entries released before the fallback window",
	Long: `Removes cached entries released before the fallback window start
(six months before the current month). Entries that old can no longer
appear in a poll.`,
	RunE: runCachePrune,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}

type scopeCount struct {
	scope movies.Scope
	count int
}

// scopeCounts aggregates entries per (language, country) pair, sorted for
// stable output.
func scopeCounts(entries []movies.Movie) []scopeCount {
	counts := make(map[movies.Scope]int)
	for _, m := range entries {
		counts[movies.Scope{Language: m.Language, Country: m.Country}]++
	}

	out := make([]scopeCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, scopeCount{scope: s, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].scope.Language != out[j].scope.Language {
			return out[i].scope.Language < out[j].scope.Language
		}
		return out[i].scope.Country < out[j].scope.Country
	})
	return out
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := movies.NewStore(cfg.Cache.Path, discardLogger())
	entries, err := store.Load()
	if err != nil {
		return fmt.Errorf("load cache: %w", err)
	}

	fmt.Printf("Cache:   %s\n", store.Path())
	fmt.Printf("Entries: %d\n", len(entries))
	if len(entries) == 0 {
		return nil
	}

	fmt.Println("\nBy scope:")
	for _, sc := range scopeCounts(entries) {
		fmt.Printf("  %s/%s  %d\n", sc.scope.Language, sc.scope.Country, sc.count)
	}
	return nil
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := movies.NewStore(cfg.Cache.Path, discardLogger())
	entries, err := store.Load()
	if err != nil {
		return fmt.Errorf("load cache: %w", err)
	}

	cutoff := movies.NewWindows(clockwork.NewRealClock()).Fallback().Start
	var kept []movies.Movie
	for _, m := range entries {
		if !m.Released.Before(cutoff) {
			kept = append(kept, m)
		}
	}

	removed := len(entries) - len(kept)
	if removed == 0 {
		fmt.Println("Nothing to prune")
		return nil
	}

	if err := store.Save(kept); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	fmt.Printf("Pruned %d of %d entries (released before %s)\n",
		removed, len(entries), cutoff.Format("2006-01-02"))
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
