package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/cinepoll/cinepoll/internal/migrations"
	"github.com/cinepoll/cinepoll/internal/poll"
)

var pollsLimit int

var pollsCmd = &cobra.Command{
	Use:   "polls",
	Short: "Inspect stored polls",
}

var pollsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List polls, newest first",
	RunE:  runPollsList,
}

var pollsResultsCmd = &cobra.Command{
	Use:   "results <poll-id>",
	Short: "Show vote tallies for a poll",
	Args:  cobra.ExactArgs(1),
	RunE:  runPollsResults,
}

func init() {
	pollsListCmd.Flags().IntVar(&pollsLimit, "limit", 20, "Maximum number of polls to list")
	rootCmd.AddCommand(pollsCmd)
	pollsCmd.AddCommand(pollsListCmd)
	pollsCmd.AddCommand(pollsResultsCmd)
}

func openPollStore() (*poll.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("sqlite", cfg.Poll.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return poll.NewStore(db), func() { _ = db.Close() }, nil
}

func runPollsList(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openPollStore()
	if err != nil {
		return err
	}
	defer closeDB()

	polls, err := store.List(pollsLimit)
	if err != nil {
		return fmt.Errorf("list polls: %w", err)
	}

	if len(polls) == 0 {
		fmt.Println("No polls recorded")
		return nil
	}

	fmt.Printf("%-20s %-12s %-7s %-17s %s\n", "ID", "CHAT", "SCOPE", "CREATED", "STATUS")
	for _, p := range polls {
		status := "open"
		if p.ClosedAt != nil {
			status = "closed"
		}
		fmt.Printf("%-20s %-12d %-7s %-17s %s\n",
			p.ID, p.ChatID, p.Language+"/"+p.Country, p.CreatedAt.Format("2006-01-02 15:04"), status)
	}
	return nil
}

func runPollsResults(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openPollStore()
	if err != nil {
		return err
	}
	defer closeDB()

	p, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("poll %s: %w", args[0], err)
	}

	fmt.Printf("%s\n", p.Question)
	fmt.Printf("Chat %d, created %s", p.ChatID, p.CreatedAt.Format("2006-01-02 15:04"))
	if p.ClosedAt != nil {
		fmt.Printf(", closed %s", p.ClosedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println()

	for _, o := range p.Options {
		fmt.Printf("  %-40s %d\n", o.Label, o.Votes)
	}
	return nil
}
