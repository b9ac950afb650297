package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show income, spending, and the category breakdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			snap := eng.Snapshot()

			fmt.Printf("Income:      $%s\n", snap.Summary.Income)
			fmt.Printf("Total spent: $%s\n", snap.Summary.TotalSpent)
			fmt.Printf("Remaining:   $%s\n", snap.Summary.Remaining)

			if len(snap.Breakdown) == 0 {
				return nil
			}

			// Breakdown order is unspecified; sort by total descending for
			// display.
			entries := snap.Breakdown
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Total.GreaterThan(entries[j].Total)
			})

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tSPENT")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t$%s\n", entry.Name, entry.Total)
			}
			return w.Flush()
		},
	}
}

func suggestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggestions",
		Short: "Show budget suggestions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			suggestions := eng.Suggestions()
			if len(suggestions) == 0 {
				fmt.Println("No suggestions. Looking good.")
				return nil
			}
			for _, s := range suggestions {
				fmt.Println(s)
			}
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute spent totals from the transaction history",
		Long: `Recompute every category's spent total directly from the transaction
collection and repair any drift. Normally a no-op; useful after restoring a
database or interrupting an import.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			repaired, err := eng.Reconcile(cmd.Context())
			if err != nil {
				return err
			}

			if repaired == 0 {
				fmt.Println("All spent totals consistent.")
			} else {
				fmt.Printf("Repaired %d drifted spent totals.\n", repaired)
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Println("Database schema up to date.")
			return nil
		},
	}
}
