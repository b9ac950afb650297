package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/findeep/findeep/internal/importer"
	"github.com/findeep/findeep/internal/model"
	"github.com/findeep/findeep/internal/tracker"
)

const dateLayout = "2006-01-02"

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txRemoveCmd())
	cmd.AddCommand(txImportCmd())

	return cmd
}

func txAddCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add <description> <amount> <category>",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := tracker.Draft{
				Description: args[0],
				Amount:      args[1],
				Category:    args[2],
			}
			if date != "" {
				parsed, err := time.ParseInLocation(dateLayout, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", date, err)
				}
				draft.Date = parsed
			}

			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			txn, err := eng.AddTransaction(cmd.Context(), draft)
			if err != nil {
				return err
			}

			fmt.Printf("Added %s: $%s against %s (%s)\n",
				txn.Description, txn.Amount, txn.Category, txn.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")

	return cmd
}

func txListCmd() *cobra.Command {
	var category string
	var rangeName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, filtered by category and date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			eng.SetCategoryFilter(category)
			eng.SetDateRange(model.DateRange(rangeName))

			txns := eng.Snapshot().Transactions
			if len(txns) == 0 {
				fmt.Println("No transactions match.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tDESCRIPTION\tCATEGORY\tAMOUNT\tID")
			for _, txn := range txns {
				fmt.Fprintf(w, "%s\t%s\t%s\t$%s\t%s\n",
					txn.Date.Format(dateLayout), txn.Description, txn.Category, txn.Amount, txn.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", model.CategoryAll, "category name filter")
	cmd.Flags().StringVar(&rangeName, "range", string(model.RangeMonth), "date range (week, month, year, all)")

	return cmd
}

func txEditCmd() *cobra.Command {
	var description string
	var amount string
	var category string
	var date string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			eng.SetCategoryFilter(model.CategoryAll)
			eng.SetDateRange(model.RangeAll)

			var current *model.Transaction
			for _, txn := range eng.Snapshot().Transactions {
				if txn.ID == args[0] {
					current = &txn
					break
				}
			}
			if current == nil {
				return fmt.Errorf("no transaction with id %q", args[0])
			}

			updated := *current
			if description != "" {
				updated.Description = description
			}
			if amount != "" {
				updated.Amount = tracker.ParseAmount(amount)
			}
			if category != "" {
				updated.Category = category
			}
			if date != "" {
				parsed, err := time.ParseInLocation(dateLayout, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", date, err)
				}
				updated.Date = parsed
			}

			if err := eng.EditTransaction(cmd.Context(), updated); err != nil {
				return err
			}

			fmt.Printf("Updated %s\n", updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&category, "category", "", "new category name")
	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")

	return cmd
}

func txRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Removed %s\n", args[0])
			return nil
		},
	}
}

func txImportCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import transactions from an OFX/QFX bank statement",
		Long: `Import transactions from an OFX or QFX statement. Each statement line
becomes a transaction in the given category; refunds import as negative
amounts and reduce the category's spent total.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer file.Close()

			entries, err := importer.NewParser().Parse(file)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Statement contains no transactions.")
				return nil
			}

			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			bar := progressbar.Default(int64(len(entries)), "importing")
			imported := 0
			for _, entry := range entries {
				_, err := eng.AddTransaction(cmd.Context(), tracker.Draft{
					Date:        entry.Date,
					Description: entry.Description,
					Amount:      entry.Amount.String(),
					Category:    category,
				})
				if err != nil {
					_ = bar.Finish()
					return fmt.Errorf("import stopped after %d transactions: %w", imported, err)
				}
				imported++
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			fmt.Printf("Imported %d transactions into %s\n", imported, category)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category to import into (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
