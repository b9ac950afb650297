package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage spending categories",
	}

	cmd.AddCommand(categoryListCmd())
	cmd.AddCommand(categoryAddCmd())
	cmd.AddCommand(categoryMoveCmd())
	cmd.AddCommand(categoryRemoveCmd())

	return cmd
}

func categoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cats := eng.Snapshot().Categories
			if len(cats) == 0 {
				fmt.Println("No categories.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tTYPE\tALLOCATED\tSPENT\tID")
			for i, cat := range cats {
				fmt.Fprintf(w, "%d\t%s\t%s\t$%s\t$%s\t%s\n",
					i, cat.Name, cat.Type, cat.Allocated, cat.Spent, cat.ID)
			}
			return w.Flush()
		},
	}
}

func categoryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := eng.AddCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Added category %q (%s)\n", cat.Name, cat.ID)
			return nil
		},
	}
}

func categoryMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <category> <position>",
		Short: "Move a category to a new position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newIndex, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("position must be a number: %w", err)
			}

			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cat, ok := findCategory(eng.Snapshot().Categories, args[0])
			if !ok {
				return fmt.Errorf("no category named %q", args[0])
			}

			if err := eng.ReorderCategory(cmd.Context(), cat.ID, newIndex); err != nil {
				return err
			}

			fmt.Printf("Moved %q to position %d\n", cat.Name, newIndex)
			return nil
		},
	}
}

func categoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <category>",
		Short: "Remove a category",
		Long: `Remove a category. Transactions recorded against it are kept and show
up as Uncategorized in the breakdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cat, ok := findCategory(eng.Snapshot().Categories, args[0])
			if !ok {
				return fmt.Errorf("no category named %q", args[0])
			}

			if err := eng.RemoveCategory(cmd.Context(), cat.ID); err != nil {
				return err
			}

			fmt.Printf("Removed category %q\n", cat.Name)
			return nil
		},
	}
}
