package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/findeep/findeep/internal/model"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage income and allocations",
	}

	cmd.AddCommand(budgetShowCmd())
	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetAllocateCmd())

	return cmd
}

func budgetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			snap := eng.Snapshot()
			budget := eng.Budget()

			fmt.Printf("Income:    $%s per %s\n", budget.Income, budget.PayPeriod)
			fmt.Printf("Remaining: $%s unallocated\n", snap.Remaining)
			fmt.Println()

			for _, cat := range snap.Categories {
				fmt.Printf("  %-20s allocated $%-10s spent $%s\n", cat.Name, cat.Allocated, cat.Spent)
			}
			return nil
		},
	}
}

func budgetSetCmd() *cobra.Command {
	var income string
	var period string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set income and pay period",
		Long: `Set the income amount and pay period, then save the budget. Both values
are staged together and written in one save; if the save fails the previous
budget stays in effect.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if income != "" {
				eng.StageIncome(income)
			}
			if period != "" {
				if err := eng.StagePayPeriod(model.PayPeriod(period)); err != nil {
					return err
				}
			}

			if err := eng.CommitBudget(cmd.Context()); err != nil {
				return err
			}

			fmt.Println("Budget saved.")
			for _, s := range eng.Suggestions() {
				fmt.Printf("  %s\n", s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&income, "income", "", "income amount in whole dollars")
	cmd.Flags().StringVar(&period, "period", "", "pay period (monthly, biweekly)")

	return cmd
}

func budgetAllocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allocate <category> <amount>",
		Short: "Allocate an amount to a category",
		Args:  cobra.ExactArgs(2),
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

			if err := eng.SetAllocation(cmd.Context(), cat.ID, args[1]); err != nil {
				return err
			}

			fmt.Printf("Allocated to %s. Remaining: $%s\n", cat.Name, eng.Remaining())
			for _, s := range eng.Suggestions() {
				fmt.Printf("  %s\n", s)
			}
			return nil
		},
	}
}
