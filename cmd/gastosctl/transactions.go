package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gastos/internal/core"
)

func transactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"transaction", "tx"},
		Short:   "Record, list and delete transactions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := a.transactions.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(txs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tDESCRIPTION\tKIND\tAMOUNT\tPERSON\tCATEGORY")
			for _, t := range txs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Description, t.Kind, t.Amount, t.Person.Name, t.Category.Description)
			}
			return nil
		},
	})

	var (
		kind       string
		personID   int64
		categoryID int64
	)
	add := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseMoney(args[1])
			if err != nil {
				return err
			}
			k, err := core.ParseKind(kind)
			if err != nil {
				return err
			}
			summary, err := a.transactions.Create(cmd.Context(), core.CreateTransactionRequest{
				Description: args[0],
				Amount:      amount,
				Kind:        k,
				PersonID:    personID,
				CategoryID:  categoryID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %d: %s %s (%s, %s)\n",
				summary.Kind, summary.ID, summary.Description, summary.Amount,
				summary.Person.Name, summary.Category.Description)
			return nil
		},
	}
	add.Flags().StringVarP(&kind, "kind", "k", "expense", "expense or income")
	add.Flags().Int64Var(&personID, "person", 0, "person id")
	add.Flags().Int64Var(&categoryID, "category", 0, "category id")
	_ = add.MarkFlagRequired("person")
	_ = add.MarkFlagRequired("category")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.transactions.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return nil
		},
	})

	return cmd
}
