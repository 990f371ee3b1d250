package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gastos/internal/core"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show income, expense and balance totals",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "by-person",
		Short: "Totals per person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.reports.PersonReport(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tPERSON\tINCOME\tEXPENSE\tBALANCE\t")
			for _, item := range report.Items {
				writeTotalsRow(w, item.Person.ID, item.Person.Name, item.Totals)
			}
			writeGrandTotals(w, report.GrandTotals)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "by-category",
		Short: "Totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.reports.CategoryReport(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tCATEGORY\tINCOME\tEXPENSE\tBALANCE\t")
			for _, item := range report.Items {
				writeTotalsRow(w, item.Category.ID, item.Category.Description, item.Totals)
			}
			writeGrandTotals(w, report.GrandTotals)
			return nil
		},
	})

	return cmd
}

func writeTotalsRow(w io.Writer, id int64, label string, t core.Totals) {
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n", id, label, t.TotalIncome, t.TotalExpense, t.Balance)
}

func writeGrandTotals(w io.Writer, g core.GrandTotals) {
	fmt.Fprintf(w, "\tTOTAL\t%s\t%s\t%s\t\n", g.GrandIncome, g.GrandExpense, g.NetBalance)
}
