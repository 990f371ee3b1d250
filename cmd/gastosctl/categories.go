package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gastos/internal/core"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := a.categories.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories found. Use 'gastosctl categories add' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tDESCRIPTION\tPURPOSE")
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Description, c.Purpose)
			}
			return nil
		},
	})

	var purpose string
	add := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := core.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			c, err := a.categories.Create(cmd.Context(), core.CreateCategoryRequest{Description: args[0], Purpose: p})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %d (%s, %s)\n", c.ID, c.Description, c.Purpose)
			return nil
		},
	}
	add.Flags().StringVarP(&purpose, "purpose", "p", "both", "expense, income or both")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category that no transaction uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.categories.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %d\n", id)
			return nil
		},
	})

	return cmd
}
