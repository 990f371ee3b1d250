package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gastos/internal/core"
)

func personsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "persons",
		Aliases: []string{"person", "people"},
		Short:   "Manage people",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			persons, err := a.persons.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(persons) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No people found. Use 'gastosctl persons add' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tNAME\tAGE")
			for _, p := range persons {
				fmt.Fprintf(w, "%d\t%s\t%d\n", p.ID, p.Name, p.Age)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <age>",
		Short: "Add a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("age must be a number: %q", args[1])
			}
			p, err := a.persons.Create(cmd.Context(), core.CreatePersonRequest{Name: args[0], Age: age})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created person %d (%s, %d)\n", p.ID, p.Name, p.Age)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a person and all of their transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.persons.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted person %d\n", id)
			return nil
		},
	})

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer: %q", s)
	}
	return id, nil
}
