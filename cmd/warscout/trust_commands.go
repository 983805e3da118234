package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"warscout/internal/records"
)

func newTrustCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Manage names accepted without reconciliation",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List trusted names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *records.Store) error {
				names, err := store.TrustList(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(names) == 0 {
					fmt.Fprintln(out, "Trust list is empty")
					return nil
				}
				rows := make([][]string, 0, len(names))
				for _, name := range names {
					rows = append(rows, []string{name})
				}
				fmt.Fprintln(out, renderTable([]string{"Name"}, rows, nil))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Trust a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *records.Store) error {
				if err := store.AddTrust(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Trusted %s\n", args[0])
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Stop trusting a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *records.Store) error {
				removed, err := store.RemoveTrust(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s was not trusted\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the trust list\n", args[0])
				return nil
			})
		},
	})
	return cmd
}
