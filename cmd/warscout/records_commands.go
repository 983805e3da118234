package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"warscout/internal/records"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record"},
		Short:   "Edit or delete individual team records",
	}
	cmd.AddCommand(newRecordsEditCommand(ctx))
	cmd.AddCommand(newRecordsDeleteCommand(ctx))
	return cmd
}

func newRecordsEditCommand(ctx *commandContext) *cobra.Command {
	var (
		generals []string
		note     string
	)
	cmd := &cobra.Command{
		Use:   "edit <hash>",
		Short: "Correct the generals or note of a record",
		Long: "Correct a record. Each --general replaces one slot in order; unset slots keep\n" +
			"their value. The record hash does not change.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteSet := cmd.Flags().Changed("note")
			if len(generals) == 0 && !noteSet {
				return errors.New("nothing to change: pass --general or --note")
			}
			if len(generals) > records.TeamSize {
				return fmt.Errorf("at most %d generals", records.TeamSize)
			}
			return ctx.withStore(func(store *records.Store) error {
				hash, err := store.ExpandHash(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rec, err := store.Record(cmd.Context(), hash)
				if err != nil {
					return err
				}
				team := rec.Generals
				for i, g := range generals {
					if strings.TrimSpace(g) != "" {
						team[i] = strings.TrimSpace(g)
					}
				}
				if !noteSet {
					note = rec.Note
				}
				if err := store.Update(cmd.Context(), hash, team[:], note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", shortHash(hash), strings.Join(team[:], " | "))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVarP(&generals, "general", "g", nil, "General label (\"faction · name\"), repeat for each slot")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Free-form note")
	return cmd
}

func newRecordsDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <hash>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *records.Store) error {
				hash, err := store.ExpandHash(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rec, err := store.Record(cmd.Context(), hash)
				if err != nil {
					return err
				}
				prompt := fmt.Sprintf("Delete %s record %s (%s)?", rec.Player, shortHash(hash), strings.Join(rec.Generals[:], " | "))
				if !yes && !confirm(cmd, prompt) {
					return errors.New("aborted")
				}
				if _, err := store.DeleteRecord(cmd.Context(), hash); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %s\n", shortHash(hash))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
