package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"warscout/internal/records"
)

func newPlayersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "players",
		Aliases: []string{"player"},
		Short:   "Inspect and maintain recorded players",
	}
	cmd.AddCommand(newPlayersListCommand(ctx))
	cmd.AddCommand(newPlayersShowCommand(ctx))
	cmd.AddCommand(newPlayersRenameCommand(ctx))
	cmd.AddCommand(newPlayersDeleteCommand(ctx))
	return cmd
}

func newPlayersListCommand(ctx *commandContext) *cobra.Command {
	var (
		search string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players, most recently seen first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *records.Store) error {
				players, err := store.Players(cmd.Context(), search)
				if err != nil {
					return err
				}
				if asJSON {
					if players == nil {
						players = []records.PlayerSummary{}
					}
					return writeJSON(cmd, players)
				}
				out := cmd.OutOrStdout()
				if len(players) == 0 {
					fmt.Fprintln(out, "No players found")
					return nil
				}
				fmt.Fprintln(out, renderPlayerTable(players))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show names containing this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newPlayersShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a player's recorded teams, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *records.Store) error {
				known, err := store.HasPlayer(cmd.Context(), name)
				if err != nil {
					return err
				}
				if !known {
					return fmt.Errorf("player %q not found", name)
				}
				recs, err := store.RecordsFor(cmd.Context(), name)
				if err != nil {
					return err
				}
				trusted, err := store.IsTrusted(cmd.Context(), name)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, struct {
						Name    string
						Trusted bool
						Records []*records.TeamRecord
					}{name, trusted, recs})
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader(name, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "Trusted: %s\n", yesNo(trusted))
				if len(recs) == 0 {
					fmt.Fprintln(out, "No records")
					return nil
				}
				fmt.Fprintln(out, renderRecordTable(recs))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newPlayersRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a player and move its records",
		Long: "Rename a player. Records move to the new name and keep their hashes.\n" +
			"Renaming onto an existing player merges the two.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldName, newName := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			return ctx.withStore(func(store *records.Store) error {
				known, err := store.HasPlayer(cmd.Context(), oldName)
				if err != nil {
					return err
				}
				if !known {
					return fmt.Errorf("player %q not found", oldName)
				}
				if err := store.Rename(cmd.Context(), oldName, newName); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", oldName, newName)
				return nil
			})
		},
	}
}

func newPlayersDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a player and all of its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *records.Store) error {
				recs, err := store.RecordsFor(cmd.Context(), name)
				if err != nil {
					return err
				}
				if !yes && !confirm(cmd, fmt.Sprintf("Delete %s and %d record(s)?", name, len(recs))) {
					return errors.New("aborted")
				}
				removed, err := store.DeletePlayer(cmd.Context(), name)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("player %q not found", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d record(s))\n", name, len(recs))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
