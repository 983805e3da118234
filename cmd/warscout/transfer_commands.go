package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"warscout/internal/config"
	"warscout/internal/fileutil"
	"warscout/internal/records"
	"warscout/internal/transfer"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var encoding string
	cmd := &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Export all records to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *records.Store) error {
				n, err := transfer.ExportFile(cmd.Context(), store, path, encoding)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", n, path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&encoding, "encoding", "e", transfer.EncodingUTF8, encodingFlagHelp())
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		encoding string
		noBackup bool
	)
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Merge records from CSV",
		Long: "Merge records from a CSV export. Existing records keep their first_seen and\n" +
			"take the imported note. Rows that cannot be read are skipped and reported.\n" +
			"The database is copied to warscout.db.<time>.bak first unless --no-backup is set.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if !noBackup {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				backup, err := fileutil.BackupFile(cfg.DatabasePath(), time.Now())
				if err != nil {
					return fmt.Errorf("back up database: %w", err)
				}
				if backup != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Backed up database to %s\n", backup)
				}
			}
			return ctx.withStore(func(store *records.Store) error {
				result, err := transfer.ImportFile(cmd.Context(), store, path, encoding)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d row(s), skipped %d\n", result.Imported, result.Skipped)
				for _, msg := range result.Errors {
					fmt.Fprintf(out, "  %s\n", msg)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&encoding, "encoding", "e", transfer.EncodingUTF8, encodingFlagHelp())
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the database backup")
	return cmd
}

func encodingFlagHelp() string {
	return "File encoding (" + strings.Join(transfer.Encodings(), ", ") + ")"
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show record store totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *records.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, stats)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s\n", store.Path())
				fmt.Fprintf(out, "Players:  %d\n", stats.Players)
				fmt.Fprintf(out, "Records:  %d\n", stats.Records)
				fmt.Fprintf(out, "Trusted:  %d\n", stats.Trusted)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
