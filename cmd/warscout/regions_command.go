package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"warscout/internal/config"
)

func newRegionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Helpers for screen region configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "split <x> <y> <width> <height>",
		Short:       "Split a generals row into slot regions",
		Long:        "Print the three general slots for a row, in reading order, as TOML for [regions].",
		Args:        cobra.ExactArgs(4),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]int, len(args))
			for i, arg := range args {
				v, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid number %q", arg)
				}
				values[i] = v
			}
			row := config.Rect{X: values[0], Y: values[1], Width: values[2], Height: values[3]}
			if row.Empty() || row.Width < config.GeneralSlotCount {
				return fmt.Errorf("row %s is too small to split", row)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "generals = [")
			for _, slot := range config.SplitRow(row) {
				fmt.Fprintf(out, "  { x = %d, y = %d, width = %d, height = %d },\n", slot.X, slot.Y, slot.Width, slot.Height)
			}
			fmt.Fprintln(out, "]")
			return nil
		},
	})
	return cmd
}
