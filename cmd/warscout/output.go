package main

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"warscout/internal/records"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const timeDisplayLayout = "2006-01-02 15:04"

// renderTable draws rows with a rounded style. go-pretty measures East
// Asian wide runes, so Chinese names line up.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderPlayerTable(players []records.PlayerSummary) string {
	rows := make([][]string, 0, len(players))
	for _, p := range players {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(p.Records),
			formatDisplayTime(p.LastSeen),
			yesNo(p.Trusted),
		})
	}
	return renderTable(
		[]string{"Player", "Records", "Last Seen", "Trusted"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func renderRecordTable(recs []*records.TeamRecord) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		row := []string{shortHash(r.Hash)}
		row = append(row, r.Generals[:]...)
		row = append(row, formatDisplayTime(r.FirstSeen), r.Note)
		rows = append(rows, row)
	}
	return renderTable(
		[]string{"Hash", "General 1", "General 2", "General 3", "First Seen", "Note"},
		rows,
		nil,
	)
}

func formatDisplayTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(timeDisplayLayout)
}

func shortHash(hash string) string {
	if len(hash) > 10 {
		return hash[:10]
	}
	return hash
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
