package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"warscout/internal/records"
)

// Header is the first row of every export.
var Header = []string{"player", "is_trusted", "first_seen", "general_1", "general_2", "general_3", "note"}

// minColumns is the number of fields a row needs to be imported; note is
// optional.
const minColumns = 6

// Write encodes rows as CSV in the named encoding.
func Write(w io.Writer, encodingName string, rows []records.TransferRow) error {
	ew, err := encodingWriter(w, encodingName)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(ew)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Player,
			strconv.FormatBool(row.IsTrusted),
			records.FormatTime(row.FirstSeen),
			row.Generals[0],
			row.Generals[1],
			row.Generals[2],
			row.Note,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", row.Player, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := ew.Close(); err != nil {
		return fmt.Errorf("flush encoder: %w", err)
	}
	return nil
}

// ReadResult carries parsed rows plus the number of rows skipped while
// parsing.
type ReadResult struct {
	Rows    []records.TransferRow
	Skipped int
	Errors  []string
}

// Read decodes CSV in the named encoding. The first row is taken as the
// header when its first field is "player".
func Read(r io.Reader, encodingName string) (ReadResult, error) {
	dr, err := decodingReader(r, encodingName)
	if err != nil {
		return ReadResult{}, err
	}
	cr := csv.NewReader(dr)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var result readAccumulator
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.skip(line, err.Error())
				continue
			}
			return ReadResult{}, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), Header[0]) {
			continue
		}
		row, reason := parseRow(record)
		if reason != "" {
			result.skip(line, reason)
			continue
		}
		result.out.Rows = append(result.out.Rows, row)
	}
	return result.out, nil
}

// readAccumulator collects rows and skip reasons.
type readAccumulator struct {
	out ReadResult
}

func (b *readAccumulator) skip(line int, reason string) {
	b.out.Skipped++
	b.out.Errors = append(b.out.Errors, fmt.Sprintf("line %d: %s", line, reason))
}

func parseRow(record []string) (records.TransferRow, string) {
	if len(record) < minColumns {
		return records.TransferRow{}, fmt.Sprintf("expected at least %d columns, got %d", minColumns, len(record))
	}
	player := strings.TrimSpace(record[0])
	if player == "" {
		return records.TransferRow{}, "missing player"
	}
	row := records.TransferRow{Player: player}
	row.IsTrusted = parseBool(record[1])
	if value := strings.TrimSpace(record[2]); value != "" {
		ts, err := records.ParseTime(value)
		if err != nil {
			return records.TransferRow{}, err.Error()
		}
		row.FirstSeen = ts
	}
	for i := 0; i < records.TeamSize; i++ {
		row.Generals[i] = strings.TrimSpace(record[3+i])
	}
	if len(record) > minColumns {
		row.Note = record[minColumns]
	}
	return row, ""
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "t":
		return true
	default:
		return false
	}
}
