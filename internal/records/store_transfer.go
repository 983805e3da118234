package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Export returns one row per stored record, grouped by player in order of
// most recent sighting and then oldest record first.
func (s *Store) Export(ctx context.Context) ([]TransferRow, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.player_name, t.team_data, t.first_seen, t.note,
            EXISTS (SELECT 1 FROM trust_list tl WHERE tl.name = t.player_name)
        FROM teams t
        JOIN players p ON p.name = t.player_name
        ORDER BY p.last_seen DESC, p.name ASC, t.first_seen ASC, t.hash ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("export records: %w", err)
	}
	defer rows.Close()

	var out []TransferRow
	for rows.Next() {
		var (
			row       TransferRow
			teamData  string
			firstSeen string
			note      sql.NullString
			trusted   int
		)
		if err := rows.Scan(&row.Player, &teamData, &firstSeen, &note, &trusted); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		team, err := decodeTeam(teamData)
		if err != nil {
			return nil, err
		}
		row.Generals = team
		row.Note = note.String
		row.IsTrusted = trusted != 0
		if ts, err := ParseTime(firstSeen); err == nil {
			row.FirstSeen = ts
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export rows: %w", err)
	}
	return out, nil
}

// Import merges rows into the store. Each row is applied in its own
// transaction; a row without a player is skipped and a row that fails is
// counted as skipped with its error recorded. On a hash conflict only the
// note is overwritten.
func (s *Store) Import(ctx context.Context, rows []TransferRow) (ImportResult, error) {
	ctx = ensureContext(ctx)
	var result ImportResult
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if strings.TrimSpace(row.Player) == "" {
			result.Skipped++
			continue
		}
		if err := s.importRow(ctx, row); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *Store) importRow(ctx context.Context, row TransferRow) error {
	player := strings.TrimSpace(row.Player)
	team, err := PadTeam(row.Generals[:])
	if err != nil {
		return err
	}
	teamData, err := encodeTeam(team)
	if err != nil {
		return err
	}
	seenAt := row.FirstSeen
	if seenAt.IsZero() {
		seenAt = s.now()
	}
	seen := formatTime(seenAt)
	hash := ComputeHash(player, team)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := upsertPlayer(ctx, tx, player, seen); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO teams (hash, player_name, team_data, first_seen, note)
             VALUES (?, ?, ?, ?, ?)
             ON CONFLICT(hash) DO UPDATE SET note = excluded.note`,
			hash, player, teamData, seen, row.Note,
		); err != nil {
			return fmt.Errorf("merge record: %w", err)
		}
		if row.IsTrusted {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO trust_list (name) VALUES (?)`, player); err != nil {
				return fmt.Errorf("merge trust: %w", err)
			}
		}
		return nil
	})
}
