package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PlayerNames returns every known player name, most recently seen first.
func (s *Store) PlayerNames(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM players ORDER BY last_seen DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list player names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan player name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player names: %w", err)
	}
	return names, nil
}

// HasPlayer reports whether name is a stored player.
func (s *Store) HasPlayer(ctx context.Context, name string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM players WHERE name = ?`, name).Scan(&count); err != nil {
		return false, fmt.Errorf("check player: %w", err)
	}
	return count > 0, nil
}

// Players lists players with record counts and trust state, most recently
// seen first. A non-empty search filters by substring.
func (s *Store) Players(ctx context.Context, search string) ([]PlayerSummary, error) {
	ctx = ensureContext(ctx)
	query := `SELECT p.name, p.last_seen,
            (SELECT COUNT(1) FROM teams t WHERE t.player_name = p.name),
            EXISTS (SELECT 1 FROM trust_list tl WHERE tl.name = p.name)
        FROM players p`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE p.name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}
	query += ` ORDER BY p.last_seen DESC, p.name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var out []PlayerSummary
	for rows.Next() {
		var (
			summary PlayerSummary
			seen    string
			trusted int
		)
		if err := rows.Scan(&summary.Name, &seen, &summary.Records, &trusted); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		if ts, err := ParseTime(seen); err == nil {
			summary.LastSeen = ts
		}
		summary.Trusted = trusted != 0
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return out, nil
}

// Rename moves every record of oldName to newName and removes oldName, in
// one transaction. newName is created if needed with last_seen set to now.
// Renaming a name to itself does nothing.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return fmt.Errorf("rename requires both names")
	}
	if oldName == newName {
		return nil
	}
	now := formatTime(s.now())
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		// The target row must exist before teams can reference it.
		if err := upsertPlayer(ctx, tx, newName, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE teams SET player_name = ? WHERE player_name = ?`, newName, oldName,
		); err != nil {
			return fmt.Errorf("reassign records: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE name = ?`, oldName); err != nil {
			return fmt.Errorf("delete old player: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rename %s to %s: %w", oldName, newName, err)
	}
	return nil
}

// DeletePlayer removes a player and all of its records. The trust list is
// not touched. removed reports whether the player existed.
func (s *Store) DeletePlayer(ctx context.Context, name string) (removed bool, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE player_name = ?`, name); err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM players WHERE name = ?`, name)
		if err != nil {
			return fmt.Errorf("delete player: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		removed = affected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete player %s: %w", name, err)
	}
	return removed, nil
}

// Stats returns table sizes.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(1) FROM players), (SELECT COUNT(1) FROM teams), (SELECT COUNT(1) FROM trust_list)`,
	).Scan(&stats.Players, &stats.Records, &stats.Trusted)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}
