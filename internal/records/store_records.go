package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Save records a composition observed for player. The player's last_seen is
// refreshed, and the record is inserted unless its hash already exists.
func (s *Store) Save(ctx context.Context, player string, generals []string) (SaveResult, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return SaveResult{}, errors.New("player name is empty")
	}
	team, err := PadTeam(generals)
	if err != nil {
		return SaveResult{}, err
	}
	teamData, err := encodeTeam(team)
	if err != nil {
		return SaveResult{}, err
	}

	hash := ComputeHash(player, team)
	now := formatTime(s.now())
	result := SaveResult{Hash: hash}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if err := upsertPlayer(ctx, tx, player, now); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO teams (hash, player_name, team_data, first_seen, note)
             VALUES (?, ?, ?, ?, '')
             ON CONFLICT(hash) DO NOTHING`,
			hash, player, teamData, now,
		)
		if err != nil {
			return fmt.Errorf("insert team: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		result.Created = affected > 0
		return nil
	})
	if err != nil {
		return SaveResult{}, fmt.Errorf("save record: %w", err)
	}
	return result, nil
}

// Update replaces the composition and note of an existing record. The hash
// is left untouched.
func (s *Store) Update(ctx context.Context, hash string, generals []string, note string) error {
	team, err := PadTeam(generals)
	if err != nil {
		return err
	}
	teamData, err := encodeTeam(team)
	if err != nil {
		return err
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE teams SET team_data = ?, note = ? WHERE hash = ?`,
		teamData, note, hash,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %s: %w", hash, ErrNotFound)
	}
	return nil
}

// DeleteRecord removes one record. Deleting an absent hash is not an error;
// removed reports whether a row existed.
func (s *Store) DeleteRecord(ctx context.Context, hash string) (removed bool, err error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM teams WHERE hash = ?`, hash)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Record fetches one record by hash.
func (s *Store) Record(ctx context.Context, hash string) (*TeamRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE hash = ?`, hash)
	rec, err := scanTeam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// RecordsFor lists a player's records, newest first.
func (s *Store) RecordsFor(ctx context.Context, player string) ([]*TeamRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE player_name = ? ORDER BY first_seen DESC, hash`,
		player,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []*TeamRecord
	for rows.Next() {
		rec, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// ExpandHash returns the full hash of the single record starting with prefix.
func (s *Store) ExpandHash(ctx context.Context, prefix string) (string, error) {
	ctx = ensureContext(ctx)
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("hash prefix is empty")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash FROM teams WHERE hash LIKE ? ESCAPE '\' ORDER BY hash LIMIT 2`,
		likeEscaper.Replace(prefix)+"%",
	)
	if err != nil {
		return "", fmt.Errorf("expand hash: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return "", fmt.Errorf("scan hash: %w", err)
		}
		matches = append(matches, hash)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate hashes: %w", err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("record %s: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s: %w", prefix, ErrAmbiguousHash)
	}
}
