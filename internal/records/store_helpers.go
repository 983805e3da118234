package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

const teamColumns = "hash, player_name, team_data, first_seen, note"

func scanTeam(scanner interface{ Scan(dest ...any) error }) (*TeamRecord, error) {
	var (
		hash      string
		player    string
		teamData  string
		firstSeen string
		note      sql.NullString
	)
	if err := scanner.Scan(&hash, &player, &teamData, &firstSeen, &note); err != nil {
		return nil, err
	}
	team, err := decodeTeam(teamData)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", hash, err)
	}
	rec := &TeamRecord{
		Hash:     hash,
		Player:   player,
		Generals: team,
		Note:     note.String,
	}
	if seen, err := ParseTime(firstSeen); err == nil {
		rec.FirstSeen = seen
	}
	return rec, nil
}

func encodeTeam(team [TeamSize]string) (string, error) {
	data, err := json.Marshal(team[:])
	if err != nil {
		return "", fmt.Errorf("encode team: %w", err)
	}
	return string(data), nil
}

func decodeTeam(raw string) ([TeamSize]string, error) {
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		return [TeamSize]string{}, fmt.Errorf("decode team: %w", err)
	}
	return PadTeam(labels)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// upsertPlayer inserts name or advances its last_seen. last_seen never moves
// backwards.
func upsertPlayer(ctx context.Context, tx *sql.Tx, name, seen string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO players (name, last_seen) VALUES (?, ?)
         ON CONFLICT(name) DO UPDATE SET last_seen = MAX(players.last_seen, excluded.last_seen)`,
		name, seen,
	)
	if err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}
