package records

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"warscout/internal/config"
	"warscout/internal/resolve"
)

// TeamSize is the number of general slots stored per record.
const TeamSize = config.GeneralSlotCount

// Player is an observed opponent identity.
type Player struct {
	Name     string
	LastSeen time.Time
}

// PlayerSummary is a player row with aggregate counts for listings.
type PlayerSummary struct {
	Name     string
	LastSeen time.Time
	Records  int
	Trusted  bool
}

// TeamRecord is one observed composition. Hash is fixed at creation.
type TeamRecord struct {
	Hash      string
	Player    string
	Generals  [TeamSize]string
	FirstSeen time.Time
	Note      string
}

// SaveResult reports the outcome of Save.
type SaveResult struct {
	Hash    string
	Created bool
}

// TransferRow is the flat form used by export and import.
type TransferRow struct {
	Player    string
	IsTrusted bool
	FirstSeen time.Time
	Generals  [TeamSize]string
	Note      string
}

// ImportResult counts imported and skipped rows.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []string
}

// Stats is a snapshot of table sizes.
type Stats struct {
	Players int
	Records int
	Trusted int
}

// PadTeam returns exactly TeamSize labels, filling missing slots with the
// unknown label. More than TeamSize labels is an error.
func PadTeam(generals []string) ([TeamSize]string, error) {
	var team [TeamSize]string
	if len(generals) > TeamSize {
		return team, fmt.Errorf("team has %d generals, at most %d allowed", len(generals), TeamSize)
	}
	for i := range team {
		if i < len(generals) && strings.TrimSpace(generals[i]) != "" {
			team[i] = generals[i]
			continue
		}
		team[i] = resolve.UnknownLabel.String()
	}
	return team, nil
}

// ComputeHash derives the content hash of a composition: MD5 over the player
// name followed by the character part of each label. Factions and notes do
// not contribute.
func ComputeHash(player string, team [TeamSize]string) string {
	var b strings.Builder
	b.WriteString(player)
	for _, label := range team {
		b.WriteString(resolve.CharacterOf(label))
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
