package records

import (
	"context"
	"fmt"
	"strings"
)

// AddTrust puts name on the trust list. The name need not be a stored player.
func (s *Store) AddTrust(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("trust name is empty")
	}
	if _, err := s.execWithRetry(ctx, `INSERT OR IGNORE INTO trust_list (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("add trust: %w", err)
	}
	return nil
}

// RemoveTrust takes name off the trust list. removed reports whether it was
// listed.
func (s *Store) RemoveTrust(ctx context.Context, name string) (removed bool, err error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM trust_list WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("remove trust: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// IsTrusted reports whether name is on the trust list.
func (s *Store) IsTrusted(ctx context.Context, name string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM trust_list WHERE name = ?`, name).Scan(&count); err != nil {
		return false, fmt.Errorf("check trust: %w", err)
	}
	return count > 0, nil
}

// TrustList returns every trusted name in ascending order.
func (s *Store) TrustList(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM trust_list ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list trust: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan trust: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trust: %w", err)
	}
	return names, nil
}
