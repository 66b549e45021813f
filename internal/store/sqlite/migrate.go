package sqlite

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at         TIMESTAMP NOT NULL,
    hcp_name           TEXT NOT NULL,
    interaction_type   TEXT,
    interaction_date   TEXT,
    interaction_time   TEXT,
    attendees          TEXT,
    topics_discussed   TEXT,
    materials_shared   TEXT,
    observed_sentiment TEXT,
    outcomes           TEXT,
    follow_up_actions  TEXT
);
CREATE INDEX IF NOT EXISTS idx_interactions_hcp_name ON interactions (hcp_name COLLATE NOCASE);
`

// Migrate creates the interactions table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite.Migrate: %w", err)
	}
	return nil
}
