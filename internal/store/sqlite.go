package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/civicgive/compliance-cli/internal/model"
)

// SQLiteDirectory implements DonorDirectory using modernc.org/sqlite,
// for local development and single-node deployments.
type SQLiteDirectory struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode.
func NewSQLite(dsn string) (*SQLiteDirectory, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteDirectory{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS donors (
	id              TEXT PRIMARY KEY,
	email           TEXT NOT NULL,
	first_name      TEXT NOT NULL DEFAULT '',
	compliance_tier TEXT NOT NULL DEFAULT 'guest',
	state           TEXT NOT NULL DEFAULT '',
	ocd_id          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS celebrations (
	id        TEXT PRIMARY KEY,
	donor_id  TEXT NOT NULL REFERENCES donors(id),
	pol_id    TEXT NOT NULL,
	pol_state TEXT NOT NULL,
	resolved  INTEGER NOT NULL DEFAULT 0,
	defunct   INTEGER NOT NULL DEFAULT 0,
	paused    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS donations (
	id         TEXT PRIMARY KEY,
	donor_id   TEXT NOT NULL REFERENCES donors(id),
	pol_id     TEXT NOT NULL,
	amount     INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	resolved   INTEGER NOT NULL DEFAULT 0,
	defunct    INTEGER NOT NULL DEFAULT 0,
	paused     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS unsubscribes (
	donor_id TEXT NOT NULL REFERENCES donors(id),
	topic    TEXT NOT NULL,
	PRIMARY KEY (donor_id, topic)
);

CREATE INDEX IF NOT EXISTS idx_celebrations_pol_state ON celebrations(pol_state);
CREATE INDEX IF NOT EXISTS idx_donors_ocd_id ON donors(ocd_id);
CREATE INDEX IF NOT EXISTS idx_donations_donor_id ON donations(donor_id);
`

// Migrate creates the directory schema.
func (s *SQLiteDirectory) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database handle.
func (s *SQLiteDirectory) Close() error {
	return s.db.Close()
}

// DB exposes the handle for the import command's seeding path.
func (s *SQLiteDirectory) DB() *sql.DB { return s.db }

// DonorsWithActiveCelebrations implements DonorDirectory.
func (s *SQLiteDirectory) DonorsWithActiveCelebrations(ctx context.Context, state string) ([]model.Donor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT d.id, d.email, d.first_name, d.compliance_tier, d.state, d.ocd_id
		FROM donors d
		JOIN celebrations c ON c.donor_id = d.id
		WHERE c.pol_state = ? AND c.resolved = 0 AND c.defunct = 0 AND c.paused = 0`,
		state,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: donors with celebrations")
	}
	defer rows.Close()
	return scanSQLDonors(rows)
}

// DonorsInState implements DonorDirectory.
func (s *SQLiteDirectory) DonorsInState(ctx context.Context, state string, excludeIDs []string) ([]model.Donor, error) {
	query := `SELECT id, email, first_name, compliance_tier, state, ocd_id FROM donors WHERE ocd_id LIKE ? || '%'`
	args := []any{StateOCDPattern(state)}
	if len(excludeIDs) > 0 {
		query += " AND id NOT IN (?" + strings.Repeat(",?", len(excludeIDs)-1) + ")"
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: donors in state")
	}
	defer rows.Close()
	return scanSQLDonors(rows)
}

// ActiveDonations implements DonorDirectory.
func (s *SQLiteDirectory) ActiveDonations(ctx context.Context, donorID string) ([]model.Donation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pol_id, amount, created_at, resolved, defunct, paused
		FROM donations WHERE donor_id = ?`,
		donorID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: active donations")
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.PolID, &d.Amount, &d.CreatedAt, &d.Resolved, &d.Defunct, &d.Paused); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan donation")
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// IsUnsubscribed implements DonorDirectory.
func (s *SQLiteDirectory) IsUnsubscribed(ctx context.Context, donorID, topic string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM unsubscribes WHERE donor_id = ? AND topic = ?`,
		donorID, topic,
	).Scan(&count)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: is unsubscribed")
	}
	return count > 0, nil
}

func scanSQLDonors(rows *sql.Rows) ([]model.Donor, error) {
	var donors []model.Donor
	for rows.Next() {
		var d model.Donor
		var tier string
		if err := rows.Scan(&d.ID, &d.Email, &d.FirstName, &tier, &d.State, &d.OCDID); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan donor")
		}
		d.Tier = model.ComplianceTier(tier)
		donors = append(donors, d)
	}
	return donors, rows.Err()
}
