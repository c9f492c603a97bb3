package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/civicgive/compliance-cli/internal/db"
	"github.com/civicgive/compliance-cli/internal/model"
)

// PostgresDirectory implements DonorDirectory using pgxpool.
type PostgresDirectory struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection
// for the hot notifier lookups.
var preparedStatements = map[string]string{
	"donors_with_celebrations": `SELECT DISTINCT d.id, d.email, d.first_name, d.compliance_tier, d.state, d.ocd_id
		FROM donors d
		JOIN celebrations c ON c.donor_id = d.id
		WHERE c.pol_state = $1 AND NOT c.resolved AND NOT c.defunct AND NOT c.paused`,
	"donors_in_state": `SELECT id, email, first_name, compliance_tier, state, ocd_id
		FROM donors
		WHERE ocd_id LIKE $1 || '%' AND NOT (id = ANY($2))`,
	"active_donations": `SELECT pol_id, amount, created_at, resolved, defunct, paused
		FROM donations WHERE donor_id = $1`,
	"is_unsubscribed": `SELECT EXISTS(SELECT 1 FROM unsubscribes WHERE donor_id = $1 AND topic = $2)`,
}

// NewPostgres creates a PostgresDirectory with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresDirectory, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresDirectory{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool; tests inject pgxmock here.
func NewPostgresWithPool(pool db.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool, closeFn: pool.Close}
}

const postgresMigration = `
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
	resolved  BOOLEAN NOT NULL DEFAULT FALSE,
	defunct   BOOLEAN NOT NULL DEFAULT FALSE,
	paused    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS donations (
	id         TEXT PRIMARY KEY,
	donor_id   TEXT NOT NULL REFERENCES donors(id),
	pol_id     TEXT NOT NULL,
	amount     BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	resolved   BOOLEAN NOT NULL DEFAULT FALSE,
	defunct    BOOLEAN NOT NULL DEFAULT FALSE,
	paused     BOOLEAN NOT NULL DEFAULT FALSE
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
func (p *PostgresDirectory) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Pool exposes the underlying pool for the import command's bulk
// seeding path.
func (p *PostgresDirectory) Pool() db.Pool { return p.pool }

// Close releases the connection pool.
func (p *PostgresDirectory) Close() error {
	if p.closeFn != nil {
		p.closeFn()
	}
	return nil
}

// DonorsWithActiveCelebrations implements DonorDirectory.
func (p *PostgresDirectory) DonorsWithActiveCelebrations(ctx context.Context, state string) ([]model.Donor, error) {
	rows, err := p.pool.Query(ctx, preparedStatements["donors_with_celebrations"], state)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: donors with celebrations")
	}
	defer rows.Close()
	return scanDonors(rows)
}

// DonorsInState implements DonorDirectory.
func (p *PostgresDirectory) DonorsInState(ctx context.Context, state string, excludeIDs []string) ([]model.Donor, error) {
	if excludeIDs == nil {
		excludeIDs = []string{}
	}
	rows, err := p.pool.Query(ctx, preparedStatements["donors_in_state"], StateOCDPattern(state), excludeIDs)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: donors in state")
	}
	defer rows.Close()
	return scanDonors(rows)
}

// ActiveDonations implements DonorDirectory.
func (p *PostgresDirectory) ActiveDonations(ctx context.Context, donorID string) ([]model.Donation, error) {
	rows, err := p.pool.Query(ctx, preparedStatements["active_donations"], donorID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: active donations")
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.PolID, &d.Amount, &d.CreatedAt, &d.Resolved, &d.Defunct, &d.Paused); err != nil {
			return nil, eris.Wrap(err, "postgres: scan donation")
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// IsUnsubscribed implements DonorDirectory.
func (p *PostgresDirectory) IsUnsubscribed(ctx context.Context, donorID, topic string) (bool, error) {
	var unsubscribed bool
	row := p.pool.QueryRow(ctx, preparedStatements["is_unsubscribed"], donorID, topic)
	if err := row.Scan(&unsubscribed); err != nil {
		return false, eris.Wrap(err, "postgres: is unsubscribed")
	}
	return unsubscribed, nil
}

func scanDonors(rows pgx.Rows) ([]model.Donor, error) {
	var donors []model.Donor
	for rows.Next() {
		var d model.Donor
		var tier string
		if err := rows.Scan(&d.ID, &d.Email, &d.FirstName, &tier, &d.State, &d.OCDID); err != nil {
			return nil, eris.Wrap(err, "postgres: scan donor")
		}
		d.Tier = model.ComplianceTier(tier)
		donors = append(donors, d)
	}
	return donors, rows.Err()
}
