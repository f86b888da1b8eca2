package persist

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// Artifact sides stored in the database.
const (
	SideBreaking  = "breaking_changes"
	SideExtension = "api_extensions"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS artifacts (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	side TEXT NOT NULL,
	position INTEGER NOT NULL,
	group_id TEXT NOT NULL,
	artifact_id TEXT NOT NULL,
	violations INTEGER NOT NULL,
	number_methods INTEGER NOT NULL,
	PRIMARY KEY (run_id, side, group_id, artifact_id)
);

CREATE TABLE IF NOT EXISTS callables (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	side TEXT NOT NULL,
	group_id TEXT NOT NULL,
	artifact_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	descriptor TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_callables_artifact ON callables(run_id, side, group_id, artifact_id);

CREATE TABLE IF NOT EXISTS removals (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	category TEXT NOT NULL,
	removed INTEGER NOT NULL,
	PRIMARY KEY (run_id, category)
);
`

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// DB stores run snapshots in a SQLite database for ad-hoc querying.
type DB struct {
	conn *sql.DB
}

// OpenDB opens or creates the database at path and ensures the schema exists.
func OpenDB(ctx context.Context, path string) (*DB, error) {
	err := os.MkdirAll(filepath.Dir(path), stateDirPerm)
	if err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Pragmas are per connection.
	conn.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		_, err = conn.ExecContext(ctx, pragma)
		if err != nil {
			_ = conn.Close()

			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	_, err = conn.ExecContext(ctx, sqliteSchema)
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// WriteSnapshot stores snap under its run id, replacing an earlier run with
// the same id.
func (db *DB) WriteSnapshot(ctx context.Context, snap *Snapshot) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	err = writeSnapshot(ctx, tx, snap)
	if err != nil {
		_ = tx.Rollback()

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	return nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, snap *Snapshot) error {
	for _, table := range []string{"callables", "artifacts", "removals"} {
		_, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, snap.RunID)
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, snap.RunID)
	if err != nil {
		return fmt.Errorf("replace run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (id, created_at) VALUES (?, ?)`,
		snap.RunID, snap.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	err = insertArtifacts(ctx, tx, snap.RunID, SideBreaking, snap.BreakingChanges)
	if err != nil {
		return err
	}

	err = insertArtifacts(ctx, tx, snap.RunID, SideExtension, snap.APIExtensions)
	if err != nil {
		return err
	}

	for _, r := range snap.Removals {
		_, err = tx.ExecContext(ctx, `INSERT INTO removals (run_id, category, removed) VALUES (?, ?, ?)`,
			snap.RunID, r.Category, r.Removed)
		if err != nil {
			return fmt.Errorf("insert removal: %w", err)
		}
	}

	return nil
}

func insertArtifacts(ctx context.Context, tx *sql.Tx, runID, side string, arts []model.Artifact) error {
	artStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO artifacts (run_id, side, position, group_id, artifact_id, violations, number_methods)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare artifact insert: %w", err)
	}
	defer artStmt.Close()

	callStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO callables (run_id, side, group_id, artifact_id, position, descriptor)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare callable insert: %w", err)
	}
	defer callStmt.Close()

	for pos, art := range arts {
		_, err = artStmt.ExecContext(ctx, runID, side, pos, art.GroupID, art.ArtifactID, art.Violations, art.NumberMethods)
		if err != nil {
			return fmt.Errorf("insert artifact %s: %w", art.Coordinate, err)
		}

		for cpos, descriptor := range art.Callables {
			_, err = callStmt.ExecContext(ctx, runID, side, art.GroupID, art.ArtifactID, cpos, descriptor)
			if err != nil {
				return fmt.Errorf("insert callable for %s: %w", art.Coordinate, err)
			}
		}
	}

	return nil
}

// Artifacts reads the artifacts stored for one run and side, in their
// insertion order.
func (db *DB) Artifacts(ctx context.Context, runID, side string) ([]model.Artifact, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT group_id, artifact_id, violations, number_methods
		FROM artifacts WHERE run_id = ? AND side = ?
		ORDER BY position`, runID, side)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var arts []model.Artifact

	for rows.Next() {
		var art model.Artifact

		err = rows.Scan(&art.GroupID, &art.ArtifactID, &art.Violations, &art.NumberMethods)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}

		arts = append(arts, art)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}

	for i := range arts {
		arts[i].Callables, err = db.callables(ctx, runID, side, arts[i].Coordinate)
		if err != nil {
			return nil, err
		}
	}

	return arts, nil
}

func (db *DB) callables(ctx context.Context, runID, side string, c model.Coordinate) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT descriptor FROM callables
		WHERE run_id = ? AND side = ? AND group_id = ? AND artifact_id = ?
		ORDER BY position`, runID, side, c.GroupID, c.ArtifactID)
	if err != nil {
		return nil, fmt.Errorf("query callables: %w", err)
	}
	defer rows.Close()

	out := []string{}

	for rows.Next() {
		var descriptor string

		err = rows.Scan(&descriptor)
		if err != nil {
			return nil, fmt.Errorf("scan callable: %w", err)
		}

		out = append(out, descriptor)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate callables: %w", err)
	}

	return out, nil
}

// Removals reads the per-category removal counts stored for one run.
func (db *DB) Removals(ctx context.Context, runID string) ([]Removal, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, removed FROM removals WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query removals: %w", err)
	}
	defer rows.Close()

	var out []Removal

	for rows.Next() {
		var r Removal

		err = rows.Scan(&r.Category, &r.Removed)
		if err != nil {
			return nil, fmt.Errorf("scan removal: %w", err)
		}

		out = append(out, r)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate removals: %w", err)
	}

	return out, nil
}
