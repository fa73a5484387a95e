package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS datasets (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    dimension INTEGER NOT NULL,
    created_at TEXT
);

CREATE TABLE IF NOT EXISTS dataset_points (
    dataset_id TEXT NOT NULL REFERENCES datasets(id),
    ordinal INTEGER NOT NULL,
    coordinates BLOB NOT NULL,
    PRIMARY KEY (dataset_id, ordinal)
);
`

// Database stores input datasets in SQLite. Training state is never written here.
type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// In-memory databases are per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=10000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}
	return &Database{db: db}, nil
}

func (d *Database) Initialize() error {
	_, err := d.db.Exec(schemaDDL)
	return err
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) DB() *sql.DB {
	return d.db
}

// -- Dataset operations --

// AddDataset inserts ds and its points in one transaction. Names are unique.
func (d *Database) AddDataset(ds Dataset) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO datasets (id, name, dimension, created_at) VALUES (?, ?, ?, ?)",
		ds.ID, ds.Name, ds.Dimension, ds.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert dataset %s: %w", ds.Name, err)
	}

	stmt, err := tx.Prepare("INSERT INTO dataset_points (dataset_id, ordinal, coordinates) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range ds.Points {
		if _, err := stmt.Exec(ds.ID, i, float64ToBlob(p)); err != nil {
			return fmt.Errorf("insert point %d of %s: %w", i, ds.Name, err)
		}
	}
	return tx.Commit()
}

// GetDataset returns the named dataset with its points in insertion order,
// or nil when no such dataset exists.
func (d *Database) GetDataset(name string) (*Dataset, error) {
	var ds Dataset
	err := d.db.QueryRow(
		"SELECT id, name, dimension, created_at FROM datasets WHERE name=?", name,
	).Scan(&ds.ID, &ds.Name, &ds.Dimension, &ds.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(
		"SELECT coordinates FROM dataset_points WHERE dataset_id=? ORDER BY ordinal", ds.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		ds.Points = append(ds.Points, blobToFloat64(blob))
	}
	return &ds, rows.Err()
}

func (d *Database) ListDatasets() ([]DatasetSummary, error) {
	rows, err := d.db.Query(`
		SELECT d.id, d.name, d.dimension, d.created_at, COUNT(p.ordinal)
		FROM datasets d LEFT JOIN dataset_points p ON p.dataset_id = d.id
		GROUP BY d.id
		ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DatasetSummary
	for rows.Next() {
		var s DatasetSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Dimension, &s.CreatedAt, &s.PointCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RemoveDataset deletes the named dataset and its points. It reports whether
// the dataset existed.
func (d *Database) RemoveDataset(name string) (bool, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM dataset_points WHERE dataset_id IN (SELECT id FROM datasets WHERE name=?)", name,
	); err != nil {
		return false, err
	}
	res, err := tx.Exec("DELETE FROM datasets WHERE name=?", name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

func (d *Database) CountDatasets() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&n)
	return n, err
}
