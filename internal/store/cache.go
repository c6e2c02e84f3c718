// Package store provides a SQLite-backed cache for parsed sale records and
// persisted seller goals.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed record caching and goal storage.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Tracked holds what the cache knows about one source version.
type Tracked struct {
	source.Fingerprint
	Rows      int
	Skipped   int
	Warnings  int
	FetchedAt time.Time
}

// GetFingerprint returns the tracked fingerprint for a source key. ok is false
// when the source has never been cached.
func (c *Cache) GetFingerprint(key string) (Tracked, bool, error) {
	var t Tracked
	var fetched string
	err := c.db.QueryRow(`SELECT mtime_ns, size_bytes, rows_seen, rows_skipped, warnings, fetched_at
		FROM source_tracker WHERE source_key = ?`, key).
		Scan(&t.MtimeNs, &t.SizeBytes, &t.Rows, &t.Skipped, &t.Warnings, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return Tracked{}, false, nil
	}
	if err != nil {
		return Tracked{}, false, err
	}
	t.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
	return t, true, nil
}

// SaveRecords replaces every cached record for key and updates its tracker
// row in one transaction.
func (c *Cache) SaveRecords(key string, fp source.Fingerprint, res source.Result) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE source_key = ?", key); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO records
		(source_key, row_index, dias, valor_venda, lucro_liquido, vendedor, ano_mod)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range res.Records {
		if _, err := stmt.Exec(key, i, r.Dias, r.ValorVenda, r.LucroLiquido, r.Vendedor, r.AnoMod); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO source_tracker
		(source_key, mtime_ns, size_bytes, rows_seen, rows_skipped, warnings, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, fp.MtimeNs, fp.SizeBytes, res.Rows, res.Skipped, res.Warnings,
		c.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadRecords reads the cached records for key in their original order. The
// seller list is rebuilt in first-appearance order.
func (c *Cache) LoadRecords(key string) (source.Result, error) {
	rows, err := c.db.Query(`SELECT dias, valor_venda, lucro_liquido, vendedor, ano_mod
		FROM records WHERE source_key = ? ORDER BY row_index`, key)
	if err != nil {
		return source.Result{}, err
	}
	defer func() { _ = rows.Close() }()

	var res source.Result
	seen := make(map[string]struct{})
	for rows.Next() {
		var r model.SaleRecord
		var dias, valor, lucro sql.NullFloat64
		var anoMod sql.NullString
		if err := rows.Scan(&dias, &valor, &lucro, &r.Vendedor, &anoMod); err != nil {
			return source.Result{}, err
		}
		r.Dias = dias.Float64
		r.ValorVenda = valor.Float64
		r.LucroLiquido = lucro.Float64
		r.AnoMod = anoMod.String

		res.Records = append(res.Records, r)
		if _, ok := seen[r.Vendedor]; !ok {
			seen[r.Vendedor] = struct{}{}
			res.Sellers = append(res.Sellers, r.Vendedor)
		}
	}
	if err := rows.Err(); err != nil {
		return source.Result{}, err
	}

	if t, ok, err := c.GetFingerprint(key); err == nil && ok {
		res.Rows, res.Skipped, res.Warnings = t.Rows, t.Skipped, t.Warnings
	}
	return res, nil
}

// RecordCount returns the number of cached records for key.
func (c *Cache) RecordCount(key string) (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM records WHERE source_key = ?", key).Scan(&count)
	return count, err
}

// DeleteSource removes cached records and tracking for key.
func (c *Cache) DeleteSource(key string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE source_key = ?", key); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM source_tracker WHERE source_key = ?", key); err != nil {
		return err
	}
	return tx.Commit()
}
