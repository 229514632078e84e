package replication

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"podscribe/pkg/db"
	"podscribe/pkg/domain"
)

// Config wires the replication dependencies.
type Config struct {
	Mongo    *db.Client
	Postgres db.DBProvider
}

// Replicator copies transcript index records from MongoDB into Postgres.
// One-shot, copy-everything flow: records already present in Postgres (by
// base name) are skipped.
type Replicator struct {
	mongo *db.Client
	pg    db.DBProvider
}

// NewReplicator validates the wiring and builds a replicator.
func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Mongo == nil {
		return nil, fmt.Errorf("mongo client is required")
	}
	if cfg.Postgres == nil {
		return nil, fmt.Errorf("postgres client is required")
	}
	return &Replicator{mongo: cfg.Mongo, pg: cfg.Postgres}, nil
}

// ReplicateTranscripts reads all transcript records from Mongo and inserts
// the new ones into the Postgres `transcript` table, in batches.
func (r *Replicator) ReplicateTranscripts(ctx context.Context) error {
	if err := r.ensureTranscriptSchema(ctx); err != nil {
		return err
	}

	records, err := r.mongo.ListTranscripts(ctx)
	if err != nil {
		return fmt.Errorf("read transcripts from mongo: %w", err)
	}

	log.Printf("Loaded %d transcript records from Mongo", len(records))

	const batchSize = 100
	inserted := 0
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		n, err := r.replicateBatch(ctx, records[start:end])
		if err != nil {
			return fmt.Errorf("replicate batch [%d:%d]: %w", start, end, err)
		}
		inserted += n
	}

	log.Printf("Replication complete: processed %d records, inserted %d new", len(records), inserted)
	return nil
}

func (r *Replicator) ensureTranscriptSchema(ctx context.Context) error {
	if r.pg.DB() == nil {
		return fmt.Errorf("postgres DB not connected")
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS transcript (
  base_name TEXT PRIMARY KEY,
  origin TEXT NOT NULL DEFAULT '',
  source_kind TEXT NOT NULL DEFAULT '',
  text_location TEXT NOT NULL DEFAULT '',
  json_location TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	if _, err := r.pg.DB().ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create transcript table: %w", err)
	}
	return nil
}

func (r *Replicator) replicateBatch(ctx context.Context, batch []domain.TranscriptRecord) (int, error) {
	existing, err := r.existingBaseNames(ctx, batch)
	if err != nil {
		return 0, err
	}

	toInsert := make([]domain.TranscriptRecord, 0, len(batch))
	for _, record := range batch {
		if record.BaseName == "" || existing[record.BaseName] {
			continue
		}
		toInsert = append(toInsert, record)
	}
	if len(toInsert) == 0 {
		return 0, nil
	}

	if err := r.insertRecordsTx(ctx, toInsert); err != nil {
		return 0, err
	}
	return len(toInsert), nil
}

func (r *Replicator) existingBaseNames(ctx context.Context, batch []domain.TranscriptRecord) (map[string]bool, error) {
	names := make([]interface{}, 0, len(batch))
	query := "SELECT base_name FROM transcript WHERE base_name IN ("
	for _, record := range batch {
		if record.BaseName == "" {
			continue
		}
		if len(names) > 0 {
			query += ", "
		}
		names = append(names, record.BaseName)
		query += fmt.Sprintf("$%d", len(names))
	}
	query += ")"

	if len(names) == 0 {
		return map[string]bool{}, nil
	}

	rows, err := r.pg.DB().QueryContext(ctx, query, names...)
	if err != nil {
		return nil, fmt.Errorf("query existing base names: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan base name: %w", err)
		}
		set[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return set, nil
}

func (r *Replicator) insertRecordsTx(ctx context.Context, batch []domain.TranscriptRecord) error {
	tx, err := r.pg.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertQuery = `
INSERT INTO transcript (base_name, origin, source_kind, text_location, json_location, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (base_name) DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range batch {
		if _, err := stmt.ExecContext(ctx,
			record.BaseName, record.Origin, record.SourceKind,
			record.TextLocation, record.JSONLocation, record.CreatedAt); err != nil {
			return fmt.Errorf("insert transcript %q: %w", record.BaseName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
