package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/EmpoweredVote/lego-catalog/internal/catalog"
	"github.com/lib/pq"
)

var setColumns = []string{"set_num", "name", "year", "num_parts", "theme_id", "img_url"}

// copySets streams sets into a temporary table with COPY and moves the new ones
// into sets in the same transaction. It returns how many rows were inserted.
func copySets(ctx context.Context, dsn string, sets []catalog.Set) (int64, error) {
	if len(sets) == 0 {
		return 0, nil
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx,
		`CREATE TEMP TABLE sets_load (LIKE sets INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return 0, fmt.Errorf("create staging table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("sets_load", setColumns...))
	if err != nil {
		return 0, fmt.Errorf("prepare copy: %w", err)
	}
	for _, s := range sets {
		if _, err := stmt.ExecContext(ctx, s.SetNum, s.Name, s.Year, s.NumParts, s.ThemeID, s.ImgURL); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("copy set %s: %w", s.SetNum, err)
		}
	}
	// An argument-less Exec flushes the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("close copy: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO sets (set_num, name, year, num_parts, theme_id, img_url)
		SELECT set_num, name, year, num_parts, theme_id, img_url FROM sets_load
		ON CONFLICT (set_num) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("insert sets: %w", err)
	}
	inserted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
