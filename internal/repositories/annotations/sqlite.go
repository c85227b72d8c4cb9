package annotations

import (
	"context"
	"fmt"

	"github.com/pixelyear/pixelyear/internal/dbx"
	"github.com/pixelyear/pixelyear/internal/planner"
)

// SQLiteRepository implements Repository over a DBTX, so it works both on
// a plain *sql.DB and inside a dbx.WithTx transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, year int, day string, a planner.Annotation) error {
	query := `INSERT INTO annotations (year, day, color, note)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year, day) DO UPDATE SET color = excluded.color, note = excluded.note
	`
	_, err := r.db.ExecContext(ctx, query, year, day, a.Color, a.Note)
	if err != nil {
		return fmt.Errorf("failed to upsert annotation %d/%s: %w", year, day, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, year int, day string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM annotations WHERE year = ? AND day = ?`, year, day)
	if err != nil {
		return fmt.Errorf("failed to delete annotation %d/%s: %w", year, day, err)
	}
	return nil
}

func (r *SQLiteRepository) ListYear(ctx context.Context, year int) (map[string]planner.Annotation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day, color, note FROM annotations WHERE year = ?`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to select annotations for %d: %w", year, err)
	}
	defer rows.Close()

	result := make(map[string]planner.Annotation)
	for rows.Next() {
		var day string
		var a planner.Annotation
		if err := rows.Scan(&day, &a.Color, &a.Note); err != nil {
			return nil, fmt.Errorf("failed to scan annotation row: %w", err)
		}
		result[day] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate annotation rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ReplaceYear(ctx context.Context, year int, days map[string]planner.Annotation) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM annotations WHERE year = ?`, year); err != nil {
		return fmt.Errorf("failed to clear annotations for %d: %w", year, err)
	}
	for day, a := range days {
		if err := r.Upsert(ctx, year, day, a); err != nil {
			return err
		}
	}
	return nil
}
