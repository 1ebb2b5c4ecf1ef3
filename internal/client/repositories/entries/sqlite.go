package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arthlor/yeser/internal/client/models"
)

// SQLiteRepository implements Repository on a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, e models.Entry) error {
	statements, err := json.Marshal(e.Statements)
	if err != nil {
		return fmt.Errorf("failed to encode statements: %w", err)
	}

	query := `INSERT INTO cached_entries (entry_date, id, owner_id, statements, created_at, updated_at, absent)
			VALUES (?, ?, ?, ?, ?, ?, 0)
			ON CONFLICT(entry_date) DO UPDATE SET
				id = excluded.id,
				owner_id = excluded.owner_id,
				statements = excluded.statements,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				absent = 0
	`
	_, err = r.db.ExecContext(ctx, query, e.Date, e.ID, e.OwnerID, string(statements), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cached entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkAbsent(ctx context.Context, date string) error {
	query := `INSERT INTO cached_entries (entry_date, absent) VALUES (?, 1)
			ON CONFLICT(entry_date) DO UPDATE SET
				id = '', owner_id = '', statements = '[]',
				created_at = NULL, updated_at = NULL, absent = 1
	`
	if _, err := r.db.ExecContext(ctx, query, date); err != nil {
		return fmt.Errorf("failed to mark date absent: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Forget(ctx context.Context, date string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_entries WHERE entry_date = ?`, date); err != nil {
		return fmt.Errorf("failed to forget cached entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (map[string]*models.Entry, error) {
	query := `SELECT entry_date, id, owner_id, statements, created_at, updated_at, absent FROM cached_entries`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached entries: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*models.Entry)

	for rows.Next() {
		var (
			date, id, owner, statements string
			createdAt, updatedAt        sql.NullTime
			absent                      bool
		)
		if err := rows.Scan(&date, &id, &owner, &statements, &createdAt, &updatedAt, &absent); err != nil {
			return nil, err
		}

		if absent {
			result[date] = nil
			continue
		}

		e := &models.Entry{ID: id, OwnerID: owner, Date: date}
		if err := json.Unmarshal([]byte(statements), &e.Statements); err != nil {
			return nil, fmt.Errorf("corrupt statements for %s: %w", date, err)
		}
		if createdAt.Valid {
			e.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			e.UpdatedAt = updatedAt.Time
		}
		result[date] = e
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_entries`); err != nil {
		return fmt.Errorf("failed to clear cached entries: %w", err)
	}
	return nil
}
