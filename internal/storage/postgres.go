package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when no row matches the given id
var ErrNotFound = errors.New("record not found")

// Query narrows a list or count. The zero value selects every row.
type Query struct {
	Featured  bool
	Category  string
	Unread    bool
	ExcludeID string
	Limit     int
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Table is the CRUD surface of one entity table. Rows are always ordered by
// created_at, newest first.
type Table[T any] struct {
	db          *sql.DB
	name        string
	columns     []string
	featuredCol string
	scan        func(rowScanner) (T, error)
	values      func(*T) []interface{}
}

// OpenPostgres opens and pings a PostgreSQL connection pool
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return db, nil
}

// Name returns the table name
func (t *Table[T]) Name() string {
	return t.name
}

func (t *Table[T]) selectList() string {
	return "id, " + strings.Join(t.columns, ", ")
}

func (t *Table[T]) where(q Query) (string, []interface{}, error) {
	var (
		clauses []string
		args    []interface{}
	)

	if q.Featured {
		if t.featuredCol == "" {
			return "", nil, fmt.Errorf("table %s has no featured flag", t.name)
		}
		clauses = append(clauses, t.featuredCol+" = TRUE")
	}
	if q.Category != "" {
		args = append(args, q.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if q.Unread {
		clauses = append(clauses, "read = FALSE")
	}
	if q.ExcludeID != "" {
		args = append(args, q.ExcludeID)
		clauses = append(clauses, fmt.Sprintf("id::text <> $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// List returns the rows matching q
func (t *Table[T]) List(ctx context.Context, q Query) ([]T, error) {
	where, args, err := t.where(q)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at DESC", t.selectList(), t.name, where)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Count returns how many rows match q. Limit is ignored.
func (t *Table[T]) Count(ctx context.Context, q Query) (int, error) {
	where, args, err := t.where(q)
	if err != nil {
		return 0, err
	}

	var n int
	err = t.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.name, where), args...).Scan(&n)
	return n, err
}

// Get retrieves a row by ID
func (t *Table[T]) Get(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.selectList(), t.name)
	item, err := t.scan(t.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("table", t.name).Str("id", id).Msg("Failed to get row from postgres")
		return nil, err
	}

	return &item, nil
}

// Insert stores a new row and returns the id assigned by the database
func (t *Table[T]) Insert(ctx context.Context, item *T) (string, error) {
	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))

	var id string
	if err := t.db.QueryRowContext(ctx, query, t.values(item)...).Scan(&id); err != nil {
		log.Error().Err(err).Str("table", t.name).Msg("Failed to insert row into postgres")
		return "", err
	}

	return id, nil
}

// Update overwrites every writable column of the row with the given id
func (t *Table[T]) Update(ctx context.Context, id string, item *T) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	sets := make([]string, len(t.columns))
	for i, col := range t.columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args := append(t.values(item), id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", t.name, strings.Join(sets, ", "), len(args))
	return t.exec(ctx, query, args...)
}

// SetFlag updates a single boolean column
func (t *Table[T]) SetFlag(ctx context.Context, id, column string, value bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE id = $2", t.name, column)
	return t.exec(ctx, query, value, id)
}

// Delete removes the row with the given id. Deleting a missing row is not an error.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	_, err := t.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.name), id)
	if err != nil {
		log.Error().Err(err).Str("table", t.name).Str("id", id).Msg("Failed to delete row from postgres")
		return err
	}
	return nil
}

// ImageURL fetches only the image_url column of a row
func (t *Table[T]) ImageURL(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}

	var imageURL sql.NullString
	err := t.db.QueryRowContext(ctx, fmt.Sprintf("SELECT image_url FROM %s WHERE id = $1", t.name), id).Scan(&imageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return imageURL.String, nil
}

func (t *Table[T]) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Str("table", t.name).Msg("Failed to update row in postgres")
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
