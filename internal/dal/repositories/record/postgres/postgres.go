package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
	"github.com/jackc/pgx/v5"
)

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RecordRepository reads rows as column-keyed records so callers survive
// columns that exist in one environment and not in another.
type RecordRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewRecordRepository creates a new Postgres record repository.
func NewRecordRepository(conn GenericConn) *RecordRepository {
	return &RecordRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RecordRepository) selectQuery(
	table, column string,
	value any,
	columns []string,
) (sq.SelectBuilder, error) {
	for _, name := range append([]string{table, column}, columns...) {
		if !identifier.MatchString(name) {
			return sq.SelectBuilder{}, fmt.Errorf("invalid identifier %q", name)
		}
	}

	projection := columns
	if len(projection) == 0 {
		projection = []string{"*"}
	}

	return r.sb.Select(projection...).From(table).Where(sq.Eq{column: value}), nil
}

// FindOne fetches at most one row where column = value.
func (r *RecordRepository) FindOne(
	ctx context.Context,
	table, column string,
	value any,
	columns []string,
) (record.Record, error) {
	query, err := r.selectQuery(table, column, value, columns)
	if err != nil {
		return nil, err
	}

	sql, args, err := query.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s row: %w", table, err)
	}

	return record.Record(row), nil
}

// FindMany fetches every row where column is one of values.
func (r *RecordRepository) FindMany(
	ctx context.Context,
	table, column string,
	values []any,
	columns []string,
) ([]record.Record, error) {
	if len(values) == 0 {
		return []record.Record{}, nil
	}

	query, err := r.selectQuery(table, column, values, columns)
	if err != nil {
		return nil, err
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", table, err)
	}

	result := make([]record.Record, len(maps))
	for i, m := range maps {
		result[i] = record.Record(m)
	}

	return result, nil
}
