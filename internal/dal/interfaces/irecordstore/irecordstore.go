package irecordstore

import (
	"context"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
)

// IRecordStore is a keyed record store over the ticket tables.
type IRecordStore interface {
	// FindOne fetches at most one row where column = value. An empty columns
	// list selects every column. Returns record.ErrNotFound when nothing matches.
	FindOne(
		ctx context.Context,
		table, column string,
		value any,
		columns []string,
	) (record.Record, error)

	// FindMany fetches every row where column is one of values.
	FindMany(
		ctx context.Context,
		table, column string,
		values []any,
		columns []string,
	) ([]record.Record, error)
}
