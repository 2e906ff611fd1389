package ticketsvc_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/outbox"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
)

type lookup struct {
	table   string
	column  string
	value   any
	columns []string
}

func (l lookup) String() string {
	return fmt.Sprintf("%s.%s=%v", l.table, l.column, l.value)
}

// fakeStore is an in-memory record store that remembers every lookup.
type fakeStore struct {
	mu      sync.Mutex
	tables  map[string][]record.Record
	calls   []lookup
	fail    map[string]error
	missing map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:  map[string][]record.Record{},
		fail:    map[string]error{},
		missing: map[string]string{},
	}
}

func (f *fakeStore) add(table string, rows ...record.Record) *fakeStore {
	f.tables[table] = append(f.tables[table], rows...)
	return f
}

// failOn makes lookups against table.column return err.
func (f *fakeStore) failOn(table, column string, err error) *fakeStore {
	f.fail[table+"."+column] = err
	return f
}

// dropColumn makes explicit projections on table fail the way Postgres does
// when a column is missing.
func (f *fakeStore) dropColumn(table, column string) *fakeStore {
	f.missing[table] = column
	return f
}

func (f *fakeStore) lookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.String()
	}
	return out
}

func (f *fakeStore) callsTo(table string) []lookup {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []lookup
	for _, c := range f.calls {
		if c.table == table {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeStore) check(table, column string, value any, columns []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, lookup{table: table, column: column, value: value, columns: columns})
	f.mu.Unlock()

	if err := f.fail[table+"."+column]; err != nil {
		return err
	}
	if col, ok := f.missing[table]; ok && len(columns) > 0 {
		return fmt.Errorf(`ERROR: column "%s" does not exist (SQLSTATE 42703)`, col)
	}
	return nil
}

func project(row record.Record, columns []string) record.Record {
	if len(columns) == 0 {
		return row
	}
	out := record.Record{}
	// storage-layer markers survive any projection
	if v, ok := row["error"]; ok {
		out["error"] = v
	}
	for _, c := range columns {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}

func same(a, b any) bool {
	return a != nil && fmt.Sprint(a) == fmt.Sprint(b)
}

func (f *fakeStore) FindOne(
	_ context.Context,
	table, column string,
	value any,
	columns []string,
) (record.Record, error) {
	if err := f.check(table, column, value, columns); err != nil {
		return nil, err
	}
	for _, row := range f.tables[table] {
		if same(row[column], value) {
			return project(row, columns), nil
		}
	}
	return nil, record.ErrNotFound
}

func (f *fakeStore) FindMany(
	_ context.Context,
	table, column string,
	values []any,
	columns []string,
) ([]record.Record, error) {
	if err := f.check(table, column, values, columns); err != nil {
		return nil, err
	}
	out := []record.Record{}
	for _, row := range f.tables[table] {
		for _, v := range values {
			if same(row[column], v) {
				out = append(out, project(row, columns))
				break
			}
		}
	}
	return out, nil
}

type fakeOutbox struct {
	mu       sync.Mutex
	inserted []outbox.Message
	err      error
}

func (f *fakeOutbox) Insert(_ context.Context, msg outbox.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, msg)
	return nil
}

func (f *fakeOutbox) GetPendingMessages(context.Context, int) ([]outbox.Message, error) {
	return nil, nil
}

func (f *fakeOutbox) Delete(context.Context, int64) error { return nil }

func (f *fakeOutbox) UpdateRetry(context.Context, int64, int, string, time.Time) error {
	return nil
}

var errBroken = errors.New("connection reset by peer")
