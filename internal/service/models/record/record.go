package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by a record store when no row matches the predicate.
var ErrNotFound = errors.New("record not found")

// Record is one row keyed by column name. Columns that the backing table does not
// have are simply absent.
type Record map[string]any

// Has reports whether the column is present with a non-nil value.
func (r Record) Has(column string) bool {
	v, ok := r[column]
	return ok && v != nil
}

// Value returns the first non-nil value among the given columns.
func (r Record) Value(columns ...string) any {
	for _, c := range columns {
		if v, ok := r[c]; ok && v != nil {
			return v
		}
	}

	return nil
}

// Text returns the first present column rendered as a string, or nil.
func (r Record) Text(columns ...string) *string {
	s, ok := ToString(r.Value(columns...))
	if !ok {
		return nil
	}

	return &s
}

// Decimal returns the first present column as a decimal.
func (r Record) Decimal(columns ...string) decimal.NullDecimal {
	return ToDecimal(r.Value(columns...))
}

// Time returns the first present column as a timestamp, or nil.
func (r Record) Time(columns ...string) *time.Time {
	t, ok := ToTime(r.Value(columns...))
	if !ok {
		return nil
	}

	return &t
}

// ToString renders scalar driver values as strings. uuid columns come back from
// pgx as [16]byte and are formatted canonically.
func ToString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case []byte:
		return string(val), true
	case [16]byte:
		return uuid.UUID(val).String(), true
	case uuid.UUID:
		return val.String(), true
	case pgtype.UUID:
		if !val.Valid {
			return "", false
		}
		return uuid.UUID(val.Bytes).String(), true
	case pgtype.Text:
		return val.String, val.Valid
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return "", false
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}

// ToDecimal converts numeric driver values, JSON numbers and numeric strings.
// NaN, infinities and unparsable input yield an invalid NullDecimal.
func ToDecimal(v any) decimal.NullDecimal {
	switch val := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NewNullDecimal(val)
	case decimal.NullDecimal:
		return val
	case pgtype.Numeric:
		if !val.Valid || val.NaN || val.InfinityModifier != pgtype.Finite || val.Int == nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromBigInt(val.Int, val.Exp))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(val))
	case float32:
		return ToDecimal(float64(val))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(val)))
	case int32:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(val)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(val))
	case json.Number:
		return ToDecimal(val.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

// ToTime accepts driver timestamps and RFC 3339 strings.
func ToTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, !val.IsZero()
	case pgtype.Timestamptz:
		return val.Time, val.Valid
	case pgtype.Timestamp:
		return val.Time, val.Valid
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999-07", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
