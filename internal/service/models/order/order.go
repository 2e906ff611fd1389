package order

import (
	"log/slog"
	"strings"
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
	"github.com/shopspring/decimal"
)

// Table is the backing table for orders.
const Table = "orders"

// Columns is the explicit projection requested by the primary order lookup.
var Columns = []string{
	"id",
	"order_number",
	"user_id",
	"status",
	"total",
	"currency",
	"created_at",
	"items",
	"metadata",
	"notes",
	"message",
	"instructions",
	"queued_payment_method",
	"queued_payment_reference",
	"queued_payment_reference_type",
	"queued_by_staff_id",
	"queued_by_staff_name",
}

// Status is the order lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus normalizes a stored status. Absent or blank statuses are pending;
// values outside the known lifecycle are kept as stored and logged.
func ParseStatus(s *string) Status {
	if s == nil || strings.TrimSpace(*s) == "" {
		return StatusPending
	}

	st := Status(strings.ToLower(strings.TrimSpace(*s)))
	if !st.Known() {
		slog.Warn("Unknown order status", "status", *s)
	}

	return st
}

// Known reports whether st is part of the order lifecycle.
func (st Status) Known() bool {
	switch st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Order represents one purchase transaction as stored.
// Items and Metadata keep whatever shape the store returned.
type Order struct {
	ID          string
	OrderNumber *string
	UserID      *string
	Status      Status
	Total       decimal.NullDecimal
	Currency    *string
	CreatedAt   *time.Time

	Items    any
	Metadata any

	Notes        *string
	Message      *string
	Instructions *string

	QueuedPaymentMethod        *string
	QueuedPaymentReference     *string
	QueuedPaymentReferenceType *string
	QueuedByStaffID            *string
	QueuedByStaffName          *string
}

// FromRecord maps a row onto an Order. Both snake_case and camelCase column names
// are accepted because environments disagree on naming.
func FromRecord(r record.Record) Order {
	o := Order{
		OrderNumber: r.Text("order_number", "orderNumber"),
		UserID:      r.Text("user_id", "userId"),
		Status:      ParseStatus(r.Text("status")),
		Total:       r.Decimal("total"),
		Currency:    r.Text("currency"),
		CreatedAt:   r.Time("created_at", "createdAt"),

		Items:    r.Value("items"),
		Metadata: r.Value("metadata"),

		Notes:        r.Text("notes"),
		Message:      r.Text("message"),
		Instructions: r.Text("instructions"),

		QueuedPaymentMethod:        r.Text("queued_payment_method", "queuedPaymentMethod"),
		QueuedPaymentReference:     r.Text("queued_payment_reference", "queuedPaymentReference"),
		QueuedPaymentReferenceType: r.Text("queued_payment_reference_type", "queuedPaymentReferenceType"),
		QueuedByStaffID:            r.Text("queued_by_staff_id", "queuedByStaffId"),
		QueuedByStaffName:          r.Text("queued_by_staff_name", "queuedByStaffName"),
	}
	if id := r.Text("id"); id != nil {
		o.ID = *id
	}

	return o
}
