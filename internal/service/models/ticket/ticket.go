package ticket

import (
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
	"github.com/shopspring/decimal"
)

// Table is the backing table for tickets.
const Table = "tickets"

// Ticket is the point-of-sale or digital receipt tied to an order.
type Ticket struct {
	ID            string
	TicketCode    *string
	OrderID       *string
	UserID        *string
	PaymentMethod *string
	TipAmount     decimal.NullDecimal
	TipPercent    decimal.NullDecimal
	Currency      *string
	CreatedAt     *time.Time

	// QRPayload and Metadata may hold an object or its JSON encoding.
	QRPayload any
	Metadata  any
}

func FromRecord(r record.Record) Ticket {
	t := Ticket{
		TicketCode:    r.Text("ticket_code", "ticketCode"),
		OrderID:       r.Text("order_id", "orderId"),
		UserID:        r.Text("user_id", "userId"),
		PaymentMethod: r.Text("payment_method", "paymentMethod"),
		TipAmount:     r.Decimal("tip_amount", "tipAmount"),
		TipPercent:    r.Decimal("tip_percent", "tipPercent"),
		Currency:      r.Text("currency"),
		CreatedAt:     r.Time("created_at", "createdAt"),
		QRPayload:     r.Value("qr_payload", "qrPayload"),
		Metadata:      r.Value("metadata"),
	}
	if id := r.Text("id"); id != nil {
		t.ID = *id
	}

	return t
}
