package outbox

import (
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/lineitem"
)

// EventTicketResolved is the event type of resolution events.
const EventTicketResolved = "ticket.resolved"

// Message is an event waiting in the outbox table to be published to RabbitMQ.
type Message struct {
	ID           int64
	MessageID    string
	EventType    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// TicketResolved is published every time a ticket envelope is served.
type TicketResolved struct {
	EventID     string          `json:"eventId"`
	TicketCode  string          `json:"ticketCode"`
	OrderID     string          `json:"orderId"`
	ItemsSource lineitem.Source `json:"itemsSource"`
	ItemCount   int             `json:"itemCount"`
	ResolvedAt  time.Time       `json:"resolvedAt"`
}
