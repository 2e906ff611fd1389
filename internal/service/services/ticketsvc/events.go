package ticketsvc

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/outbox"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/ticketview"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

// publishResolved queues a ticket.resolved event. The response never depends on it.
func (s *TicketService) publishResolved(ctx context.Context, res ticketview.Resolution) {
	if s.outboxRepo == nil {
		return
	}

	ctx, span := otel.Tracer("service").Start(ctx, "Service.publishResolved")
	defer span.End()

	now := s.now()
	event := outbox.TicketResolved{
		EventID:     uuid.NewString(),
		TicketCode:  res.Ticket.TicketCode,
		OrderID:     res.Order.ID,
		ItemsSource: res.ItemsSource,
		ItemCount:   len(res.Items),
		ResolvedAt:  now,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("Failed to encode ticket event", "order_id", res.Order.ID, "error", err)

		return
	}

	err = s.outboxRepo.Insert(ctx, outbox.Message{
		MessageID:    event.EventID,
		EventType:    outbox.EventTicketResolved,
		ExchangeName: s.exchange,
		RoutingKey:   s.routingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   s.maxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	})
	if err != nil {
		slog.Warn("Failed to enqueue ticket event", "order_id", res.Order.ID, "error", err)
	}
}
