package ticketsvc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/customer"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/ticketview"
	"github.com/driano7/XocoCafe-sub000/internal/service/shape"
	"go.opentelemetry.io/otel"
)

// enrichCustomer resolves and decrypts the account holder. It never fails: a
// missing id, a missing row or a lookup error all yield a null customer that
// still carries the known id.
func (s *TicketService) enrichCustomer(ctx context.Context, loc located) ticketview.Customer {
	ctx, span := otel.Tracer("service").Start(ctx, "Service.enrichCustomer")
	defer span.End()

	var ticketUserID *string
	if loc.ticket != nil {
		ticketUserID = loc.ticket.UserID
	}

	userID := shape.FirstNonEmpty(loc.order.UserID, ticketUserID)
	if userID == nil {
		return ticketview.Customer{}
	}

	unknown := ticketview.Customer{ID: userID}

	row, err := s.findOne(ctx, customer.Table, "id", *userID, customer.Columns)
	if err != nil {
		slog.Warn("Failed to fetch customer, serving ticket without it",
			"order_id", loc.order.ID,
			"user_id", *userID,
			"error", err,
		)

		return unknown
	}
	if row == nil || row.Has("error") {
		return unknown
	}

	account := customer.FromRecord(row)

	firstName := s.decrypt(account.FirstName, "first_name", *userID)
	lastName := s.decrypt(account.LastName, "last_name", *userID)
	phone := s.decrypt(account.Phone, "phone", *userID)

	var parts []string
	for _, p := range []*string{firstName, lastName} {
		if p != nil {
			parts = append(parts, *p)
		}
	}

	return ticketview.Customer{
		ID:        shape.FirstNonEmpty(account.ID, *userID),
		ClientID:  shape.FirstNonEmpty(account.ClientID),
		Email:     shape.FirstNonEmpty(account.Email),
		Name:      shape.FirstNonEmpty(strings.Join(parts, " ")),
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	}
}

// decrypt opens one field in isolation; any failure is logged and becomes null.
func (s *TicketService) decrypt(field customer.Sealed, name, userID string) *string {
	if field.Empty() || s.decrypter == nil {
		return nil
	}

	plaintext, err := s.decrypter.Decrypt(field)
	if err != nil {
		slog.Debug("Failed to decrypt customer field", "field", name, "user_id", userID, "error", err)

		return nil
	}

	return shape.FirstNonEmpty(plaintext)
}
