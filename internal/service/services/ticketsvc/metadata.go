package ticketsvc

import (
	"github.com/driano7/XocoCafe-sub000/internal/service/models/currency"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/ticketview"
	"github.com/driano7/XocoCafe-sub000/internal/service/shape"
	"github.com/shopspring/decimal"
)

type reconciled struct {
	ticket ticketview.Ticket
	order  ticketview.Order
}

var hundred = decimal.NewFromInt(100)

// tipAmount returns the stored tip or, when only a percent is known, derives it
// from the order total rounded to cents.
func tipAmount(amount, percent, total decimal.NullDecimal) decimal.NullDecimal {
	if amount.Valid || !percent.Valid || !total.Valid {
		return amount
	}

	return decimal.NewNullDecimal(total.Decimal.Mul(percent.Decimal).Div(hundred).Round(2))
}

// reconcile merges the payment and handler annotations and composes the
// effective ticket. Queued order fields win over order metadata, which wins over
// the ticket itself.
func (s *TicketService) reconcile(loc located) reconciled {
	o := loc.order
	meta := shape.Object(o.Metadata)

	var (
		tkPaymentMethod *string
		tkID            *string
		tkCode          *string
		tkUserID        *string
		tkCurrency      *string
		tip, tipPercent decimal.NullDecimal
		createdAt       = o.CreatedAt
	)
	if t := loc.ticket; t != nil {
		tkPaymentMethod = t.PaymentMethod
		tkID = shape.TrimToNull(t.ID)
		tkCode = t.TicketCode
		tkUserID = t.UserID
		tkCurrency = t.Currency
		tip, tipPercent = t.TipAmount, t.TipPercent
		if t.CreatedAt != nil {
			createdAt = t.CreatedAt
		}
	}

	handlerID := shape.FirstNonEmpty(o.QueuedByStaffID, shape.Lookup(meta, "prepAssignment.staffId"))
	handlerName := shape.FirstNonEmpty(o.QueuedByStaffName, shape.Lookup(meta, "prepAssignment.staffName"))
	paymentMethod := shape.FirstNonEmpty(o.QueuedPaymentMethod, shape.Lookup(meta, "payment.method"), tkPaymentMethod)
	paymentReference := shape.FirstNonEmpty(o.QueuedPaymentReference, shape.Lookup(meta, "payment.reference"))
	paymentReferenceType := shape.FirstNonEmpty(
		o.QueuedPaymentReferenceType,
		shape.Lookup(meta, "payment.referenceType"),
	)

	orderCurrency := currency.First(s.defaultCurrency, o.Currency)

	effective := ticketview.Ticket{
		ID:                   *shape.FirstNonEmpty(tkID, o.ID, loc.identifier),
		TicketCode:           *shape.FirstNonEmpty(tkCode, o.OrderNumber, o.ID, loc.identifier),
		OrderID:              o.ID,
		UserID:               shape.FirstNonEmpty(tkUserID, o.UserID),
		PaymentMethod:        paymentMethod,
		PaymentReference:     paymentReference,
		PaymentReferenceType: paymentReferenceType,
		HandledByStaffID:     handlerID,
		HandledByStaffName:   handlerName,
		TipAmount:            tipAmount(tip, tipPercent, o.Total),
		TipPercent:           tipPercent,
		Currency:             currency.First(orderCurrency, tkCurrency),
	}
	if createdAt != nil {
		effective.CreatedAt = *createdAt
	} else {
		effective.CreatedAt = s.now()
	}

	return reconciled{
		ticket: effective,
		order: ticketview.Order{
			ID:                         o.ID,
			OrderNumber:                shape.FirstNonEmpty(o.OrderNumber),
			Status:                     o.Status,
			Total:                      o.Total,
			Currency:                   orderCurrency,
			CreatedAt:                  o.CreatedAt,
			UserID:                     shape.FirstNonEmpty(o.UserID),
			Metadata:                   meta,
			Notes:                      shape.FirstNonEmpty(o.Notes),
			Message:                    shape.FirstNonEmpty(o.Message),
			Instructions:               shape.FirstNonEmpty(o.Instructions),
			QueuedPaymentMethod:        paymentMethod,
			QueuedPaymentReference:     paymentReference,
			QueuedPaymentReferenceType: paymentReferenceType,
			QueuedByStaffID:            handlerID,
			QueuedByStaffName:          handlerName,
		},
	}
}
