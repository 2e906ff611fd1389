package ticketview

import (
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/currency"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/lineitem"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// Ticket is the effective ticket: stored ticket fields merged with order fallbacks.
// TicketCode and CreatedAt are always populated.
type Ticket struct {
	ID                   string              `json:"id"`
	TicketCode           string              `json:"ticketCode"`
	OrderID              string              `json:"orderId"`
	UserID               *string             `json:"userId"`
	PaymentMethod        *string             `json:"paymentMethod"`
	PaymentReference     *string             `json:"paymentReference"`
	PaymentReferenceType *string             `json:"paymentReferenceType"`
	HandledByStaffID     *string             `json:"handledByStaffId"`
	HandledByStaffName   *string             `json:"handledByStaffName"`
	TipAmount            decimal.NullDecimal `json:"tipAmount"`
	TipPercent           decimal.NullDecimal `json:"tipPercent"`
	Currency             currency.Currency   `json:"currency"`
	CreatedAt            time.Time           `json:"createdAt"`
}

type Order struct {
	ID                         string              `json:"id"`
	OrderNumber                *string             `json:"orderNumber"`
	Status                     order.Status        `json:"status"`
	Total                      decimal.NullDecimal `json:"total"`
	Currency                   currency.Currency   `json:"currency"`
	CreatedAt                  *time.Time          `json:"createdAt"`
	UserID                     *string             `json:"userId"`
	Metadata                   map[string]any      `json:"metadata"`
	Notes                      *string             `json:"notes"`
	Message                    *string             `json:"message"`
	Instructions               *string             `json:"instructions"`
	QueuedPaymentMethod        *string             `json:"queuedPaymentMethod"`
	QueuedPaymentReference     *string             `json:"queuedPaymentReference"`
	QueuedPaymentReferenceType *string             `json:"queuedPaymentReferenceType"`
	QueuedByStaffID            *string             `json:"queuedByStaffId"`
	QueuedByStaffName          *string             `json:"queuedByStaffName"`
}

// Customer is the decrypted account holder. Every field may be null.
type Customer struct {
	ID        *string `json:"id"`
	ClientID  *string `json:"clientId"`
	Email     *string `json:"email"`
	Name      *string `json:"name"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

// Resolution is the success envelope served for a ticket identifier.
type Resolution struct {
	Success     bool                `json:"success"`
	Ticket      Ticket              `json:"ticket"`
	Order       Order               `json:"order"`
	Customer    Customer            `json:"customer"`
	Items       []lineitem.LineItem `json:"items"`
	ItemsSource lineitem.Source     `json:"itemsSource"`
}

// Failure is the error envelope. It never carries partial data.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
