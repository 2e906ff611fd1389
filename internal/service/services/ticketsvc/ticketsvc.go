package ticketsvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/dal/interfaces/ioutboxrepo"
	"github.com/driano7/XocoCafe-sub000/internal/dal/interfaces/irecordstore"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/currency"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/customer"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/lineitem"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/outbox"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/ticketview"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrMissingIdentifier is returned when the identifier is empty after trimming.
	ErrMissingIdentifier = errors.New("missing ticket identifier")
	// ErrOrderNotFound is returned when no order matches the identifier by any key.
	ErrOrderNotFound = errors.New("related order not found")
	// ErrUpstreamLookup wraps record store faults. It is never a plain miss.
	ErrUpstreamLookup = errors.New("upstream lookup failed")
)

type decrypter interface {
	Decrypt(field customer.Sealed) (string, error)
}

// TicketService resolves a ticket or order identifier into a printable ticket.
type TicketService struct {
	records         irecordstore.IRecordStore
	outboxRepo      ioutboxrepo.IOutboxRepository
	decrypter       decrypter
	language        Language
	defaultCurrency currency.Currency
	exchange        string
	routingKey      string
	maxRetries      int
	now             func() time.Time
}

// option is a function that configures the TicketService.
type option func(*TicketService)

// MustNewTicketService creates a new TicketService.
func MustNewTicketService(opts ...option) *TicketService {
	defaultCurrency, err := currency.ParseCurrency(viper.GetString("app.default_currency"))
	if err != nil {
		defaultCurrency = currency.Default
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	// Without an exchange, messages go through the default exchange straight
	// to the events queue.
	exchange := viper.GetString("rabbitmq.exchange")
	routingKey := outbox.EventTicketResolved
	if exchange == "" {
		routingKey = viper.GetString("rabbitmq.queue")
		if routingKey == "" {
			routingKey = "ticket.events"
		}
	}

	s := &TicketService{
		language:        ParseLanguage(viper.GetString("app.language")),
		defaultCurrency: defaultCurrency,
		exchange:        exchange,
		routingKey:      routingKey,
		maxRetries:      maxRetries,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.records == nil {
		panic("ticketsvc: record store is required")
	}

	return s
}

// WithRecordStore sets the record store the service reads tickets, orders,
// items, products and customers from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRecordStore(records irecordstore.IRecordStore) option {
	return func(s *TicketService) {
		s.records = records
	}
}

// WithOutboxRepository enables ticket.resolved events.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(outboxRepo ioutboxrepo.IOutboxRepository) option {
	return func(s *TicketService) {
		s.outboxRepo = outboxRepo
	}
}

// WithDecrypter sets the customer field decrypter. Without one, encrypted
// customer fields are returned as null.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDecrypter(d decrypter) option {
	return func(s *TicketService) {
		s.decrypter = d
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithLanguage(lang Language) option {
	return func(s *TicketService) {
		s.language = lang
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithDefaultCurrency(c currency.Currency) option {
	return func(s *TicketService) {
		s.defaultCurrency = c
	}
}

// WithClock overrides the time source used for missing creation dates.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *TicketService) {
		s.now = now
	}
}

// ResolveTicket serves the ticket envelope for one raw identifier. It fails with
// ErrMissingIdentifier, ErrOrderNotFound or an error wrapping ErrUpstreamLookup.
func (s *TicketService) ResolveTicket(
	ctx context.Context,
	rawIdentifier string,
) (ticketview.Resolution, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "Service.ResolveTicket")
	defer span.End()

	identifier, err := NormalizeIdentifier(rawIdentifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return ticketview.Resolution{}, err
	}
	span.SetAttributes(attribute.String("ticket.identifier", identifier))

	loc, err := s.locate(ctx, identifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrUpstreamLookup) {
			slog.Error("Failed to locate ticket", "identifier", identifier, "error", err)
		}

		return ticketview.Resolution{}, err
	}

	rec := s.reconcile(loc)

	var (
		items    []lineitem.LineItem
		source   lineitem.Source
		cust     ticketview.Customer
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		items, source, err = s.buildSnapshot(egCtx, loc)

		return err
	})
	eg.Go(func() error {
		cust = s.enrichCustomer(egCtx, loc)

		return nil
	})
	if err := eg.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Failed to build ticket snapshot", "identifier", identifier, "order_id", loc.order.ID, "error", err)

		return ticketview.Resolution{}, err
	}

	res := ticketview.Resolution{
		Success:     true,
		Ticket:      rec.ticket,
		Order:       rec.order,
		Customer:    cust,
		Items:       items,
		ItemsSource: source,
	}

	span.SetAttributes(
		attribute.String("order.id", res.Order.ID),
		attribute.String("ticket.items_source", string(source)),
		attribute.Int("ticket.items", len(items)),
	)

	s.publishResolved(ctx, res)

	return res, nil
}
