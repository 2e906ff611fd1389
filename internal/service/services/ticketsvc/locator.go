package ticketsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/order"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/ticket"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
)

// undefinedColumn is the SQLSTATE Postgres reports for unknown columns.
const undefinedColumn = "42703"

// located is the output of the entity locator. ticket is nil when the order has
// no ticket yet. order.ID is always the canonical order reference.
type located struct {
	identifier string
	ticket     *ticket.Ticket
	order      order.Order
}

// isMissingColumn reports whether err says a requested column is absent from the
// backing table.
func isMissingColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedColumn {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "column") && strings.Contains(msg, "does not exist")
}

// findOne fetches one row. A miss is (nil, nil). When an explicit projection names
// a column the table lacks, the lookup is retried once selecting every column.
func (s *TicketService) findOne(
	ctx context.Context,
	table, column string,
	value any,
	columns []string,
) (record.Record, error) {
	row, err := s.records.FindOne(ctx, table, column, value, columns)
	if err != nil && len(columns) > 0 && isMissingColumn(err) {
		row, err = s.records.FindOne(ctx, table, column, value, nil)
	}
	if errors.Is(err, record.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}

// findMany is findOne's counterpart for IN lookups.
func (s *TicketService) findMany(
	ctx context.Context,
	table, column string,
	values []any,
	columns []string,
) ([]record.Record, error) {
	rows, err := s.records.FindMany(ctx, table, column, values, columns)
	if err != nil && len(columns) > 0 && isMissingColumn(err) {
		rows, err = s.records.FindMany(ctx, table, column, values, nil)
	}

	return rows, err
}

func (s *TicketService) findTicket(ctx context.Context, column, value string) (*ticket.Ticket, error) {
	row, err := s.findOne(ctx, ticket.Table, column, value, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find ticket by %s: %w", ErrUpstreamLookup, column, err)
	}
	if row == nil {
		return nil, nil
	}

	t := ticket.FromRecord(row)

	return &t, nil
}

func (s *TicketService) findOrder(ctx context.Context, column, value string) (*order.Order, error) {
	row, err := s.findOne(ctx, order.Table, column, value, order.Columns)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find order by %s: %w", ErrUpstreamLookup, column, err)
	}
	if row == nil {
		return nil, nil
	}

	o := order.FromRecord(row)

	return &o, nil
}

// locate finds the ticket and its order. The attempts run in a fixed order:
// ticket by code, ticket by order reference, order by id, order by number and,
// when only the order was found, ticket by the resolved order id.
func (s *TicketService) locate(ctx context.Context, identifier string) (located, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "Service.locate")
	defer span.End()

	tk, err := s.findTicket(ctx, "ticket_code", identifier)
	if err != nil {
		return located{}, err
	}
	if tk == nil {
		if tk, err = s.findTicket(ctx, "order_id", identifier); err != nil {
			return located{}, err
		}
	}

	orderRef := identifier
	if tk != nil && tk.OrderID != nil && strings.TrimSpace(*tk.OrderID) != "" {
		orderRef = strings.TrimSpace(*tk.OrderID)
	}

	ord, err := s.findOrder(ctx, "id", orderRef)
	if err != nil {
		return located{}, err
	}
	if ord == nil {
		if ord, err = s.findOrder(ctx, "order_number", identifier); err != nil {
			return located{}, err
		}
	}
	if ord == nil {
		return located{}, ErrOrderNotFound
	}

	if ord.ID == "" {
		ord.ID = orderRef
	}

	// The identifier may have been an order number. Skip the lookup when it
	// would repeat the order reference attempt above.
	if tk == nil && ord.ID != identifier {
		if tk, err = s.findTicket(ctx, "order_id", ord.ID); err != nil {
			return located{}, err
		}
	}

	return located{
		identifier: identifier,
		ticket:     tk,
		order:      *ord,
	}, nil
}
