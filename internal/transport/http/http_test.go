package httptransport_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/currency"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/lineitem"
	"github.com/driano7/XocoCafe-sub000/internal/service/models/ticketview"
	"github.com/driano7/XocoCafe-sub000/internal/service/services/ticketsvc"
	httptransport "github.com/driano7/XocoCafe-sub000/internal/transport/http"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	calls int
	got   string
	res ticketview.Resolution
	err error
}

func (f *fakeService) ResolveTicket(_ context.Context, raw string) (ticketview.Resolution, error) {
	f.calls++
	f.got = raw
	return f.res, f.err
}

func (f *fakeService) FailureMessage(err error) string {
	return ticketsvc.FailureMessage(ticketsvc.LanguageEN, err)
}

type fakeDB struct{ err error }

func (f fakeDB) Ping(context.Context) error { return f.err }

func newTransport(svc *fakeService, db fakeDB) http.Handler {
	tr := httptransport.NewHTTPTransport(svc, db)
	tr.RegisterRoutes()
	return tr.Handler()
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestGetTicketSuccess(t *testing.T) {
	decimal.MarshalJSONWithoutQuotes = true
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = false })

	svc := &fakeService{res: ticketview.Resolution{
		Success: true,
		Ticket: ticketview.Ticket{
			ID:         "tk-1",
			TicketCode: "C-1042",
			OrderID:    "ord-1",
			TipAmount:  decimal.NewNullDecimal(decimal.RequireFromString("8.55")),
			Currency:   currency.CurrencyMXN,
			CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		Order:       ticketview.Order{ID: "ord-1", Status: "completed", Currency: currency.CurrencyMXN},
		Items:       []lineitem.LineItem{{ID: "oi-1", Quantity: 2}},
		ItemsSource: lineitem.SourceOrderItems,
	}}

	rec, body := get(t, newTransport(svc, fakeDB{}), "/api/tickets/C-1042")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "C-1042", svc.got)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "order_items", body["itemsSource"])

	ticket := body["ticket"].(map[string]any)
	assert.Equal(t, "C-1042", ticket["ticketCode"])
	assert.Equal(t, 8.55, ticket["tipAmount"])
	assert.Nil(t, ticket["tipPercent"])
	assert.Nil(t, ticket["paymentMethod"])
	assert.Equal(t, "2024-05-01T12:00:00Z", ticket["createdAt"])

	customer := body["customer"].(map[string]any)
	assert.Contains(t, customer, "name")
	assert.Nil(t, customer["name"])
}

func TestGetTicketPassesEscapedIdentifier(t *testing.T) {
	cases := map[string]string{
		"/api/tickets/XC%2F2024%2F01": "XC/2024/01",
		"/api/tickets/50%2541":        "50%41",
		"/api/tickets/C-1042%20":      "C-1042 ",
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			svc := &fakeService{res: ticketview.Resolution{Success: true}}

			rec, _ := get(t, newTransport(svc, fakeDB{}), path)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, want, svc.got, "decoded exactly once")
		})
	}
}

func TestGetTicketEmptySegmentUsesEnvelope(t *testing.T) {
	svc := &fakeService{err: ticketsvc.ErrMissingIdentifier}

	rec, body := get(t, newTransport(svc, fakeDB{}), "/api/tickets/")

	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "", svc.got)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"success": false, "message": "Missing ticket identifier"}, body)
}

func TestGetTicketFailures(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing", ticketsvc.ErrMissingIdentifier, http.StatusBadRequest, "Missing ticket identifier"},
		{"not found", ticketsvc.ErrOrderNotFound, http.StatusNotFound, "We could not find the related order"},
		{
			"upstream",
			fmt.Errorf("%w: failed to find order by id: %w", ticketsvc.ErrUpstreamLookup, errors.New("dial tcp 10.0.0.5:5432")),
			http.StatusInternalServerError,
			"Internal error retrieving ticket data",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := get(t, newTransport(&fakeService{err: tc.err}, fakeDB{}), "/api/tickets/%20")

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, map[string]any{"success": false, "message": tc.message}, body)
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		})
	}
}

func TestHealth(t *testing.T) {
	rec, _ := get(t, newTransport(&fakeService{}, fakeDB{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = get(t, newTransport(&fakeService{}, fakeDB{err: errors.New("down")}), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSwaggerDocument(t *testing.T) {
	rec, body := get(t, newTransport(&fakeService{}, fakeDB{}), "/swagger/doc.json")

	assert.Equal(t, http.StatusOK, rec.Code)
	paths := body["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/tickets/{identifier}")
}
