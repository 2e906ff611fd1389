package getticket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/ticketview"
	"github.com/driano7/XocoCafe-sub000/internal/service/services/ticketsvc"
	"github.com/go-chi/chi/v5/middleware"
)

// service is an interface for the service layer.
type service interface {
	ResolveTicket(ctx context.Context, rawIdentifier string) (ticketview.Resolution, error)
	FailureMessage(err error) string
}

// StatusFor maps a resolution error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ticketsvc.ErrMissingIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, ticketsvc.ErrOrderNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		slog.Error("Error marshaling ticket response", "request_id", middleware.GetReqID(r.Context()), "error", err)
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Error("Error writing ticket response", "error", err)
	}
}

// Identifier returns the last path segment percent-decoded exactly once.
// Invalid escapes are passed through verbatim.
func Identifier(r *http.Request) string {
	escaped := r.URL.EscapedPath()
	segment := escaped[strings.LastIndex(escaped, "/")+1:]

	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}

	return decoded
}

// GetTicket handles GET /api/tickets/{identifier}.
//
// The identifier may be a ticket code, an order id or an order number.
func GetTicket(w http.ResponseWriter, r *http.Request, service service) {
	res, err := service.ResolveTicket(r.Context(), Identifier(r))
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("Error resolving ticket",
				"request_id", middleware.GetReqID(r.Context()),
				"path", r.URL.Path,
				"error", err,
			)
		}

		writeJSON(w, r, status, ticketview.Failure{
			Success: false,
			Message: service.FailureMessage(err),
		})

		return
	}

	writeJSON(w, r, http.StatusOK, res)
}
