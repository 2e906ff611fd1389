package ticketsvc

import (
	"strings"
)

// NormalizeIdentifier trims an already decoded identifier. Transports decode
// their own encodings before calling the service. The same identifier is later
// tried as a ticket code, an order id and an order number.
func NormalizeIdentifier(raw string) (string, error) {
	identifier := strings.TrimSpace(raw)
	if identifier == "" {
		return "", ErrMissingIdentifier
	}

	return identifier, nil
}
