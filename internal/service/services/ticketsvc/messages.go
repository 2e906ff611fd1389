package ticketsvc

import (
	"errors"
	"strings"
)

// Language selects the display language of caller-facing messages.
type Language string

const (
	LanguageES Language = "es"
	LanguageEN Language = "en"
)

// ParseLanguage accepts "es" or "en" (and regional variants such as "en-US").
// Anything else is Spanish.
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, string(LanguageEN)) {
		return LanguageEN
	}

	return LanguageES
}

var messages = map[Language]struct {
	missingIdentifier string
	orderNotFound     string
	internal          string
}{
	LanguageES: {
		missingIdentifier: "Falta el identificador del ticket",
		orderNotFound:     "No pudimos encontrar la orden relacionada",
		internal:          "Error interno al obtener los datos del ticket",
	},
	LanguageEN: {
		missingIdentifier: "Missing ticket identifier",
		orderNotFound:     "We could not find the related order",
		internal:          "Internal error retrieving ticket data",
	},
}

// FailureMessage renders err for the caller in lang. Diagnostic detail never
// leaks: anything that is not a known failure is the generic internal message.
func FailureMessage(lang Language, err error) string {
	m, ok := messages[lang]
	if !ok {
		m = messages[LanguageES]
	}

	switch {
	case errors.Is(err, ErrMissingIdentifier):
		return m.missingIdentifier
	case errors.Is(err, ErrOrderNotFound):
		return m.orderNotFound
	default:
		return m.internal
	}
}

// FailureMessage renders err in the service's configured language.
func (s *TicketService) FailureMessage(err error) string {
	return FailureMessage(s.language, err)
}
