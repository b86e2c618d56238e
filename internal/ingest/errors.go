package ingest

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	KindTransport   = "transport"
	KindHTTPStatus  = "http_status"
	KindParse       = "parse"
	KindApplication = "application"
)

// Fallback message when the backend rejects a request without saying why.
const DefaultBackendError = "Erro ao carregar dados do dashboard"

// TransportError means the backend could not be reached at all.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }
// Reason leaves out the request URL, it carries the backend token.
func (e *TransportError) Reason() string {
	cause := e.Err
	var ue *url.Error
	if errors.As(cause, &ue) {
		cause = ue.Err
	}
	return fmt.Sprintf("erro de conexão: %v. Verifique sua conexão ou se o Web App está publicado.", cause)
}

// HTTPStatusError is a reachable backend answering outside 2xx.
type HTTPStatusError struct{ Status int }

func (e *HTTPStatusError) Error() string  { return fmt.Sprintf("non-2xx: %d", e.Status) }
func (e *HTTPStatusError) Reason() string { return fmt.Sprintf("Erro HTTP ao buscar dados: %d", e.Status) }

// ParseError is a body that is not the JSON envelope.
type ParseError struct{ Err error }

func (e *ParseError) Error() string  { return "parse: " + e.Err.Error() }
func (e *ParseError) Unwrap() error  { return e.Err }
func (e *ParseError) Reason() string { return "formato de resposta inválido" }

// ApplicationError is a well-formed envelope with ok != true or no data.
type ApplicationError struct{ Message string }

func (e *ApplicationError) Error() string { return "backend: " + e.Reason() }
func (e *ApplicationError) Reason() string {
	if e.Message == "" {
		return DefaultBackendError
	}
	return e.Message
}

// Kind classifies err for logs and metrics.
func Kind(err error) string {
	var (
		te *TransportError
		he *HTTPStatusError
		pe *ParseError
		ae *ApplicationError
	)
	switch {
	case errors.As(err, &he):
		return KindHTTPStatus
	case errors.As(err, &pe):
		return KindParse
	case errors.As(err, &ae):
		return KindApplication
	case errors.As(err, &te):
		return KindTransport
	}
	return KindTransport
}

// Reason is the user-facing text for err.
func Reason(err error) string {
	var r interface{ Reason() string }
	if errors.As(err, &r) {
		return r.Reason()
	}
	return (&TransportError{Err: err}).Reason()
}
