package httpx

import (
	"net/http"

	"github.com/go-chi/render"
)

type errResponse struct {
	HTTPStatusCode int `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *errResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errInvalidRequest(err error) render.Renderer {
	return &errResponse{
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

var errTooManyRequests = &errResponse{
	HTTPStatusCode: http.StatusTooManyRequests,
	StatusText:     http.StatusText(http.StatusTooManyRequests),
}
