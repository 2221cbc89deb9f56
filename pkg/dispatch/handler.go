package dispatch

import (
	"fmt"
	"io"
	"net/http"
)

// Observer is told about every response Handler writes. err is set when the
// dispatch path panicked.
type Observer func(r *http.Request, resp Response, err error)

// Handler serves Dispatch over HTTP for any method. The request body is
// never read.
type Handler struct {
	Observe Observer
}

// NewHandler returns a Handler reporting to observe, which may be nil.
func NewHandler(observe Observer) *Handler {
	return &Handler{Observe: observe}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := h.dispatch(r)
	if h.Observe != nil {
		h.Observe(r, resp, err)
	}

	w.Header().Set("Content-Type", resp.ContentType)
	if resp.ContentType == ContentTypeText {
		w.Header().Set("X-Content-Type-Options", "nosniff")
	}
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

func (h *Handler) dispatch(r *http.Request) (resp Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = fail(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			err = fmt.Errorf("dispatch panicked: %v", p)
		}
	}()
	return Dispatch(r.URL), nil
}
