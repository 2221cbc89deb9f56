// Package dispatch routes a request's query string to the rabbitary codec.
package dispatch

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/cbrevik/rabbitary/pkg/rabbitary"
)

const (
	// ContentTypeHTML is set on successful responses.
	ContentTypeHTML = "text/html; charset=utf-8"
	// ContentTypeText is set on error responses.
	ContentTypeText = "text/plain; charset=utf-8"

	MsgNoQuery     = "Could not parse query."
	MsgMissingArgs = "Could not find either text or rabbitary arguments."
)

// Query keys.
const (
	KeyText      = "text"
	KeyRabbitary = "rabbitary"
)

// Response is what the HTTP layer writes back.
type Response struct {
	Status      int
	ContentType string
	Body        string
}

func ok(body string) Response {
	return Response{Status: http.StatusOK, ContentType: ContentTypeHTML, Body: body}
}

func fail(status int, body string) Response {
	return Response{Status: status, ContentType: ContentTypeText, Body: body}
}

// Dispatch answers a request for u. Only u.RawQuery and u.ForceQuery are
// consulted. It never panics on malformed input.
func Dispatch(u *url.URL) Response {
	if u == nil || (u.RawQuery == "" && !u.ForceQuery) {
		return fail(http.StatusInternalServerError, MsgNoQuery)
	}
	return DispatchQuery(u.RawQuery)
}

// DispatchQuery answers a request whose URI carried the raw query string
// query, which may be empty.
func DispatchQuery(query string) Response {
	segment, _, _ := strings.Cut(query, "&")
	if segment == "" {
		return fail(http.StatusBadRequest, MsgMissingArgs)
	}

	key, raw, found := strings.Cut(segment, "=")
	if !found || raw == "" {
		return fail(http.StatusBadRequest, MsgMissingArgs)
	}

	value, err := unescape(raw)
	if err != nil {
		return fail(http.StatusBadRequest, MsgMissingArgs)
	}

	switch key {
	case KeyText:
		return ok(rabbitary.Encode(value))
	case KeyRabbitary:
		text, err := rabbitary.Decode(value)
		if err != nil {
			return fail(http.StatusBadRequest, fmt.Sprintf("Could not decode rabbitary: %v.", err))
		}
		return ok(text)
	default:
		return fail(http.StatusBadRequest, MsgMissingArgs)
	}
}

// unescape percent-decodes s. A '+' stays a '+'.
func unescape(s string) (string, error) {
	v, err := url.PathUnescape(s)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(v) {
		return "", fmt.Errorf("value is not valid utf-8")
	}
	return v, nil
}
