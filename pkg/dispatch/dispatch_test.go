package dispatch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cbrevik/rabbitary/pkg/rabbitary"
)

const hey = "🐰🐇🐇🐰🐇🐰🐰🐰🐰🐇🐇🐰🐰🐇🐰🐇🐰🐇🐇🐇🐇🐰🐰🐇"

func TestDispatch(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		status      int
		contentType string
		body        string
	}{
		{
			name:        "encode",
			uri:         "/?text=hey",
			status:      http.StatusOK,
			contentType: ContentTypeHTML,
			body:        hey,
		},
		{
			name:        "decode",
			uri:         "/?rabbitary=" + url.QueryEscape(hey),
			status:      http.StatusOK,
			contentType: ContentTypeHTML,
			body:        "hey",
		},
		{
			name:        "decode unescaped symbols",
			uri:         "/?rabbitary=" + hey,
			status:      http.StatusOK,
			contentType: ContentTypeHTML,
			body:        "hey",
		},
		{
			name:        "percent decoded value",
			uri:         "/?text=%C3%A6",
			status:      http.StatusOK,
			contentType: ContentTypeHTML,
			body:        "🐇🐇🐰🐰🐰🐰🐇🐇🐇🐰🐇🐰🐰🐇🐇🐰",
		},
		{
			name:        "plus is literal",
			uri:         "/?text=+",
			status:      http.StatusOK,
			contentType: ContentTypeHTML,
			body:        "🐰🐰🐇🐰🐇🐰🐇🐇",
		},
		{
			name:        "only first parameter counts",
			uri:         "/?text=hey&rabbitary=x",
			status:      http.StatusOK,
			contentType: ContentTypeHTML,
			body:        hey,
		},
		{
			name:        "value keeps later equals signs",
			uri:         "/?text=a=b",
			status:      http.StatusOK,
			contentType: ContentTypeHTML,
			body:        rabbitary.Encode("a=b"),
		},
		{
			name:        "no query",
			uri:         "/",
			status:      http.StatusInternalServerError,
			contentType: ContentTypeText,
			body:        MsgNoQuery,
		},
		{
			name:        "empty query",
			uri:         "/?",
			status:      http.StatusBadRequest,
			contentType: ContentTypeText,
			body:        MsgMissingArgs,
		},
		{
			name:        "empty first segment",
			uri:         "/?&text=hey",
			status:      http.StatusBadRequest,
			contentType: ContentTypeText,
			body:        MsgMissingArgs,
		},
		{
			name:        "unknown key",
			uri:         "/?foo=bar",
			status:      http.StatusBadRequest,
			contentType: ContentTypeText,
			body:        MsgMissingArgs,
		},
		{
			name:        "no equals sign",
			uri:         "/?text",
			status:      http.StatusBadRequest,
			contentType: ContentTypeText,
			body:        MsgMissingArgs,
		},
		{
			name:        "empty value",
			uri:         "/?text=",
			status:      http.StatusBadRequest,
			contentType: ContentTypeText,
			body:        MsgMissingArgs,
		},
		{
			name:        "bad escape",
			uri:         "/?text=%zz",
			status:      http.StatusBadRequest,
			contentType: ContentTypeText,
			body:        MsgMissingArgs,
		},
		{
			name:        "escape is not utf-8",
			uri:         "/?text=%FF",
			status:      http.StatusBadRequest,
			contentType: ContentTypeText,
			body:        MsgMissingArgs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.uri)
			require.NoError(t, err)

			resp := Dispatch(u)
			require.Equal(t, tt.status, resp.Status)
			require.Equal(t, tt.contentType, resp.ContentType)
			require.Equal(t, tt.body, resp.Body)
		})
	}
}

func TestDispatchDecodeErrors(t *testing.T) {
	resp := DispatchQuery("rabbitary=" + strings.Repeat("🐇", 8))
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Contains(t, resp.Body, "invalid utf-8")

	resp = DispatchQuery("rabbitary=abcdefgh")
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Contains(t, resp.Body, "invalid digit group")
}

func TestDispatchNilURL(t *testing.T) {
	resp := Dispatch(nil)
	require.Equal(t, http.StatusInternalServerError, resp.Status)
	require.Equal(t, MsgNoQuery, resp.Body)
}

func TestHandler(t *testing.T) {
	var seen []Response
	h := NewHandler(func(r *http.Request, resp Response, err error) {
		require.NoError(t, err)
		seen = append(seen, resp)
	})

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/?text=hey", strings.NewReader("ignored")))

			res := rec.Result()
			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, res.StatusCode)
			require.Equal(t, ContentTypeHTML, res.Header.Get("Content-Type"))
			require.Equal(t, hey, string(body))
		})
	}
	require.Len(t, seen, 3)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, MsgNoQuery, rec.Body.String())
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
