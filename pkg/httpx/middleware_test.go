package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/khpl/pkg/httpx"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "abc", false},
		{"missing header", "", "", true},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", true},
		{"empty token", "Bearer   ", "", true},
		{"no separator", "Bearerabc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := httpx.BearerToken(req)
			if tt.wantErr {
				require.ErrorIs(t, err, httpx.ErrMissingBearer)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestWriteBearerError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteBearerError(rec, "token expired")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"error":"unauthorized","error_description":"token expired"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"valid", `{"name":"alice"}`, "alice", false},
		{"unknown fields ignored", `{"name":"alice","extra":1}`, "alice", false},
		{"empty body", ``, "", true},
		{"malformed", `{"name":`, "", true},
		{"trailing object", `{"name":"a"}{"name":"b"}`, "", true},
		{"too large", `{"name":"` + strings.Repeat("a", httpx.MaxBodyBytes) + `"}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := httpx.DecodeJSON(httptest.NewRecorder(), req, &p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, p.Name)
		})
	}
}
