package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware_LabelsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/invitation/{token}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := HTTPMetricsMiddleware(mux)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /api/invitation/{token}", "404")
	before := testutil.ToFloat64(counter)

	for _, tok := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invitation/"+tok, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	require.Equal(t, before+3, testutil.ToFloat64(counter))
}

func TestHTTPMetricsMiddleware_Unmatched(t *testing.T) {
	h := HTTPMetricsMiddleware(http.NewServeMux())

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestObserveHousekeeping_SkipsZero(t *testing.T) {
	ObserveHousekeeping("abandoned", 2)
	before := testutil.ToFloat64(housekeeping.WithLabelValues("abandoned"))
	ObserveHousekeeping("abandoned", 0)
	require.Equal(t, before, testutil.ToFloat64(housekeeping.WithLabelValues("abandoned")))
}

func TestObserveDownlineCache(t *testing.T) {
	hits := testutil.ToFloat64(downlineCache.WithLabelValues("hit"))
	misses := testutil.ToFloat64(downlineCache.WithLabelValues("miss"))
	ObserveDownlineCache(true)
	ObserveDownlineCache(false)
	ObserveDownlineCache(false)
	require.Equal(t, hits+1, testutil.ToFloat64(downlineCache.WithLabelValues("hit")))
	require.Equal(t, misses+2, testutil.ToFloat64(downlineCache.WithLabelValues("miss")))
}
