package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"/":                                     "/",
		"/v1/points":                            "/v1/points",
		"/v1/checkin":                           "/v1/checkin",
		"/v1/story/side-paths/stargazing":       "/v1/story/:id",
		"/v1/story/side-paths/rainy-day/unlock": "/v1/story/:id",
		"/v1/store/purchase":                    "/v1/store/:id",
	}
	for raw, want := range cases {
		require.Equal(t, want, canonicalPath(raw), raw)
	}
}

func TestInstrumentHandler(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/points", nil)
	InstrumentHandler(inner).ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)

	// The /metrics endpoint itself is not counted.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	InstrumentHandler(Handler()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "mobble_engine_http_requests_total")
}
