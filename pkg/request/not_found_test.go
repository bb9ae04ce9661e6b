package request

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/stretchr/testify/require"
)

func TestNotFoundHandlers(t *testing.T) {
	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		want    string
	}{
		{
			name:    "NotFound",
			handler: NotFoundHandler(l),
			status:  http.StatusNotFound,
			want:    "{\"Message\":\"Not found\"}\n",
		},
		{
			name:    "MethodNotAllowed",
			handler: MethodNotAllowedHandler(l),
			status:  http.StatusMethodNotAllowed,
			want:    "{\"Message\":\"Method not allowed\"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, tt.status, w.Code)
			require.Equal(t, "application/json", w.Header().Get("Content-Type"))
			require.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestClientWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := NewClientWriter(rec)
	require.Equal(t, http.StatusOK, cw.StatusCode())

	cw.WriteHeader(http.StatusTeapot)
	require.Equal(t, http.StatusTeapot, cw.StatusCode())
	require.Equal(t, http.StatusTeapot, rec.Code)
}
