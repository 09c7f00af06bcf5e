package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string, metrics *observability.Metrics) *Client {
	return NewClient(baseURL, 5*time.Second, metrics, discardLogger())
}

func TestClient_Score_Success(t *testing.T) {
	want := domain.Score(domain.DefaultScenario())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, contentTypeJSON, r.Header.Get(headerContentType))

		var got domain.CrashScenario
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, domain.DefaultScenario(), got)

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(want))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	result, err := testClient(srv.URL, metrics).Score(context.Background(), domain.DefaultScenario())
	require.NoError(t, err)

	assert.Equal(t, want, result)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RemoteRequests.WithLabelValues("success")), 0)
}

func TestClient_Score_StatusErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"detail":"Prediction failed"}`))
			}))
			defer srv.Close()

			metrics := observability.NewMetricsForTesting()
			_, err := testClient(srv.URL, metrics).Score(context.Background(), domain.DefaultScenario())
			require.Error(t, err)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, status, se.StatusCode)
			assert.Contains(t, err.Error(), strconv.Itoa(status))
			assert.Equal(t, `{"detail":"Prediction failed"}`, se.Body)
			assert.InDelta(t, 1, testutil.ToFloat64(metrics.RemoteRequests.WithLabelValues("status")), 0)
		})
	}
}

func TestClient_Score_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"severity":`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).Score(context.Background(), domain.DefaultScenario())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Score_UnknownSeverity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"severity":"Critical","confidence":0.9,"riskFactors":[],"recommendations":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).Score(context.Background(), domain.DefaultScenario())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Critical")
}

func TestClient_Score_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := NewClient(srv.URL, 50*time.Millisecond, metrics, discardLogger())

	_, err := c.Score(context.Background(), domain.DefaultScenario())
	require.Error(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RemoteRequests.WithLabelValues("error")), 0)
}

func TestClient_Score_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := testClient(url, nil).Score(context.Background(), domain.DefaultScenario())
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestClient_Health(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  bool
		errMatch string
	}{
		{"ready", http.StatusOK, `{"status":"healthy","model_loaded":true}`, false, ""},
		{"model not loaded", http.StatusOK, `{"status":"healthy","model_loaded":false}`, true, "model not loaded"},
		{"unhealthy status", http.StatusServiceUnavailable, `down`, true, "503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/health", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := testClient(srv.URL, nil).CheckReadiness(context.Background())
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
		})
	}
}
