package openfda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.SourceConfig{
		RegulatoryBaseURL: srv.URL,
		Timeout:           time.Second,
		RetryBaseDelay:    time.Millisecond,
	}, logging.NewNopLogger(), nil)
}

func TestLookupLabel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drug/label.json", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("search"), "aspirin")
		w.Write([]byte(`{"results": [{
			"openfda": {"brand_name": ["ASPIRIN"], "generic_name": ["aspirin"]},
			"boxed_warning": ["Reye's syndrome risk in children"]
		}]}`))
	}))

	label, err := client.LookupLabel(context.Background(), "aspirin")
	require.NoError(t, err)
	assert.Equal(t, "ASPIRIN", label.Brand)
	assert.Equal(t, []string{"Reye's syndrome risk in children"}, label.Warnings)
}

func TestLookupLabel_GenericNameFallback(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results": [{"openfda": {"generic_name": ["ibuprofen"]}}]}`))
	}))

	label, err := client.LookupLabel(context.Background(), "ibuprofen")
	require.NoError(t, err)
	assert.Equal(t, "ibuprofen", label.Brand)
	assert.Empty(t, label.Warnings)
}

func TestLookupLabel_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"code": "NOT_FOUND"}}`))
	}))

	_, err := client.LookupLabel(context.Background(), "xyzzy")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLookupLabel_ServiceDown(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.LookupLabel(context.Background(), "aspirin")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRegulatoryUnavailable))
}
