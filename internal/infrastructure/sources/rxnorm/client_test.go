package rxnorm

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
		VocabularyBaseURL: srv.URL,
		Timeout:           time.Second,
		RetryBaseDelay:    time.Millisecond,
	}, logging.NewNopLogger(), nil)
}

func TestLookup(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rxcui.json", r.URL.Path)
		assert.Equal(t, "Aspirin", r.URL.Query().Get("name"))
		w.Write([]byte(`{"idGroup": {"name": "aspirin", "rxnormId": ["1191"]}}`))
	}))

	match, err := client.Lookup(context.Background(), "Aspirin")
	require.NoError(t, err)
	assert.Equal(t, "1191", match.MatchedID)
	assert.Equal(t, "aspirin", match.MatchedName)
}

func TestLookup_NoConcept(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"idGroup": {"name": ""}}`))
	}))

	_, err := client.Lookup(context.Background(), "xyzzy")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLookup_ServiceDown(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.Lookup(context.Background(), "Aspirin")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeVocabularyUnavailable))
}
