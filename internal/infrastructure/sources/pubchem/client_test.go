package pubchem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.SourceConfig{
		StructureBaseURL: srv.URL,
		Timeout:          time.Second,
		RetryBaseDelay:   time.Millisecond,
	}, logging.NewNopLogger(), nil), srv
}

func TestLookupByName(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/compound/name/Aspirin/property/")
		w.Write([]byte(`{"PropertyTable":{"Properties":[{
			"CID": 2244,
			"Title": "Aspirin",
			"MolecularFormula": "C9H8O4",
			"MolecularWeight": "180.16",
			"CanonicalSMILES": "CC(=O)OC1=CC=CC=C1C(=O)O"
		}]}}`))
	}))

	rec, err := client.LookupByName(context.Background(), "Aspirin")
	require.NoError(t, err)
	assert.Equal(t, int64(2244), rec.Identifier)
	assert.Equal(t, "Aspirin", rec.CanonicalName)
	assert.Equal(t, "C9H8O4", rec.Formula)
	assert.InDelta(t, 180.16, rec.Weight, 1e-9)
	assert.Equal(t, "CC(=O)OC1=CC=CC=C1C(=O)O", rec.Notation)
}

func TestLookupByName_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"Fault":{"Code":"PUGREST.NotFound"}}`))
	}))

	_, err := client.LookupByName(context.Background(), "xyzzy")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCompoundNotFound))
}

func TestFetchConformer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3d", r.URL.Query().Get("record_type"))
		w.Write([]byte(`{"PC_Compounds":[{
			"atoms": {"aid": [1, 2, 3], "element": [6, 6, 8]},
			"coords": [{"aid": [1, 2, 3], "conformers": [{"x": [0, 1.5, 2.9], "y": [0, 0.1, -0.2], "z": [0, 0, 0.1]}]}],
			"bonds": {"aid1": [1, 2], "aid2": [2, 3], "order": [1, 1]}
		}]}`))
	}))

	rec, err := client.FetchConformer(context.Background(), "CCO")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, rec.AtomIDs)
	assert.Equal(t, []string{"C", "C", "O"}, rec.Elements)
	assert.Equal(t, []float64{0, 1.5, 2.9}, rec.X)
	assert.Equal(t, []int{1, 2}, rec.BondFrom)
}

func TestFetchConformer_EmptyRecord(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"PC_Compounds": []}`))
	}))

	_, err := client.FetchConformer(context.Background(), "CCO")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConformerMalformed))
}

func TestFetchImage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "record_type=3d") {
			w.Write([]byte("png3d"))
			return
		}
		w.Write([]byte("png2d"))
	}))

	data2d, err := client.FetchImage(context.Background(), "CCO", "2d")
	require.NoError(t, err)
	assert.Equal(t, []byte("png2d"), data2d)

	data3d, err := client.FetchImage(context.Background(), "CCO", "3d")
	require.NoError(t, err)
	assert.Equal(t, []byte("png3d"), data3d)
}
