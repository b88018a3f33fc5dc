package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
	"github.com/R3E-Network/bankproducts/internal/app/storage/memory"
	"github.com/R3E-Network/bankproducts/internal/app/storage/storagetest"
)

func TestCanonicalPath(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/":                  "/",
		"/bankproducts":      "/bankproducts",
		"/bankproducts/":     "/bankproducts",
		"/bankproducts/42":   "/bankproducts/{id}",
		"/bankproducts/abc/": "/bankproducts/{id}",
		"/healthz":           "/healthz",
		"/unknown/deep/path": "unmatched",
	}
	for in, want := range tests {
		assert.Equal(t, want, CanonicalPath(in), in)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	counter := httpRequests.WithLabelValues(http.MethodGet, "/bankproducts/{id}", "404")
	before := testutil.ToFloat64(counter)

	done := TrackInFlight()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	RecordHTTPRequest("get", "/bankproducts/{id}", http.StatusNotFound, 3*time.Millisecond)
	done()

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordStoreOperation("get", 0, nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "bankproducts_store_operations_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestInstrumentStoreCountsResults(t *testing.T) {
	ctx := context.Background()
	store := InstrumentStore(memory.New())

	ok := storeOperations.WithLabelValues("insert", "ok")
	before := testutil.ToFloat64(ok)
	created, err := store.InsertBankProduct(ctx, bankproduct.New("Savings"))
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(ok))

	got, found, err := store.GetBankProduct(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Savings", got.TitleValue())

	failed := storeOperations.WithLabelValues("list", "error")
	before = testutil.ToFloat64(failed)
	_, err = InstrumentStore(storagetest.NewUnavailable()).ListBankProducts(ctx)
	require.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Equal(t, before+1, testutil.ToFloat64(failed))
}

func TestInstrumentStoreSeparatesNotFound(t *testing.T) {
	ctx := context.Background()
	store := InstrumentStore(memory.New())

	notFound := storeOperations.WithLabelValues("replace", "not_found")
	failed := storeOperations.WithLabelValues("replace", "error")
	beforeNotFound := testutil.ToFloat64(notFound)
	beforeFailed := testutil.ToFloat64(failed)

	_, err := store.ReplaceBankProduct(ctx, bankproduct.BankProduct{ID: 404, Title: bankproduct.StringPtr("Ghost")})
	require.ErrorIs(t, err, storage.ErrNotFound)

	assert.Equal(t, beforeNotFound+1, testutil.ToFloat64(notFound))
	assert.Equal(t, beforeFailed, testutil.ToFloat64(failed))
}
