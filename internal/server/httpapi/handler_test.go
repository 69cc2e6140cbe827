package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/moneylog/internal/client/remote"
	"github.com/dmitrijs2005/moneylog/internal/logging"
	"github.com/dmitrijs2005/moneylog/internal/server/vaults"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(vaults.NewMemoryRepository(), logging.NewNopLogger()))
	t.Cleanup(srv.Close)
	return srv
}

// The client-side adapter is the API's only real consumer, so the round
// trip is tested through it.
func TestVaultTree_RoundTripViaClientAdapter(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	store := remote.NewHTTPStore(srv.URL, "vault-1", srv.Client())

	require.NoError(t, store.PutTransaction(ctx, "id-1", "token-1"))
	require.NoError(t, store.PutTransaction(ctx, "id-2", "token-2"))
	require.NoError(t, store.PutTransaction(ctx, "id-2", "token-2b")) // overwrite

	records, err := store.Transactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id-1": "token-1", "id-2": "token-2b"}, records)

	require.NoError(t, store.RemoveTransaction(ctx, "id-1"))
	require.NoError(t, store.RemoveTransaction(ctx, "id-1")) // delete twice is a no-op

	require.NoError(t, store.PutTombstone(ctx, "id-1", 1_700_000_000_000))
	tombstones, err := store.Tombstones(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"id-1": 1_700_000_000_000}, tombstones)

	records, err = store.Transactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id-2": "token-2b"}, records)
}

func TestVaultTree_NamespacesAreIsolated(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	first := remote.NewHTTPStore(srv.URL, "vault-a", srv.Client())
	second := remote.NewHTTPStore(srv.URL, "vault-b", srv.Client())

	require.NoError(t, first.PutTransaction(ctx, "id-1", "token"))

	records, err := second.Transactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPutTransaction_RejectsBadBody(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/vaults/v/transactions/id", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPut, srv.URL+"/vaults/v/transactions/id", strings.NewReader(`""`))
	require.NoError(t, err)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPutTombstone_RejectsBadBody(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/vaults/v/deleted/id", strings.NewReader(`"soon"`))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteTransaction_MissingReturns404(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/vaults/v/transactions/ghost", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
