package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewlexx/lawyer/internal/cache"
)

func newCratesServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		switch r.URL.Path {
		case "/crates/serde":
			w.Write([]byte(`{"crate":{"name":"serde","homepage":"https://serde.rs","repository":"https://github.com/serde-rs/serde"}}`))
		case "/crates/serde/1.0.193":
			w.Write([]byte(`{"version":{"num":"1.0.193","license":"MIT OR Apache-2.0"}}`))
		case "/crates/serde/owners":
			w.Write([]byte(`{"users":[{"login":"dtolnay","name":"David Tolnay"},{"login":"github:serde-rs:publish","name":""}]}`))
		case "/crates/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCratesClient_FetchMetadata(t *testing.T) {
	var hits atomic.Int32
	server := newCratesServer(t, &hits)

	c := NewCratesClient(server.URL+"/", 5*time.Second, nil)
	meta, err := c.FetchMetadata(context.Background(), "serde", "1.0.193")
	require.NoError(t, err)

	assert.Equal(t, &CrateMetadata{
		Authors:    []string{"David Tolnay", "github:serde-rs:publish"},
		HomePage:   "https://serde.rs",
		Repository: "https://github.com/serde-rs/serde",
		License:    "MIT OR Apache-2.0",
	}, meta)
	assert.Equal(t, int32(3), hits.Load())
}

func TestCratesClient_NotFound(t *testing.T) {
	var hits atomic.Int32
	server := newCratesServer(t, &hits)

	c := NewCratesClient(server.URL, 5*time.Second, nil)
	_, err := c.FetchMetadata(context.Background(), "nope", "0.1.0")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.FetchMetadata(context.Background(), "serde", "9.9.9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCratesClient_ServerError(t *testing.T) {
	var hits atomic.Int32
	server := newCratesServer(t, &hits)

	c := NewCratesClient(server.URL, 5*time.Second, nil)
	_, err := c.FetchMetadata(context.Background(), "broken", "1.0.0")
	assert.ErrorContains(t, err, "unexpected status code: 500")
}

func TestCratesClient_UsesCache(t *testing.T) {
	var hits atomic.Int32
	server := newCratesServer(t, &hits)

	store, err := cache.NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)

	c := NewCratesClient(server.URL, 5*time.Second, store)
	first, err := c.FetchMetadata(context.Background(), "serde", "1.0.193")
	require.NoError(t, err)
	second, err := c.FetchMetadata(context.Background(), "serde", "1.0.193")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(3), hits.Load(), "second fetch should be served from cache")
}

func TestCratesClient_ContextCanceled(t *testing.T) {
	var hits atomic.Int32
	server := newCratesServer(t, &hits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCratesClient(server.URL, 5*time.Second, nil)
	_, err := c.FetchMetadata(ctx, "serde", "1.0.193")
	assert.ErrorIs(t, err, context.Canceled)
}
