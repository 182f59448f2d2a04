package linkcheck_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/docsync/internal/adapters/outbound/linkcheck"
)

func newServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/get-only", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestChecker_Statuses(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	c, err := linkcheck.New(time.Second, 16)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"/ok", true},
		{"/missing", false},
		{"/get-only", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ok, err := c.Check(context.Background(), srv.URL+tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestChecker_MemoizesResults(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	c, err := linkcheck.New(time.Second, 16)
	require.NoError(t, err)

	for range 3 {
		ok, err := c.Check(context.Background(), srv.URL+"/missing")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestChecker_Timeout(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	c, err := linkcheck.New(100*time.Millisecond, 16)
	require.NoError(t, err)

	ok, err := c.Check(context.Background(), srv.URL+"/slow")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestChecker_CancelledContext(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	c, err := linkcheck.New(time.Second, 16)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Check(ctx, srv.URL+"/ok")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChecker_SkipsNonHTTP(t *testing.T) {
	c, err := linkcheck.New(0, 0)
	require.NoError(t, err)

	ok, err := c.Check(context.Background(), "mailto:team@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}
