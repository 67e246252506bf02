package helpers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeES(t *testing.T, handler http.HandlerFunc) *ESIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewESIndex(client, "accounts")
}

func TestESIndex_Put(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	idx := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.Put(context.Background(), "7", map[string]any{"username": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "/accounts/_doc/7", gotPath)
	assert.Equal(t, "alice", gotBody["username"])
}

func TestESIndex_Search(t *testing.T) {
	idx := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/_search", r.URL.Path)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"7","_source":{"username":"alice"}},{"_id":"8","_source":{"username":"alicia"}}]}}`))
	})

	hits, err := idx.Search(context.Background(), "ali", []string{"username^2", "full_name"}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.JSONEq(t, `{"username":"alicia"}`, string(hits[1]))
}

func TestESIndex_ErrorStatus(t *testing.T) {
	idx := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := idx.Search(context.Background(), "x", []string{"username"}, 5)
	assert.Error(t, err)
}
