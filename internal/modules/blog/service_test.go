package blog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
)

func newTestService(t *testing.T, backend http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	api, err := apiclient.New(srv.URL, nil, nil)
	require.NoError(t, err)
	return NewService(api, nil)
}

func TestListDefaultsPageSize(t *testing.T) {
	var gotQuery map[string]string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"page": r.URL.Query().Get("page"),
			"size": r.URL.Query().Get("size"),
		}
		w.Write([]byte(`{"content":[{"id":"b1","title":"Summer sale picks","content":"..."}],"totalElements":1,"totalPages":1,"number":0,"size":3}`))
	}))

	page, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "0", gotQuery["page"])
	assert.Equal(t, "3", gotQuery["size"])
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Summer sale picks", page.Content[0].Title)
}

func TestSearchPassesQuery(t *testing.T) {
	var gotQ string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blogs/search", r.URL.Path)
		gotQ = r.URL.Query().Get("q")
		w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":3}`))
	}))

	page, err := svc.Search(context.Background(), "recipes", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "recipes", gotQ)
	assert.Empty(t, page.Content)
}

func TestFeatured(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blogs/featured", r.URL.Path)
		w.Write([]byte(`[{"id":"b2","title":"Why we love oats","content":"...","featured":true}]`))
	}))

	blogs, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.True(t, blogs[0].Featured)
}
