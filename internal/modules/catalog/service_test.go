package catalog

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

func TestListPassesSearchTerm(t *testing.T) {
	var gotSearch string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		w.Write([]byte(`[{"id":1,"name":"Green Tea","price":12.5,"images":[]}]`))
	}))

	products, err := svc.List(context.Background(), "tea")
	require.NoError(t, err)
	assert.Equal(t, "tea", gotSearch)
	require.Len(t, products, 1)
	assert.Equal(t, "Green Tea", products[0].Name)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such product"}`))
	}))

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetByID(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/42", r.URL.Path)
		w.Write([]byte(`{"id":42,"name":"Protein Bar","price":3.5,"images":["/files/products/bar.jpg"]}`))
	}))

	p, err := svc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, 3.5, p.Price)
}
