package order

import (
	"context"
	"encoding/json"
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

func TestPlaceSendsPayload(t *testing.T) {
	var got PlaceOrderRequest
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/place", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":1001,"userId":9,"paymentMethod":"COD","shippingAddress":"12 Main St","total":40.5}`))
	}))

	o, err := svc.Place(context.Background(), PlaceOrderRequest{
		UserID:          9,
		PaymentMethod:   "COD",
		ShippingAddress: "12 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.UserID)
	assert.Equal(t, "COD", got.PaymentMethod)
	assert.Equal(t, int64(1001), o.ID)
	assert.Equal(t, 40.5, o.Total)
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrder(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/1001", r.URL.Path)
		w.Write([]byte(`{"id":1001,"userId":9,"status":"PLACED"}`))
	}))

	o, err := svc.Get(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, "PLACED", o.Status)
}
