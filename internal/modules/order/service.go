// Package order places orders and fetches them back for the confirmation
// flow.
package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vitalmart/storefront/internal/models"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("order not found")

// PlaceOrderRequest is the checkout payload sent to the backend.
type PlaceOrderRequest struct {
	UserID          int64  `json:"userId"`
	PaymentMethod   string `json:"paymentMethod"   binding:"required"`
	ShippingAddress string `json:"shippingAddress" binding:"required"`
}

type Service struct {
	api *apiclient.Client
	log *zap.Logger
}

func NewService(api *apiclient.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, log: logger}
}

// Place submits the order. The backend builds the order from the user's
// server-side cart.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	var o models.Order
	if err := s.api.PostJSON(ctx, "/api/orders/place", req, &o); err != nil {
		return nil, err
	}
	s.log.Info("order placed", zap.Int64("orderId", o.ID), zap.Int64("userId", req.UserID))
	return &o, nil
}

// Get fetches one order for the confirmation page.
func (s *Service) Get(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := s.api.GetJSON(ctx, "/api/orders/"+strconv.FormatInt(id, 10), nil, &o)
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
		}
		return nil, err
	}
	return &o, nil
}
