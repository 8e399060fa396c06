// Package catalog wraps the backend product catalog. The cart reconciler uses
// it to enrich guest-cart lines with current name and price.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vitalmart/storefront/internal/models"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"go.uber.org/zap"
)

// ErrProductNotFound marks a lookup for an id the backend does not know.
var ErrProductNotFound = errors.New("product not found")

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

// List fetches products, optionally filtered by a search term.
func (s *Service) List(ctx context.Context, search string) ([]models.Product, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": []string{search}}
	}
	var products []models.Product
	if err := s.api.GetJSON(ctx, "/api/products", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID fetches one product.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.api.GetJSON(ctx, "/api/products/"+strconv.FormatInt(id, 10), nil, &p)
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
		}
		return nil, err
	}
	return &p, nil
}
