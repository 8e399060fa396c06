// Package blog wraps the backend article endpoints used by the home page and
// the blog listing.
package blog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/vitalmart/storefront/internal/models"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"go.uber.org/zap"
)

const defaultPageSize = 3

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

// List fetches a page of articles.
func (s *Service) List(ctx context.Context, page, size int) (*models.BlogPage, error) {
	if size <= 0 {
		size = defaultPageSize
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var out models.BlogPage
	if err := s.api.GetJSON(ctx, "/api/blogs", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search fetches articles matching q.
func (s *Service) Search(ctx context.Context, q string, page, size int) (*models.BlogPage, error) {
	if size <= 0 {
		size = defaultPageSize
	}
	query := url.Values{}
	query.Set("q", q)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var out models.BlogPage
	if err := s.api.GetJSON(ctx, "/api/blogs/search", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Featured fetches the articles flagged for the home page.
func (s *Service) Featured(ctx context.Context) ([]models.Blog, error) {
	var out []models.Blog
	if err := s.api.GetJSON(ctx, "/api/blogs/featured", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
