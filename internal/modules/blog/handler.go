package blog

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"github.com/vitalmart/storefront/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/blogs")

	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/featured", h.featured)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}

// GET /blogs?page=&size=
func (h *Handler) list(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), intQuery(c, "page", 0), intQuery(c, "size", 0))
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.OK(c, page)
}

// GET /blogs/search?q=&page=&size=
func (h *Handler) search(c *gin.Context) {
	page, err := h.svc.Search(c.Request.Context(), c.Query("q"), intQuery(c, "page", 0), intQuery(c, "size", 0))
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.OK(c, page)
}

// GET /blogs/featured
func (h *Handler) featured(c *gin.Context) {
	blogs, err := h.svc.Featured(c.Request.Context())
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.OK(c, blogs)
}

func respondBackendError(c *gin.Context, err error) {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		response.Abort(c, apiErr.Status, apiErr.Message)
		return
	}
	response.BadGateway(c, "blog backend unavailable")
}
