package catalog

import (
	"errors"
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
	g := rg.Group("/products")

	g.GET("", h.list)
	g.GET("/:id", h.get)
}

// GET /products?search=
func (h *Handler) list(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.OK(c, products)
}

// GET /products/:id
func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}
	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		respondBackendError(c, err)
		return
	}
	response.OK(c, p)
}

func respondBackendError(c *gin.Context, err error) {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		response.Abort(c, apiErr.Status, apiErr.Message)
		return
	}
	response.BadGateway(c, "catalog unavailable")
}
