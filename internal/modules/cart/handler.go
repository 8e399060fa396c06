package cart

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
	g := rg.Group("/cart")

	g.GET("", h.get)
	g.GET("/count", h.count)
	g.POST("/items", h.add)
	g.PUT("/items/:productId", h.update)
	g.DELETE("/items/:productId", h.remove)
	g.DELETE("", h.clear)
}

// ownerOverride reads an optional ?userId= query forcing a specific owner.
func ownerOverride(c *gin.Context) (*int64, bool) {
	raw := c.Query("userId")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// GET /cart
func (h *Handler) get(c *gin.Context) {
	explicit, ok := ownerOverride(c)
	if !ok {
		response.BadRequest(c, "invalid userId")
		return
	}
	cart, err := h.svc.GetCart(c.Request.Context(), explicit)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.OK(c, cart)
}

// GET /cart/count
func (h *Handler) count(c *gin.Context) {
	response.OK(c, gin.H{"count": h.svc.Count()})
}

// POST /cart/items
func (h *Handler) add(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "productId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		response.BadRequest(c, ErrInvalidQuantity.Error())
		return
	}
	explicit, ok := ownerOverride(c)
	if !ok {
		response.BadRequest(c, "invalid userId")
		return
	}
	cart, err := h.svc.AddItem(c.Request.Context(), explicit, req.ProductID, req.Quantity)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.OK(c, cart)
}

// PUT /cart/items/:productId
func (h *Handler) update(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		response.BadRequest(c, ErrInvalidQuantity.Error())
		return
	}
	explicit, ok := ownerOverride(c)
	if !ok {
		response.BadRequest(c, "invalid userId")
		return
	}
	cart, err := h.svc.UpdateItemQuantity(c.Request.Context(), explicit, productID, req.Quantity)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.OK(c, cart)
}

// DELETE /cart/items/:productId
func (h *Handler) remove(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}
	explicit, ok := ownerOverride(c)
	if !ok {
		response.BadRequest(c, "invalid userId")
		return
	}
	cart, err := h.svc.RemoveItem(c.Request.Context(), explicit, productID)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.OK(c, cart)
}

// DELETE /cart
func (h *Handler) clear(c *gin.Context) {
	explicit, ok := ownerOverride(c)
	if !ok {
		response.BadRequest(c, "invalid userId")
		return
	}
	if err := h.svc.ClearCart(c.Request.Context(), explicit); err != nil {
		respondBackendError(c, err)
		return
	}
	response.NoContent(c)
}

func respondBackendError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidQuantity) {
		response.BadRequest(c, err.Error())
		return
	}
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		response.Abort(c, apiErr.Status, apiErr.Message)
		return
	}
	response.BadGateway(c, "cart backend unavailable")
}
