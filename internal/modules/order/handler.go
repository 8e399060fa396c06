package order

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vitalmart/storefront/internal/modules/cart"
	"github.com/vitalmart/storefront/internal/modules/session"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"github.com/vitalmart/storefront/internal/pkg/response"
)

type Handler struct {
	svc  *Service
	sess *session.Service
	cart *cart.Service
}

func NewHandler(svc *Service, sess *session.Service, cartSvc *cart.Service) *Handler {
	return &Handler{svc: svc, sess: sess, cart: cartSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders")

	g.POST("", h.place)
	g.GET("/:id", h.get)
}

// POST /orders
//
// Checkout is gated: it requires a live session and a non-empty cart.
func (h *Handler) place(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.sess.IsLoggedIn(ctx) {
		response.Unauthorized(c, "Login required for checkout")
		return
	}
	userID := h.sess.UserID(ctx)
	if userID == nil {
		response.Unauthorized(c, "Login required for checkout")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "paymentMethod and shippingAddress are required")
		return
	}
	req.UserID = *userID

	empty, err := h.cart.IsEmpty(ctx, userID)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	if empty {
		response.UnprocessableEntity(c, "Your cart is empty")
		return
	}

	o, err := h.svc.Place(ctx, req)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	response.Created(c, o)
}

// GET /orders/:id
func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	o, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.NotFound(c, "Order not found")
			return
		}
		respondBackendError(c, err)
		return
	}
	response.OK(c, o)
}

func respondBackendError(c *gin.Context, err error) {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		response.Abort(c, apiErr.Status, apiErr.Message)
		return
	}
	response.BadGateway(c, "order backend unavailable")
}
