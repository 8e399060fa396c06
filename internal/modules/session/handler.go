package session

import (
	"errors"

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
	g := rg.Group("/session")

	g.POST("/login", h.login)
	g.POST("/register", h.register)
	g.POST("/logout", h.logout)
	g.GET("/me", h.me)
}

// POST /session/login
func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password required")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondBackendError(c, err, "Login failed. Check credentials.")
		return
	}
	response.OK(c, gin.H{"token": token, "tokenType": h.svc.TokenType(c.Request.Context())})
}

// POST /session/register
func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All fields required")
		return
	}

	msg, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailInUse) {
			response.Conflict(c, msg)
			return
		}
		respondBackendError(c, err, "Registration failed")
		return
	}
	response.OK(c, gin.H{"message": msg})
}

// POST /session/logout
func (h *Handler) logout(c *gin.Context) {
	h.svc.RemoveToken(c.Request.Context())
	response.NoContent(c)
}

// GET /session/me
func (h *Handler) me(c *gin.Context) {
	response.OK(c, h.svc.Info(c.Request.Context()))
}

// respondBackendError forwards a backend failure with its own status and
// message when available, and reports anything else as a gateway failure.
func respondBackendError(c *gin.Context, err error, fallback string) {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		response.Abort(c, apiErr.Status, apiErr.Message)
		return
	}
	response.BadGateway(c, fallback)
}
