package handlers

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/domain/auth"
	"kardex/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the auth endpoints.
func (h *AuthHandler) RegisterRoutes(public *gin.RouterGroup) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user.ID)
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.LoginResponse{
		Token: session.Token,
		User:  dto.FromUser(session.User),
	})
}
