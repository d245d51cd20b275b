package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightnest/cleaning-booking-backend/internal/auth"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/response"
)

type AuthHandler struct {
	authenticator *auth.Authenticator
	jwtManager    *auth.JWTManager
}

func NewAuthHandler(authenticator *auth.Authenticator, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

//
// POST /v1/auth/login
//

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	token, err := h.authenticator.Login(req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.jwtManager.TTL().Seconds()),
	})
}

//
// GET /v1/auth/me
//

func (h *AuthHandler) Me(c *gin.Context) {
	email := auth.GetAdminEmail(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{Email: email, Role: auth.RoleAdmin})
}
