package handlers

import (
	"net/http"
	"strings"

	"jobnest_backend/internal/services"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"
	"jobnest_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewAuthHandler(base *BaseHandler, profileService services.ProfileService) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.Use(h.RequireAuth())
	{
		auth.POST("/register", h.Register)
	}
}

// Register creates the profile of the token's subject. When the token carries
// an email claim it must match the verified email in the body.
func (h *AuthHandler) Register(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if claimed := c.GetString(contextkeys.EmailKey); claimed != "" && !strings.EqualFold(strings.TrimSpace(claimed), strings.TrimSpace(req.Email)) {
		apperrors.HandleError(c, apperrors.NewForbiddenError("auth", "Email does not match the authenticated user"))
		return
	}

	resp, err := h.profileService.Register(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
