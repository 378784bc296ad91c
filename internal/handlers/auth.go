package handlers

import (
	"context"
	"net/http"

	"taskclinic/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, input models.RegisterInput) (*models.AuthResult, error)
	Login(ctx context.Context, input models.LoginInput) (*models.AuthResult, error)
	Me(ctx context.Context, caller models.Caller) (*models.User, error)
	UpdateProfile(ctx context.Context, caller models.Caller, patch models.ProfilePatch) (*models.User, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var patch models.ProfilePatch
	if !bindJSON(c, &patch) {
		return
	}
	user, err := h.authService.UpdateProfile(c.Request.Context(), caller, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
