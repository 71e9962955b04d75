package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/coderr-backend/internal/dto"
	"github.com/ignatzorin/coderr-backend/internal/http/handlers/common"
	"github.com/ignatzorin/coderr-backend/internal/service"
)

// AuthHandler обрабатывает регистрацию и вход.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт новый хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register обрабатывает POST /registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		RepeatedPassword: req.RepeatedPassword,
		Type:             req.Type,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token:    result.Token,
		Username: result.User.Username,
		Email:    result.User.Email,
		UserID:   result.User.ID,
	})
}

// Login обрабатывает POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:    result.Token,
		Username: result.User.Username,
		Email:    result.User.Email,
		UserID:   result.User.ID,
	})
}
