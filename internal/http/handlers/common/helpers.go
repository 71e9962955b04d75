package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/coderr-backend/internal/dto"
	"github.com/ignatzorin/coderr-backend/internal/http/middleware"
	"github.com/ignatzorin/coderr-backend/internal/logger"
	"github.com/ignatzorin/coderr-backend/internal/pkg/apperror"
)

var (
	// ErrUserNotFound is returned when user is not found in context
	ErrUserNotFound = errors.New("пользователь не найден в контексте")

	// ErrInvalidUUID is returned when UUID parsing fails
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentUserID extracts user ID from Gin context
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}

	return userID, nil
}

// CurrentUserIsStaff extracts the staff flag from Gin context
func CurrentUserIsStaff(c *gin.Context) bool {
	raw, exists := c.Get(middleware.ContextIsStaffKey)
	if !exists {
		return false
	}
	isStaff, ok := raw.(bool)
	return ok && isStaff
}

// ParseUUIDParam parses UUID from URL parameter
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}

// BindAndValidate binds JSON request and returns properly formatted error
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("ошибка валидации запроса: %w", err)
	}
	return nil
}

// RespondError sends a standardized error response
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondAppError maps an application error to its HTTP status.
// Unknown errors are logged and masked as 500.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		RespondError(c, appErr.HTTPStatus, appErr.Message)
		return
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("Request error")
	}

	RespondError(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	RespondError(c, http.StatusBadRequest, message)
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// ParseIntQuery reads an integer query parameter. The second return value
// is false when the parameter is present but unparseable.
func ParseIntQuery(c *gin.Context, key string, fallback int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// GetPagination extracts page_size and offset via page number with defaults
func GetPagination(c *gin.Context) (limit, offset int, ok bool) {
	limit, ok = ParseIntQuery(c, "page_size", 20)
	if !ok {
		return 0, 0, false
	}
	page, pageOK := ParseIntQuery(c, "page", 1)
	if !pageOK {
		return 0, 0, false
	}

	if limit < 1 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit, true
}
