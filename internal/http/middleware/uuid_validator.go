package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDValidator отклоняет запрос до хэндлера, если path-параметр не
// является валидным UUID. Навешивается на все маршруты вида
// /offers/:id, /orders/:id, /profile/:pk и счётчики заказов.
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "параметр " + paramName + " обязателен",
			})
			return
		}

		if _, err := uuid.Parse(raw); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "параметр " + paramName + " должен быть валидным UUID",
			})
			return
		}

		c.Next()
	}
}
