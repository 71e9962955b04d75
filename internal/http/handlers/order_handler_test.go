package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/coderr-backend/internal/http/middleware"
)

func TestOrderHandler_CreateOrder_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &OrderHandler{}
	r.POST("/orders", handler.CreateOrder)

	req, _ := http.NewRequest("POST", "/orders", strings.NewReader(`{"offer_detail_id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_CreateOrder_InvalidDetailID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &OrderHandler{}
	r.POST("/orders", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.CreateOrder(c)
	})

	req, _ := http.NewRequest("POST", "/orders", strings.NewReader(`{"offer_detail_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_GetOrder_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &OrderHandler{}
	r.GET("/orders/:id", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.GetOrder(c)
	})

	req, _ := http.NewRequest("GET", "/orders/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_CountInProgress_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &OrderHandler{}
	r.GET("/order-count/:business_user_id", handler.CountInProgress)

	req, _ := http.NewRequest("GET", "/order-count/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
