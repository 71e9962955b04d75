package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/coderr-backend/internal/dto"
	"github.com/ignatzorin/coderr-backend/internal/http/handlers/common"
	"github.com/ignatzorin/coderr-backend/internal/service"
)

// OrderHandler обрабатывает заказы.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler создаёт новый хэндлер.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListOrders обрабатывает GET /orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), actorID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// CreateOrder обрабатывает POST /orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateOrderRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	offerDetailID, err := uuid.Parse(req.OfferDetailID)
	if err != nil {
		common.RespondBadRequest(c, "offer_detail_id должен быть валидным UUID")
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), offerDetailID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder обрабатывает GET /orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), orderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder обрабатывает PATCH /orders/:id. Меняется только статус.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateOrderRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), orderID, req.Status)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder обрабатывает DELETE /orders/:id.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), orderID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CountInProgress обрабатывает GET /order-count/:business_user_id.
func (h *OrderHandler) CountInProgress(c *gin.Context) {
	businessUserID, err := common.ParseUUIDParam(c, "business_user_id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	count, err := h.orders.CountInProgress(c.Request.Context(), businessUserID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderCountResponse{OrderCount: count})
}

// CountCompleted обрабатывает GET /completed-order-count/:business_user_id.
func (h *OrderHandler) CountCompleted(c *gin.Context) {
	businessUserID, err := common.ParseUUIDParam(c, "business_user_id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	count, err := h.orders.CountCompleted(c.Request.Context(), businessUserID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CompletedOrderCountResponse{CompletedOrderCount: count})
}
