package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/coderr-backend/internal/dto"
	"github.com/ignatzorin/coderr-backend/internal/http/handlers/common"
	"github.com/ignatzorin/coderr-backend/internal/repository"
	"github.com/ignatzorin/coderr-backend/internal/service"
)

// ReviewHandler обрабатывает отзывы.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler создаёт новый хэндлер.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ListReviews обрабатывает GET /reviews.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	params := repository.ReviewListParams{
		Ordering: c.Query("ordering"),
	}

	if raw := c.Query("business_user_id"); raw != "" {
		businessUserID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "параметр business_user_id должен быть валидным UUID")
			return
		}
		params.BusinessUserID = &businessUserID
	}

	if raw := c.Query("reviewer_id"); raw != "" {
		reviewerID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "параметр reviewer_id должен быть валидным UUID")
			return
		}
		params.ReviewerID = &reviewerID
	}

	reviews, err := h.reviews.ListReviews(c.Request.Context(), params)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// CreateReview обрабатывает POST /reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateReviewRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	businessUserID, err := uuid.Parse(req.BusinessUser)
	if err != nil {
		common.RespondBadRequest(c, "business_user должен быть валидным UUID")
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), service.ReviewCreateInput{
		BusinessUserID: businessUserID,
		Rating:         req.Rating,
		Description:    req.Description,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetReview обрабатывает GET /reviews/:id.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// UpdateReview обрабатывает PATCH /reviews/:id.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateReviewRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), reviewID, service.ReviewUpdateInput{
		Rating:      req.Rating,
		Description: req.Description,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview обрабатывает DELETE /reviews/:id.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.reviews.DeleteReview(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), reviewID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
