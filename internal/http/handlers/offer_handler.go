package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/coderr-backend/internal/dto"
	"github.com/ignatzorin/coderr-backend/internal/http/handlers/common"
	"github.com/ignatzorin/coderr-backend/internal/repository"
	"github.com/ignatzorin/coderr-backend/internal/service"
	"github.com/ignatzorin/coderr-backend/internal/storage"
)

// OfferHandler обрабатывает каталог офферов.
type OfferHandler struct {
	offers  *service.OfferService
	storage *storage.MediaStorage
}

// NewOfferHandler создаёт новый хэндлер.
func NewOfferHandler(offers *service.OfferService, storage *storage.MediaStorage) *OfferHandler {
	return &OfferHandler{offers: offers, storage: storage}
}

// ListOffers обрабатывает GET /offers.
// Нечисловые значения числовых фильтров отклоняются, а не игнорируются.
func (h *OfferHandler) ListOffers(c *gin.Context) {
	params := repository.OfferListParams{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}

	if raw := c.Query("creator_id"); raw != "" {
		creatorID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "параметр creator_id должен быть валидным UUID")
			return
		}
		params.CreatorID = &creatorID
	}

	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondBadRequest(c, "параметр min_price должен быть числом")
			return
		}
		params.MinPrice = &minPrice
	}

	if raw := c.Query("max_delivery_time"); raw != "" {
		maxDelivery, err := strconv.Atoi(raw)
		if err != nil {
			common.RespondBadRequest(c, "параметр max_delivery_time должен быть целым числом")
			return
		}
		params.MaxDeliveryTime = &maxDelivery
	}

	limit, offset, ok := common.GetPagination(c)
	if !ok {
		common.RespondBadRequest(c, "параметры пагинации должны быть целыми числами")
		return
	}
	params.Limit = limit
	params.Offset = offset

	result, err := h.offers.ListOffers(c.Request.Context(), params)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse{
		Count:   result.Total,
		Results: result.Offers,
	})
}

// GetOffer обрабатывает GET /offers/:id.
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	offer, err := h.offers.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// CreateOffer обрабатывает POST /offers.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateOfferRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	in := service.OfferCreateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	for _, d := range req.Details {
		in.Details = append(in.Details, service.OfferDetailInput{
			Title:              d.Title,
			Revisions:          d.Revisions,
			DeliveryTimeInDays: d.DeliveryTimeInDays,
			Price:              d.Price,
			Features:           d.Features,
			OfferType:          d.OfferType,
		})
	}

	offer, err := h.offers.CreateOffer(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offer)
}

// UpdateOffer обрабатывает PATCH /offers/:id.
func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateOfferRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	in := service.OfferUpdateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	for _, d := range req.Details {
		upd := service.OfferDetailUpdate{
			OfferType:          d.OfferType,
			Title:              d.Title,
			Revisions:          d.Revisions,
			DeliveryTimeInDays: d.DeliveryTimeInDays,
			Price:              d.Price,
			Features:           d.Features,
		}
		if d.ID != nil {
			detailID, err := uuid.Parse(*d.ID)
			if err != nil {
				common.RespondBadRequest(c, "id тарифа должен быть валидным UUID")
				return
			}
			upd.ID = &detailID
		}
		in.Details = append(in.Details, upd)
	}

	offer, err := h.offers.UpdateOffer(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), offerID, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// DeleteOffer обрабатывает DELETE /offers/:id.
func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.offers.DeleteOffer(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), offerID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage обрабатывает POST /offers/:id/image.
func (h *OfferHandler) UploadImage(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		common.RespondBadRequest(c, "поле image обязательно")
		return
	}

	src, err := openValidatedImage(file)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	defer src.Close()

	save := func(ctx context.Context) (string, error) {
		path, _, err := h.storage.Save(ctx, actorID, file.Filename, src)
		return path, err
	}

	offer, err := h.offers.SetOfferImage(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), offerID, save)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// CreateOfferDetail обрабатывает POST /offerdetails.
// Тариф добавляется только владельцем родительского оффера.
func (h *OfferHandler) CreateOfferDetail(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateOfferDetailRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	offerID, err := uuid.Parse(req.Offer)
	if err != nil {
		common.RespondBadRequest(c, "поле offer должно быть валидным UUID")
		return
	}

	detail, err := h.offers.AddOfferDetail(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), offerID, service.OfferDetailInput{
		Title:              req.Title,
		Revisions:          req.Revisions,
		DeliveryTimeInDays: req.DeliveryTimeInDays,
		Price:              req.Price,
		Features:           req.Features,
		OfferType:          req.OfferType,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, detail)
}

// GetOfferDetail обрабатывает GET /offerdetails/:id.
func (h *OfferHandler) GetOfferDetail(c *gin.Context) {
	detailID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	detail, err := h.offers.GetOfferDetail(c.Request.Context(), detailID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListOfferDetails обрабатывает GET /offerdetails.
func (h *OfferHandler) ListOfferDetails(c *gin.Context) {
	limit, offset, ok := common.GetPagination(c)
	if !ok {
		common.RespondBadRequest(c, "параметры пагинации должны быть целыми числами")
		return
	}

	details, err := h.offers.ListOfferDetails(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}
