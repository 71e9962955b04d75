package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/coderr-backend/internal/dto"
	"github.com/ignatzorin/coderr-backend/internal/http/handlers/common"
	"github.com/ignatzorin/coderr-backend/internal/service"
	"github.com/ignatzorin/coderr-backend/internal/storage"
)

// ProfileHandler обрабатывает просмотр и редактирование профилей.
type ProfileHandler struct {
	profiles *service.ProfileService
	storage  *storage.MediaStorage
}

// NewProfileHandler создаёт новый хэндлер.
func NewProfileHandler(profiles *service.ProfileService, storage *storage.MediaStorage) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, storage: storage}
}

// GetProfile обрабатывает GET /profile/:pk.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "pk")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile обрабатывает PATCH /profile/:pk.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	userID, err := common.ParseUUIDParam(c, "pk")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateProfileRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), userID, service.ProfileUpdateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Location:     req.Location,
		Tel:          req.Tel,
		Description:  req.Description,
		WorkingHours: req.WorkingHours,
		Email:        req.Email,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadFile обрабатывает POST /profile/:pk/file.
func (h *ProfileHandler) UploadFile(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	userID, err := common.ParseUUIDParam(c, "pk")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "поле file обязательно")
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

	profile, err := h.profiles.SetProfileFile(c.Request.Context(), actorID, common.CurrentUserIsStaff(c), userID, save)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FileUploadResponse{File: *profile.File})
}

// ListBusinessProfiles обрабатывает GET /profiles/business.
func (h *ProfileHandler) ListBusinessProfiles(c *gin.Context) {
	profiles, err := h.profiles.ListBusinessProfiles(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// ListCustomerProfiles обрабатывает GET /profiles/customer.
func (h *ProfileHandler) ListCustomerProfiles(c *gin.Context) {
	profiles, err := h.profiles.ListCustomerProfiles(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}
