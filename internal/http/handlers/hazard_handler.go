package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/satraksha/hazard-backend/internal/dto"
	"github.com/satraksha/hazard-backend/internal/http/handlers/common"
	"github.com/satraksha/hazard-backend/internal/pkg/apperror"
	"github.com/satraksha/hazard-backend/internal/service"
)

// Разрешённые типы фотографий опасностей
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Разрешённые расширения файлов
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// HazardHandler предоставляет HTTP слой для отчётов об опасности.
type HazardHandler struct {
	hazards         *service.HazardService
	maxUploadSizeMB int64
}

// NewHazardHandler создаёт хэндлер.
func NewHazardHandler(hazards *service.HazardService, maxUploadSizeMB int64) *HazardHandler {
	return &HazardHandler{
		hazards:         hazards,
		maxUploadSizeMB: maxUploadSizeMB,
	}
}

// Create обрабатывает POST /hazards (multipart/form-data).
func (h *HazardHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	lat, err := parseFloatForm(c, "lat")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	lng, err := parseFloatForm(c, "lng")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	hazardType := strings.TrimSpace(c.PostForm("hazard_type"))
	if hazardType == "" {
		common.RespondBadRequest(c, "поле hazard_type обязательно")
		return
	}

	var description *string
	if raw := strings.TrimSpace(c.PostForm("description")); raw != "" {
		description = &raw
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "поле file обязательно")
		return
	}

	if file.Size == 0 {
		common.RespondBadRequest(c, "файл не может быть пустым")
		return
	}
	if file.Size > h.maxUploadSizeMB*1024*1024 {
		common.RespondBadRequest(c, fmt.Sprintf("файл превышает %d МБ", h.maxUploadSizeMB))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		common.RespondBadRequest(c, "неподдерживаемый формат файла. Разрешены: .jpg, .jpeg, .png")
		return
	}

	src, err := file.Open()
	if err != nil {
		common.RespondInternalError(c, err.Error())
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return
	}

	// Проверяем магические байты: реальный тип файла, а не расширение.
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		common.RespondBadRequest(c, "не удалось определить тип файла. Разрешены только изображения")
		return
	}

	contentType := kind.MIME.Value
	if !allowedMimeTypes[contentType] {
		common.RespondBadRequest(c, fmt.Sprintf("неподдерживаемый тип файла (%s). Разрешены изображения: image/jpeg, image/png", contentType))
		return
	}

	hazard, err := h.hazards.Report(c.Request.Context(), service.ReportInput{
		UserID:      userID,
		Lat:         lat,
		Lng:         lng,
		HazardType:  hazardType,
		Description: description,
		Photo:       data,
		Filename:    file.Filename,
		ContentType: contentType,
	})
	if err != nil {
		// Отклонение классификатором — отдельный контракт ответа.
		if apperror.IsClassifierRejected(err) {
			c.JSON(http.StatusUnprocessableEntity, dto.RejectionResponse{
				Success: false,
				Message: "Image does not appear to show the reported hazard",
			})
			return
		}
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, hazard)
}

// List обрабатывает GET /hazards.
func (h *HazardHandler) List(c *gin.Context) {
	hazards, err := h.hazards.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, hazards)
}

// Get обрабатывает GET /hazards/:id.
func (h *HazardHandler) Get(c *gin.Context) {
	id, err := common.ParseInt64Param(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	hazard, err := h.hazards.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, hazard)
}

// ListMine обрабатывает GET /hazards/my.
func (h *HazardHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	hazards, err := h.hazards.ListMine(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, hazards)
}

// Nearby обрабатывает GET /hazards/nearby?lat=..&lng=..&radius_km=..
func (h *HazardHandler) Nearby(c *gin.Context) {
	lat, err := common.RequireFloatQuery(c, "lat")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	lng, err := common.RequireFloatQuery(c, "lng")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	radiusKM, err := common.ParseFloatQuery(c, "radius_km", 0)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	hazards, err := h.hazards.Nearby(c.Request.Context(), lat, lng, radiusKM)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, hazards)
}

// UpdateStatus обрабатывает PUT /hazards/:id/status (только admin).
func (h *HazardHandler) UpdateStatus(c *gin.Context) {
	id, err := common.ParseInt64Param(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	hazard, err := h.hazards.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, hazard)
}

// Delete обрабатывает DELETE /hazards/:id (только admin).
func (h *HazardHandler) Delete(c *gin.Context) {
	id, err := common.ParseInt64Param(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.hazards.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseFloatForm читает обязательное числовое поле формы.
func parseFloatForm(c *gin.Context, key string) (float64, error) {
	raw := c.PostForm(key)
	if raw == "" {
		return 0, fmt.Errorf("поле %s обязательно", key)
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("поле %s должно быть числом", key)
	}
	return parsed, nil
}
