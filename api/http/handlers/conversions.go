package handlers

import (
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/atsconvert/api/http/presenter"
	"github.com/artem13815/atsconvert/pkg/resume"
)

// downloadFilename — фиксированное имя файла для скачивания результата.
const downloadFilename = "converted_resume.txt"

type ConversionsHandler struct {
	repo resume.Repository
}

func NewConversionsHandler(repo resume.Repository) *ConversionsHandler {
	return &ConversionsHandler{repo: repo}
}

// List возвращает список конверсий пользователя (или все, если админ).
// @Summary Список конверсий
// @Tags    Конвертация
// @Produce json
// @Param   limit query int false "Размер страницы"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {array} resume.Conversion
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /conversions [get]
func (h *ConversionsHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	isAdmin, _ := c.Locals("isAdmin").(bool)
	userIDStr, _ := c.Locals("userId").(string)
	uid, _ := uuid.Parse(userIDStr)
	var items []resume.Conversion
	var err error
	if isAdmin {
		items, err = h.repo.ListAll(c.Context(), limit, offset)
	} else {
		items, err = h.repo.ListByOwner(c.Context(), uid, limit, offset)
	}
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list conversions")
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Get возвращает метаданные и нормализованный текст конверсии.
// @Summary Получить конверсию
// @Tags    Конвертация
// @Produce json
// @Param   id path string true "ID конверсии (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /conversions/{id} [get]
func (h *ConversionsHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	userIDStr, _ := c.Locals("userId").(string)
	uid, _ := uuid.Parse(userIDStr)
	var meta resume.Conversion
	if isAdmin {
		meta, err = h.repo.GetMetaAny(c.Context(), id)
	} else {
		meta, err = h.repo.GetMetaForOwner(c.Context(), uid, id)
	}
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "conversion not found")
	}
	cv, _ := h.repo.GetConverted(c.Context(), meta.ID) // may be empty if not converted yet
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"meta":   meta,
		"text":   cv.Text,
		"report": cv.Report,
	})
}

// DownloadText отдаёт нормализованный текст как файл converted_resume.txt.
// @Summary Скачать ATS-текст
// @Tags    Конвертация
// @Produce text/plain
// @Param   id path string true "ID конверсии (UUID)"
// @Security BearerAuth
// @Success 200 {string} string
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /conversions/{id}/text [get]
func (h *ConversionsHandler) DownloadText(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	userIDStr, _ := c.Locals("userId").(string)
	uid, _ := uuid.Parse(userIDStr)
	var meta resume.Conversion
	if isAdmin {
		meta, err = h.repo.GetMetaAny(c.Context(), id)
	} else {
		meta, err = h.repo.GetMetaForOwner(c.Context(), uid, id)
	}
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "conversion not found")
	}
	cv, err := h.repo.GetConverted(c.Context(), meta.ID)
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "converted text not found")
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+downloadFilename+`"`)
	return c.SendString(cv.Text)
}

// DownloadOriginal скачивает исходный файл резюме.
// @Summary Скачать исходный файл
// @Tags    Конвертация
// @Produce application/octet-stream
// @Param   id path string true "ID конверсии (UUID)"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /conversions/{id}/file [get]
func (h *ConversionsHandler) DownloadOriginal(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	userIDStr, _ := c.Locals("userId").(string)
	uid, _ := uuid.Parse(userIDStr)
	var meta resume.Conversion
	if isAdmin {
		meta, err = h.repo.GetMetaAny(c.Context(), id)
	} else {
		meta, err = h.repo.GetMetaForOwner(c.Context(), uid, id)
	}
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "conversion not found")
	}
	return c.Download(meta.StorageURI, meta.Filename)
}

// Delete удаляет конверсию, её текст и файл на диске.
// @Summary Удалить конверсию
// @Tags    Конвертация
// @Param   id path string true "ID конверсии (UUID)"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /conversions/{id} [delete]
func (h *ConversionsHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	userIDStr, _ := c.Locals("userId").(string)
	uid, _ := uuid.Parse(userIDStr)
	var meta resume.Conversion
	if isAdmin {
		meta, err = h.repo.DeleteAny(c.Context(), id)
	} else {
		meta, err = h.repo.DeleteForOwner(c.Context(), uid, id)
	}
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "conversion not found")
	}
	_ = os.Remove(meta.StorageURI)
	return c.SendStatus(http.StatusNoContent)
}
