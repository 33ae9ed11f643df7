package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/atsconvert/api/http/presenter"
	"github.com/artem13815/atsconvert/pkg/resume"
)

type ConvertHandler struct {
	svc  resume.ConvertService
	repo resume.Repository
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
	baseDir  string
}

func NewConvertHandler(svc resume.ConvertService, repo resume.Repository, maxUploadMB int, baseDir string) *ConvertHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 15
	}
	return &ConvertHandler{svc: svc, repo: repo, maxBytes: int64(maxUploadMB) << 20, baseDir: baseDir}
}

// Convert обрабатывает загруженное резюме (PDF/DOCX): извлекает текст,
// нормализует буллеты и секции и сохраняет результат.
// @Summary Конвертация резюме в ATS-текст
// @Description Принимает файл резюме в формате PDF или DOCX, извлекает текст и приводит его к ATS-дружелюбному виду.
// @Tags    Конвертация
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Файл резюме (PDF или DOCX)"
// @Security BearerAuth
// @Success 201 {object} map[string]any "Нормализованный текст и служебная информация"
// @Failure 400 {object} presenter.ErrorResponse "Ошибка валидации или чтения файла"
// @Failure 500 {object} presenter.ErrorResponse "Внутренняя ошибка сервиса"
// @Router  /convert [post]
func (h *ConvertHandler) Convert(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf or docx)")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" && ext != ".docx" {
		return presenter.Error(c, http.StatusBadRequest, "unsupported file format: only pdf and docx are allowed")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Convert(c.Context(), fh.Filename, data)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, fmt.Sprintf("conversion failed: %v", err))
	}

	// Persist only after successful conversion
	if err := os.MkdirAll(h.baseDir, 0o755); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to prepare storage")
	}
	id := uuid.New()
	dst := filepath.Join(h.baseDir, id.String()+ext)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to store file")
	}
	ownerIDStr, _ := c.Locals("userId").(string)
	ownerID, _ := uuid.Parse(ownerIDStr)
	meta := resume.Conversion{
		ID:         id,
		OwnerID:    ownerID,
		Filename:   fh.Filename,
		MimeType:   fh.Header.Get("Content-Type"),
		Size:       fh.Size,
		StorageURI: dst,
	}
	if err := h.repo.Create(c.Context(), meta); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save metadata")
	}
	cv := resume.Converted{ConversionID: id, Text: result.Text, Report: result.Report}
	if err := h.repo.SaveConverted(c.Context(), cv); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save converted text")
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"id":       id.String(),
		"filename": result.Filename,
		"sizeB":    len(data),
		"rawChars": result.RawChars,
		"text":     result.Text,
		"report":   result.Report,
	})
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
