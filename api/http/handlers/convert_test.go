package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/atsconvert/pkg/ats"
	"github.com/artem13815/atsconvert/pkg/resume"
)

type fakeConvertService struct {
	result resume.ConvertResult
	err    error
}

func (s fakeConvertService) Convert(_ context.Context, filename string, data []byte) (resume.ConvertResult, error) {
	if s.err != nil {
		return resume.ConvertResult{}, s.err
	}
	r := s.result
	r.Filename = filename
	r.RawChars = len(data)
	return r, nil
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestConvertUploadPersistsAfterSuccess(t *testing.T) {
	repo := newFakeConversionRepo()
	svc := fakeConvertService{result: resume.ConvertResult{
		Text:   "Skills\n\n* Go",
		Report: ats.Report{SectionMarkers: 1, SkillPhrases: 1},
	}}
	dir := t.TempDir()
	owner := uuid.New()

	app := fiber.New()
	h := NewConvertHandler(svc, repo, 1, dir)
	app.Post("/convert", asUser(owner), h.Convert)

	body, ctype := multipartBody(t, "cv.pdf", []byte("%PDF-1.4 stub"))
	req := httptest.NewRequest("POST", "/convert", body)
	req.Header.Set(fiber.HeaderContentType, ctype)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Len(t, repo.meta, 1)
	for id, m := range repo.meta {
		assert.Equal(t, owner, m.OwnerID)
		assert.Equal(t, "cv.pdf", m.Filename)
		_, statErr := os.Stat(m.StorageURI)
		assert.NoError(t, statErr, "original file must be stored on disk")
		assert.Equal(t, "Skills\n\n* Go", repo.converted[id].Text)
	}
}

func TestConvertRejectsUnsupportedExtension(t *testing.T) {
	repo := newFakeConversionRepo()
	app := fiber.New()
	h := NewConvertHandler(fakeConvertService{}, repo, 1, t.TempDir())
	app.Post("/convert", asUser(uuid.New()), h.Convert)

	body, ctype := multipartBody(t, "cv.txt", []byte("plain text"))
	req := httptest.NewRequest("POST", "/convert", body)
	req.Header.Set(fiber.HeaderContentType, ctype)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, repo.meta)
}

func TestConvertRejectsOversizedUpload(t *testing.T) {
	repo := newFakeConversionRepo()
	app := fiber.New()
	h := NewConvertHandler(fakeConvertService{}, repo, 1, t.TempDir())
	app.Post("/convert", asUser(uuid.New()), h.Convert)

	big := bytes.Repeat([]byte("a"), (1<<20)+1)
	body, ctype := multipartBody(t, "cv.pdf", big)
	req := httptest.NewRequest("POST", "/convert", body)
	req.Header.Set(fiber.HeaderContentType, ctype)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, repo.meta)
}

func TestConvertNothingPersistedOnFailure(t *testing.T) {
	repo := newFakeConversionRepo()
	dir := t.TempDir()
	app := fiber.New()
	h := NewConvertHandler(fakeConvertService{err: errors.New("empty resume content")}, repo, 1, dir)
	app.Post("/convert", asUser(uuid.New()), h.Convert)

	body, ctype := multipartBody(t, "cv.docx", []byte("PK stub"))
	req := httptest.NewRequest("POST", "/convert", body)
	req.Header.Set(fiber.HeaderContentType, ctype)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	assert.Empty(t, repo.meta)
	assert.Empty(t, repo.converted)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file may be written for a failed conversion")
}
