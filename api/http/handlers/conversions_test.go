package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/atsconvert/pkg/resume"
)

type fakeConversionRepo struct {
	meta      map[uuid.UUID]resume.Conversion
	converted map[uuid.UUID]resume.Converted
}

func newFakeConversionRepo() *fakeConversionRepo {
	return &fakeConversionRepo{
		meta:      map[uuid.UUID]resume.Conversion{},
		converted: map[uuid.UUID]resume.Converted{},
	}
}

func (r *fakeConversionRepo) Create(_ context.Context, c resume.Conversion) error {
	r.meta[c.ID] = c
	return nil
}

func (r *fakeConversionRepo) SaveConverted(_ context.Context, cv resume.Converted) error {
	r.converted[cv.ConversionID] = cv
	return nil
}

func (r *fakeConversionRepo) GetConverted(_ context.Context, id uuid.UUID) (resume.Converted, error) {
	cv, ok := r.converted[id]
	if !ok {
		return resume.Converted{}, pgx.ErrNoRows
	}
	return cv, nil
}

func (r *fakeConversionRepo) GetMetaForOwner(_ context.Context, ownerID, id uuid.UUID) (resume.Conversion, error) {
	m, ok := r.meta[id]
	if !ok || m.OwnerID != ownerID {
		return resume.Conversion{}, pgx.ErrNoRows
	}
	return m, nil
}

func (r *fakeConversionRepo) GetMetaAny(_ context.Context, id uuid.UUID) (resume.Conversion, error) {
	m, ok := r.meta[id]
	if !ok {
		return resume.Conversion{}, pgx.ErrNoRows
	}
	return m, nil
}

func (r *fakeConversionRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, _, _ int) ([]resume.Conversion, error) {
	var out []resume.Conversion
	for _, m := range r.meta {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeConversionRepo) ListAll(_ context.Context, _, _ int) ([]resume.Conversion, error) {
	var out []resume.Conversion
	for _, m := range r.meta {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeConversionRepo) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) (resume.Conversion, error) {
	m, err := r.GetMetaForOwner(ctx, ownerID, id)
	if err != nil {
		return resume.Conversion{}, err
	}
	delete(r.meta, id)
	delete(r.converted, id)
	return m, nil
}

func (r *fakeConversionRepo) DeleteAny(ctx context.Context, id uuid.UUID) (resume.Conversion, error) {
	m, err := r.GetMetaAny(ctx, id)
	if err != nil {
		return resume.Conversion{}, err
	}
	delete(r.meta, id)
	delete(r.converted, id)
	return m, nil
}

func asUser(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", userID.String())
		return c.Next()
	}
}

func TestDownloadTextFixedFilename(t *testing.T) {
	repo := newFakeConversionRepo()
	owner := uuid.New()
	id := uuid.New()
	repo.meta[id] = resume.Conversion{ID: id, OwnerID: owner, Filename: "cv.pdf"}
	repo.converted[id] = resume.Converted{ConversionID: id, Text: "Skills\n\n* Go"}

	app := fiber.New()
	h := NewConversionsHandler(repo)
	app.Get("/conversions/:id/text", asUser(owner), h.DownloadText)

	req := httptest.NewRequest("GET", "/conversions/"+id.String()+"/text", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="converted_resume.txt"`, resp.Header.Get(fiber.HeaderContentDisposition))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Skills\n\n* Go", string(body))
}

func TestDownloadTextForeignConversion(t *testing.T) {
	repo := newFakeConversionRepo()
	id := uuid.New()
	repo.meta[id] = resume.Conversion{ID: id, OwnerID: uuid.New()}

	app := fiber.New()
	h := NewConversionsHandler(repo)
	app.Get("/conversions/:id/text", asUser(uuid.New()), h.DownloadText)

	req := httptest.NewRequest("GET", "/conversions/"+id.String()+"/text", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteConversion(t *testing.T) {
	repo := newFakeConversionRepo()
	owner := uuid.New()
	id := uuid.New()
	repo.meta[id] = resume.Conversion{ID: id, OwnerID: owner, StorageURI: "uploads/nonexistent.pdf"}

	app := fiber.New()
	h := NewConversionsHandler(repo)
	app.Delete("/conversions/:id", asUser(owner), h.Delete)

	req := httptest.NewRequest("DELETE", "/conversions/"+id.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, repo.meta)
}
