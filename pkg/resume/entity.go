package resume

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/atsconvert/pkg/ats"
)

// Conversion хранит метаданные загруженного файла.
type Conversion struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"ownerId,omitempty"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	StorageURI string    `json:"storageUri,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Converted хранит нормализованный текст и счётчики отчёта.
type Converted struct {
	ConversionID uuid.UUID  `json:"conversionId"`
	Text         string     `json:"text"`
	Report       ats.Report `json:"report"`
}

// Repository — порт доступа к конверсиям.
type Repository interface {
	Create(ctx context.Context, c Conversion) error
	SaveConverted(ctx context.Context, cv Converted) error
	GetConverted(ctx context.Context, conversionID uuid.UUID) (Converted, error)
	// meta
	GetMetaForOwner(ctx context.Context, ownerID, id uuid.UUID) (Conversion, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Conversion, error)
	// admin
	GetMetaAny(ctx context.Context, id uuid.UUID) (Conversion, error)
	ListAll(ctx context.Context, limit, offset int) ([]Conversion, error)
	// delete (returns deleted meta for file cleanup)
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) (Conversion, error)
	DeleteAny(ctx context.Context, id uuid.UUID) (Conversion, error)
}
