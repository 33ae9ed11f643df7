package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/artem13815/atsconvert/pkg/ats"
)

// ConvertResult is a domain DTO with the ATS-ready plain text.
type ConvertResult struct {
	Filename string
	Text     string
	RawChars int
	Report   ats.Report
}

// ConvertService describes the application use case for resume conversion.
type ConvertService interface {
	Convert(ctx context.Context, filename string, data []byte) (ConvertResult, error)
}

type convertService struct {
	normalizer *ats.Normalizer
}

// NewConvertService creates the default implementation.
func NewConvertService() ConvertService {
	return &convertService{normalizer: ats.New()}
}

func (s *convertService) Convert(_ context.Context, filename string, data []byte) (ConvertResult, error) {
	raw, err := ExtractText(filename, data)
	if err != nil {
		return ConvertResult{}, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ConvertResult{}, fmt.Errorf("empty resume content")
	}
	// Normalization itself is total; only extraction can fail.
	text, report := s.normalizer.NormalizeWithReport(raw)
	return ConvertResult{
		Filename: filename,
		Text:     text,
		RawChars: len(raw),
		Report:   report,
	}, nil
}
