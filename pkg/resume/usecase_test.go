package resume

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertServiceEndToEnd(t *testing.T) {
	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Skills</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go, Docker</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>• Shipped the product</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := buildDocx(t, doc)

	svc := NewConvertService()
	res, err := svc.Convert(context.Background(), "resume.docx", data)
	require.NoError(t, err)

	want := "Skills\n\n* Go\n* Docker\nExperience\n\n* Shipped the product"
	assert.Equal(t, want, res.Text)
	assert.Equal(t, "resume.docx", res.Filename)
	assert.Positive(t, res.RawChars)
	assert.Equal(t, 2, res.Report.SectionMarkers)
	assert.Equal(t, 2, res.Report.SkillPhrases)
	assert.Equal(t, 1, res.Report.BulletLines)
}

func TestConvertServiceEmptyContent(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body></w:body></w:document>`)
	_, err := NewConvertService().Convert(context.Background(), "resume.docx", data)
	assert.ErrorContains(t, err, "empty resume content")
}

func TestConvertServiceUnsupportedFormat(t *testing.T) {
	_, err := NewConvertService().Convert(context.Background(), "resume.txt", []byte("hi"))
	assert.ErrorContains(t, err, "unsupported file format")
}
