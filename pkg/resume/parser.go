package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	reXMLTags   = regexp.MustCompile(`<[^>]+>`)
	reInlineWS  = regexp.MustCompile(`[ \t\r\f\v]+`)
	reBlankRuns = regexp.MustCompile(`\n+`)
)

// ExtractText достаёт плоский текст из файла резюме.
// Supported: .pdf and .docx. The normalizer downstream only needs section
// headings on their own lines and recognizable bullet glyphs, which both
// extractors preserve.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	default:
		return "", errors.New("unsupported file format: only pdf and docx are allowed")
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return tidyWhitespace(buf.String()), nil
}

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	docXML, err := readDocumentXML(zr)
	if err != nil {
		return "", err
	}
	txt := string(docXML)
	// Paragraph ends become newlines so section headings stay on their
	// own lines; everything else markup-wise is thrown away.
	txt = strings.ReplaceAll(txt, "</w:p>", "\n")
	txt = strings.ReplaceAll(txt, "<w:tab/>", "\t")
	txt = reXMLTags.ReplaceAllString(txt, " ")
	txt = xmlEntities.Replace(txt)
	return tidyWhitespace(txt), nil
}

// Заголовки вида "Licenses & Certifications" приходят из docx как "&amp;".
var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func readDocumentXML(zr *zip.Reader) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, errors.New("no document.xml found in docx")
}

// tidyWhitespace collapses horizontal whitespace and newline runs while
// keeping the line structure the normalizer relies on.
func tidyWhitespace(s string) string {
	s = reInlineWS.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = reBlankRuns.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
