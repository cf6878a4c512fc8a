package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/resume-matcher/internal/models"
)

// TextExtractor turns resume files into plain text. It never returns an error:
// failures are reported through ExtractionResult.Status so that one bad file
// cannot abort a batch.
type TextExtractor interface {
	ExtractFile(filePath string, kind models.DocumentKind) models.ExtractionResult
	ExtractBytes(data []byte, kind models.DocumentKind) models.ExtractionResult
}

var ErrUnsupportedKind = errors.New("unsupported document type")

var (
	docxHeaderPart = regexp.MustCompile(`^word/header[0-9]*\.xml$`)
	docxFooterPart = regexp.MustCompile(`^word/footer[0-9]*\.xml$`)
)

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// KindFromFilename maps a file extension to a document kind, case-insensitively.
func KindFromFilename(name string) models.DocumentKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return models.KindPDF
	case ".docx":
		return models.KindDOCX
	default:
		return models.KindUnsupported
	}
}

// ExtractFile implements TextExtractor.
func (e *textExtractor) ExtractFile(filePath string, kind models.DocumentKind) (res models.ExtractionResult) {
	defer recoverExtraction(&res)

	switch kind {
	case models.KindPDF:
		f, r, err := pdf.Open(filePath)
		if err != nil {
			return failed(fmt.Errorf("failed to open PDF: %w", err))
		}
		defer f.Close()
		return readPDF(r)
	case models.KindDOCX:
		data, err := os.ReadFile(filePath)
		if err != nil {
			return failed(fmt.Errorf("failed to open docx: %w", err))
		}
		return readDocx(data)
	default:
		return unsupported(kind)
	}
}

// ExtractBytes implements TextExtractor.
func (e *textExtractor) ExtractBytes(data []byte, kind models.DocumentKind) (res models.ExtractionResult) {
	defer recoverExtraction(&res)

	switch kind {
	case models.KindPDF:
		r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return failed(fmt.Errorf("failed to read PDF: %w", err))
		}
		return readPDF(r)
	case models.KindDOCX:
		return readDocx(data)
	default:
		return unsupported(kind)
	}
}

func readPDF(r *pdf.Reader) models.ExtractionResult {
	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return failed(fmt.Errorf("failed to read page %d: %w", pageIndex, err))
		}
		textBuilder.WriteString(text)
	}

	res := succeeded(textBuilder.String())
	res.PageCount = totalPage
	return res
}

// readDocx returns header, body and footer text, in that order.
func readDocx(data []byte) models.ExtractionResult {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return failed(fmt.Errorf("failed to parse docx: %w", err))
	}
	defer doc.Close()

	body, err := wordprocessingMLText(doc.Editable().GetContent())
	if err != nil {
		return failed(fmt.Errorf("failed to decode docx content: %w", err))
	}

	headers, footers := docxHeaderFooterText(data)
	return succeeded(headers + body + footers)
}

// docxHeaderFooterText reads the header and footer parts, which the docx
// reader does not expose. Parts are taken in archive order; unreadable ones
// are skipped.
func docxHeaderFooterText(data []byte) (string, string) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", ""
	}

	var headers, footers strings.Builder
	for _, f := range zr.File {
		var dst *strings.Builder
		switch {
		case docxHeaderPart.MatchString(f.Name):
			dst = &headers
		case docxFooterPart.MatchString(f.Name):
			dst = &footers
		default:
			continue
		}

		text, err := zipPartText(f)
		if err != nil {
			continue
		}
		dst.WriteString(text)
	}

	return headers.String(), footers.String()
}

func zipPartText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return wordprocessingMLText(string(content))
}

// wordprocessingMLText reduces document.xml to text: runs are concatenated,
// paragraphs and breaks become newlines, in-run tabs become tabs.
func wordprocessingMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var b strings.Builder
	inText := false
	runDepth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				runDepth++
			case "t":
				inText = true
			case "tab":
				if runDepth > 0 {
					b.WriteByte('\t')
				}
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				runDepth--
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}

func recoverExtraction(res *models.ExtractionResult) {
	// The PDF reader panics on some malformed inputs.
	if r := recover(); r != nil {
		*res = failed(fmt.Errorf("extraction panicked: %v", r))
	}
}

func succeeded(text string) models.ExtractionResult {
	if strings.TrimSpace(text) == "" {
		return models.ExtractionResult{Text: text, Status: models.ExtractionEmpty}
	}
	return models.ExtractionResult{Text: text, Status: models.ExtractionOK}
}

func failed(err error) models.ExtractionResult {
	return models.ExtractionResult{Status: models.ExtractionFailed, Err: err}
}

func unsupported(kind models.DocumentKind) models.ExtractionResult {
	return models.ExtractionResult{
		Status: models.ExtractionUnsupported,
		Err:    fmt.Errorf("%w: %q", ErrUnsupportedKind, string(kind)),
	}
}
