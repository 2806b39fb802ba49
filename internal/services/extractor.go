package services

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrInvalidInput marks a request with missing or empty fields.
var ErrInvalidInput = errors.New("invalid input")

// ErrEmptyFile is the cause of an ExtractionError for zero-byte uploads.
var ErrEmptyFile = errors.New("file is empty")

// UnsupportedFileTypeError is returned for any extension other than
// .pdf, .docx and .txt.
type UnsupportedFileTypeError struct {
	Ext string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Ext)
}

// ExtractionError wraps a decoder failure for a supported file type.
type ExtractionError struct {
	Path string
	Ext  string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s file %s: %v", e.Ext, filepath.Base(e.Path), e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err is caused by the uploaded file rather
// than by the service.
func IsUserError(err error) bool {
	var unsupported *UnsupportedFileTypeError
	var extraction *ExtractionError
	return errors.As(err, &unsupported) || errors.As(err, &extraction)
}

// Decoder turns a file on disk into plain text.
type Decoder func(path string) (string, error)

type TextExtractor interface {
	// Extract dispatches on the file extension of path.
	Extract(path string) (string, error)
	// ExtractAs decodes path as the given extension regardless of its name.
	ExtractAs(path, ext string) (string, error)
}

type textExtractor struct {
	decoders map[string]Decoder
}

// NewTextExtractor returns an extractor using the PDF, DOCX and plain-text
// decoders.
func NewTextExtractor() TextExtractor {
	return NewTextExtractorWithDecoders(map[string]Decoder{
		".pdf":  DecodePDF,
		".docx": DecodeDOCX,
		".txt":  DecodeTXT,
	})
}

// NewTextExtractorWithDecoders replaces the decoders. Only .pdf, .docx and
// .txt keys are honoured.
func NewTextExtractorWithDecoders(decoders map[string]Decoder) TextExtractor {
	filtered := make(map[string]Decoder, len(decoders))
	for ext, d := range decoders {
		ext = normalizeExt(ext)
		if isSupportedExt(ext) && d != nil {
			filtered[ext] = d
		}
	}
	return &textExtractor{decoders: filtered}
}

func (t *textExtractor) Extract(path string) (string, error) {
	return t.ExtractAs(path, filepath.Ext(path))
}

func (t *textExtractor) ExtractAs(path, ext string) (string, error) {
	ext = normalizeExt(ext)
	decode, ok := t.decoders[ext]
	if !ok {
		return "", &UnsupportedFileTypeError{Ext: ext}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Ext: ext, Err: err}
	}
	if info.Size() == 0 {
		return "", &ExtractionError{Path: path, Ext: ext, Err: ErrEmptyFile}
	}

	text, err := decode(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Ext: ext, Err: err}
	}
	return text, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func isSupportedExt(ext string) bool {
	switch ext {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

// DecodePDF reads every page's plain text. Pages that fail to render are
// skipped. The pdf reader panics on broken cross-reference data; that is
// reported as an error.
func DecodePDF(filePath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>`)
	docxTab          = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// DecodeDOCX returns the text of the main document part with one line per
// paragraph.
func DecodeDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, " ")
	content = xmlTag.ReplaceAllString(content, "")

	return CleanText(html.UnescapeString(content)), nil
}

func DecodeTXT(filePath string) (string, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CleanText trims each line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
