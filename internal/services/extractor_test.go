package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type countingDecoder struct {
	calls int
	text  string
	err   error
}

func (d *countingDecoder) decode(string) (string, error) {
	d.calls++
	return d.text, d.err
}

func TestTextExtractor_UnsupportedExtensionNeverDecodes(t *testing.T) {
	pdf := &countingDecoder{text: "x"}
	docx := &countingDecoder{text: "x"}
	txt := &countingDecoder{text: "x"}
	extractor := NewTextExtractorWithDecoders(map[string]Decoder{
		".pdf":  pdf.decode,
		".docx": docx.decode,
		".txt":  txt.decode,
	})

	for _, name := range []string{"resume.doc", "resume.png", "resume", "resume.pdf.exe"} {
		t.Run(name, func(t *testing.T) {
			_, err := extractor.Extract(writeFile(t, t.TempDir(), name, "content"))

			var unsupported *UnsupportedFileTypeError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, normalizeExt(filepath.Ext(name)), unsupported.Ext)
		})
	}

	assert.Zero(t, pdf.calls+docx.calls+txt.calls)
}

func TestTextExtractor_ExtensionIsCaseInsensitive(t *testing.T) {
	txt := &countingDecoder{text: "hello"}
	extractor := NewTextExtractorWithDecoders(map[string]Decoder{".txt": txt.decode})

	text, err := extractor.Extract(writeFile(t, t.TempDir(), "RESUME.TXT", "hello"))

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, txt.calls)
}

func TestTextExtractor_ZeroByteFileIsExtractionError(t *testing.T) {
	txt := &countingDecoder{text: "never"}
	extractor := NewTextExtractorWithDecoders(map[string]Decoder{".txt": txt.decode})

	_, err := extractor.Extract(writeFile(t, t.TempDir(), "empty.txt", ""))

	var extraction *ExtractionError
	require.ErrorAs(t, err, &extraction)
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Equal(t, ".txt", extraction.Ext)
	assert.Zero(t, txt.calls)
}

func TestTextExtractor_DecoderFailureIsPropagated(t *testing.T) {
	cause := errors.New("corrupt xref table")
	pdf := &countingDecoder{err: cause}
	extractor := NewTextExtractorWithDecoders(map[string]Decoder{".pdf": pdf.decode})

	_, err := extractor.Extract(writeFile(t, t.TempDir(), "cv.pdf", "%PDF-broken"))

	var extraction *ExtractionError
	require.ErrorAs(t, err, &extraction)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsUserError(err))
}

func TestTextExtractor_EmptyTextIsValid(t *testing.T) {
	pdf := &countingDecoder{text: ""}
	extractor := NewTextExtractorWithDecoders(map[string]Decoder{".pdf": pdf.decode})

	text, err := extractor.Extract(writeFile(t, t.TempDir(), "scan.pdf", "%PDF-1.4"))

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTextExtractor_MissingFile(t *testing.T) {
	_, err := NewTextExtractor().Extract(filepath.Join(t.TempDir(), "gone.txt"))

	var extraction *ExtractionError
	assert.ErrorAs(t, err, &extraction)
}

func TestTextExtractor_ExtractAsIgnoresFileName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "abc_upload", "plain text resume")

	text, err := NewTextExtractor().ExtractAs(path, "TXT")

	require.NoError(t, err)
	assert.Equal(t, "plain text resume", text)
}

func TestDecodeTXT(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cv.txt", "Jane Doe\nGo developer\n")

	text, err := DecodeTXT(path)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer\n", text)
}

func TestDecodePDF_InvalidFile(t *testing.T) {
	_, err := DecodePDF(writeFile(t, t.TempDir(), "cv.pdf", "not a pdf"))
	assert.Error(t, err)
}

// brokenXrefPDF returns a one page PDF whose xref entry for the page tree
// points into the file header.
func brokenXrefPDF() string {
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n",
	}

	doc := "%PDF-1.4\n"
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = len(doc)
		doc += obj
	}
	offsets[1] = 3

	xrefAt := len(doc)
	doc += fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		doc += fmt.Sprintf("%010d 00000 n \n", off)
	}
	doc += fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objects)+1, xrefAt)
	return doc
}

func TestTextExtractor_MalformedPDFIsExtractionError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cv.pdf", brokenXrefPDF())

	var err error
	require.NotPanics(t, func() {
		_, err = NewTextExtractor().Extract(path)
	})

	var extraction *ExtractionError
	require.ErrorAs(t, err, &extraction)
	assert.Equal(t, ".pdf", extraction.Ext)
	assert.True(t, IsUserError(err))
}

func TestDecodeDOCX_InvalidFile(t *testing.T) {
	_, err := DecodeDOCX(writeFile(t, t.TempDir(), "cv.docx", "not a zip"))
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a\nb", CleanText("  a  \n\n\n  b \n"))
}
