package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecode_PlainText(t *testing.T) {
	text, err := Decode("resume.TXT", []byte("Go   developer\r\n\r\n\r\n\r\nKubernetes"))
	require.NoError(t, err)
	assert.Equal(t, "Go developer\n\nKubernetes", text)
}

func TestDecode_Markdown(t *testing.T) {
	text, err := Decode("job.md", []byte("# Backend Engineer\n- Go\n- PostgreSQL"))
	require.NoError(t, err)
	assert.Equal(t, "# Backend Engineer\n- Go\n- PostgreSQL", text)
}

func TestDecode_InvalidUTF8(t *testing.T) {
	_, err := Decode("resume.txt", []byte{0xff, 0xfe, 0xfd})

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "txt", decodeErr.Format)
}

func TestDecode_Docx(t *testing.T) {
	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Python &amp; AWS</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := Decode("cv.docx", buildDocx(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nPython & AWS", text)
}

func TestDecode_DocxWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Decode("cv.docx", buf.Bytes())
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecode_HTML(t *testing.T) {
	page := `<html><head><style>body{}</style></head><body>
<nav>Home | Jobs</nav>
<h1>Senior Go Engineer</h1>
<p>We use <b>Kafka</b> and Redis.</p>
<script>track()</script>
</body></html>`

	text, err := Decode("posting.html", []byte(page))
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Go Engineer")
	assert.Contains(t, text, "We use Kafka and Redis.")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "Home | Jobs")
}

func TestDecode_CorruptPDF(t *testing.T) {
	_, err := Decode("resume.pdf", []byte("definitely not a pdf"))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "pdf", decodeErr.Format)
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	tests := []struct {
		fileName string
		ext      string
	}{
		{"resume.rtf", ".rtf"},
		{"resume", ""},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			_, err := Decode(tt.fileName, []byte("content"))

			var formatErr *UnsupportedFormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tt.ext, formatErr.Extension)
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	_, err := Decode("big.txt", make([]byte, MaxFileBytes+1))

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("Terraform and Docker"))

	text, err := DecodeBase64("notes.txt", encoded)
	require.NoError(t, err)
	assert.Equal(t, "Terraform and Docker", text)

	text, err = DecodeBase64("notes.txt", "data:text/plain;base64,"+encoded)
	require.NoError(t, err)
	assert.Equal(t, "Terraform and Docker", text)
}

func TestDecodeBase64_Invalid(t *testing.T) {
	_, err := DecodeBase64("notes.txt", "%%%not base64%%%")

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "base64", decodeErr.Format)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Rust engineer  "), 0o600))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Rust engineer", text)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "file not found")
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "unsupported file format: .rtf", (&UnsupportedFormatError{Extension: ".rtf"}).Error())
	assert.Equal(t, "unsupported file format: missing extension", (&UnsupportedFormatError{}).Error())
	assert.Equal(t, "failed to decode pdf", (&DecodeError{Format: "pdf"}).Error())
}
