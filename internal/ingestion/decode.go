// Package ingestion turns uploaded resumes and job descriptions (PDF, DOCX, HTML or
// plain text) into cleaned text.
package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// MaxFileBytes bounds decoded uploads.
const MaxFileBytes = 10 << 20

var xmlTags = regexp.MustCompile(`<[^>]+>`)

// SupportedExtensions lists the file extensions Decode accepts.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".html", ".htm", ".txt", ".md"}
}

// Decode extracts cleaned text from file content, choosing the parser by the
// extension of fileName.
func Decode(fileName string, data []byte) (string, error) {
	if len(data) > MaxFileBytes {
		return "", &DecodeError{Format: "file", Cause: fmt.Errorf("file exceeds %d bytes", MaxFileBytes)}
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = decodePDF(data)
	case ".docx":
		text, err = decodeDocx(data)
	case ".html", ".htm":
		text, err = decodeHTML(data)
	case ".txt", ".md":
		text, err = decodePlain(data)
	default:
		return "", &UnsupportedFormatError{Extension: ext}
	}
	if err != nil {
		return "", &DecodeError{Format: strings.TrimPrefix(ext, "."), Cause: err}
	}

	return CleanText(text), nil
}

// DecodeBase64 decodes a base64 upload and extracts its text.
func DecodeBase64(fileName, encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	// Data URLs carry a "data:<mime>;base64," prefix
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(encoded); rawErr != nil {
			return "", &DecodeError{Format: "base64", Cause: err}
		}
	}

	return Decode(fileName, data)
}

// ReadFile reads and decodes a file from disk.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(path, data)
}

func decodePlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	return string(data), nil
}

func decodePDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func decodeDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		docXML, err = io.ReadAll(io.LimitReader(rc, MaxFileBytes))
		_ = rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if len(docXML) == 0 {
		return "", errors.New("no word/document.xml in archive")
	}

	content := string(docXML)
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")
	content = xmlTags.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

func decodeHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, nav, footer").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return doc.Find("body").Text(), nil
}
