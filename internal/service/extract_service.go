package service

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// ErrNoTextContent signals that an attachment yielded no recoverable text
// (scanned image, unsupported format, empty file). Distinct from a hard
// extraction failure so callers can mark the document unreadable instead
// of erroring out.
var ErrNoTextContent = errors.New("no text content recovered")

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

type ExtractService struct {
	logger *zap.Logger
}

func NewExtractService(logger *zap.Logger) *ExtractService {
	return &ExtractService{
		logger: logger,
	}
}

// ExtractAttachment produces plain text from an attachment.
// PDF files go through go-fitz, HTML is reduced to text, plain-text
// formats are read directly. Image formats carry no text layer and
// report ErrNoTextContent.
func (s *ExtractService) ExtractAttachment(reader io.Reader, fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	var text string
	switch ext {
	case ".pdf":
		data, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("failed to read attachment: %w", err)
		}
		text, err = s.extractPDF(data, fileName)
		if err != nil {
			return "", err
		}
	case ".html", ".htm":
		data, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("failed to read attachment: %w", err)
		}
		text = s.htmlToText(string(data))
	case ".txt", ".text", ".md", ".csv":
		data, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("failed to read attachment: %w", err)
		}
		text = string(data)
	default:
		// jpg/png scans and anything else without a text layer
		return "", fmt.Errorf("%w: unsupported format %q", ErrNoTextContent, ext)
	}

	text = strings.TrimSpace(sanitizeUTF8(text))
	if text == "" {
		return "", ErrNoTextContent
	}

	s.logger.Info("Attachment text extracted",
		zap.String("file", fileName),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

// BodyText returns the message body as plain text, reducing HTML bodies
// to their visible text first.
func (s *ExtractService) BodyText(body string) string {
	if looksLikeHTML(body) {
		if text := s.htmlToText(body); text != "" {
			return text
		}
	}
	return strings.TrimSpace(sanitizeUTF8(body))
}

func (s *ExtractService) extractPDF(data []byte, fileName string) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoTextContent, err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", fileName),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		// A well-formed PDF with no text layer is a scan.
		return "", ErrNoTextContent
	}

	s.logger.Debug("PDF text extracted",
		zap.String("file", fileName),
		zap.Int("pages", doc.NumPage()),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

func (s *ExtractService) htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.logger.Warn("Failed to parse HTML, keeping raw body", zap.Error(err))
		return strings.TrimSpace(html)
	}

	doc.Find("script, style, head").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(whitespaceRun.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.TrimSpace(sanitizeUTF8(strings.Join(lines, "\n")))
}

func looksLikeHTML(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range []string{"<html", "<body", "<div", "<p>", "<br", "<table"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
