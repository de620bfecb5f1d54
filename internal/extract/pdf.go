// Package extract pulls the text layer out of uploaded PDFs.
//
// It uses ledongthuc/pdf (pure Go, no CGO). Scanned images with no text
// layer yield an empty result, not an error; there is no OCR fallback and
// callers must check for blank output.
package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Result is the outcome of one extraction.
type Result struct {
	Text     string
	Pages    int
	Warnings []string
	Duration time.Duration
}

type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract returns the concatenated text of all pages, newline-separated.
// Pages that cannot be read are skipped with a warning. An empty Text with a
// nil error means the document has no text layer.
func (e *Extractor) Extract(content []byte) (Result, error) {
	start := time.Now()
	if len(content) == 0 {
		return Result{}, fmt.Errorf("empty PDF content")
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	var warns []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}

	res := Result{
		Text:     strings.TrimSpace(b.String()),
		Pages:    r.NumPage(),
		Warnings: warns,
		Duration: time.Since(start),
	}
	e.logger.Debug("extract.pdf.done",
		"pages", res.Pages,
		"text_bytes", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
