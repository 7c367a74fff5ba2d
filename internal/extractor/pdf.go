package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrStrategyUnavailable is returned by a Strategy whose backing library or binary is not
// present. The chain skips such strategies without recording a warning.
var ErrStrategyUnavailable = errors.New("extraction strategy unavailable")

// Strategy is one PDF reader in the fallback chain.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, data []byte) (string, error)
}

// DefaultPDFStrategies returns the PDF chain: direct page text, row-ordered layout text,
// then poppler's pdftotext. pdftotextPath may be empty to resolve the binary from PATH.
func DefaultPDFStrategies(pdftotextPath string) []Strategy {
	return []Strategy{
		PlainTextStrategy{},
		RowLayoutStrategy{},
		PdftotextStrategy{Path: pdftotextPath},
	}
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) Result {
	var warnings []string
	for _, strategy := range e.pdfStrategies {
		if err := ctx.Err(); err != nil {
			return failed(KindReadError, "pdf extraction cancelled", err)
		}
		text, err := runStrategy(ctx, strategy, data)
		switch {
		case errors.Is(err, ErrStrategyUnavailable):
			e.log.Debug("pdf strategy unavailable, skipping", "strategy", strategy.Name(), "error", err)
			continue
		case err != nil:
			e.log.Warn("pdf strategy failed", "strategy", strategy.Name(), "error", err)
			warnings = append(warnings, fmt.Sprintf("%s: %v", strategy.Name(), err))
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return succeeded(&Document{
				Text:     trimmed,
				Format:   FormatPDF,
				Strategy: strategy.Name(),
				Warnings: warnings,
			})
		}
		warnings = append(warnings, fmt.Sprintf("%s: no text extracted", strategy.Name()))
	}

	detail := "no text could be extracted from the PDF. It may be scanned or contain only images"
	if len(warnings) > 0 {
		detail += " (" + strings.Join(warnings, "; ") + ")"
	}
	return failed(KindNoExtractableText, detail, nil)
}

// runStrategy shields the chain from panics inside third-party readers.
func runStrategy(ctx context.Context, s Strategy, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reader panic: %v", r)
		}
	}()
	return s.Extract(ctx, data)
}

// PlainTextStrategy reads each page's plain text with ledongthuc/pdf.
type PlainTextStrategy struct{}

func (PlainTextStrategy) Name() string { return "ledongthuc-plain" }

func (PlainTextStrategy) Extract(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteByte('\n')
	}
	return textBuilder.String(), nil
}

// RowLayoutStrategy rebuilds lines from positioned glyphs, which keeps multi-column
// resumes readable where plain page text interleaves columns. Glyphs are grouped into rows
// by baseline and ordered left to right within a row.
type RowLayoutStrategy struct{}

func (RowLayoutStrategy) Name() string { return "ledongthuc-rows" }

func (RowLayoutStrategy) Extract(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for _, row := range pageRows(reader, i) {
			if line := joinRow(row.glyphs); strings.TrimSpace(line) != "" {
				textBuilder.WriteString(line)
				textBuilder.WriteByte('\n')
			}
		}
	}
	return textBuilder.String(), nil
}

type glyphRow struct {
	y      float64
	glyphs []pdf.Text
}

// pageRows groups a page's glyphs into rows, top of the page first. A page the reader
// cannot decode yields no rows.
func pageRows(reader *pdf.Reader, n int) (rows []glyphRow) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return nil
	}
	for _, t := range page.Content().Text {
		// TJ arrays end with a synthetic newline glyph.
		if t.S == "" || strings.ContainsAny(t.S, "\r\n") {
			continue
		}
		idx := -1
		for j := range rows {
			if math.Abs(rows[j].y-t.Y) <= rowTolerance(t.FontSize) {
				idx = j
				break
			}
		}
		if idx < 0 {
			rows = append(rows, glyphRow{y: t.Y})
			idx = len(rows) - 1
		}
		rows[idx].glyphs = append(rows[idx].glyphs, t)
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].y > rows[b].y })
	for _, row := range rows {
		sort.SliceStable(row.glyphs, func(a, b int) bool { return row.glyphs[a].X < row.glyphs[b].X })
	}
	return rows
}

// rowTolerance is how far apart two baselines may be and still count as one row.
func rowTolerance(fontSize float64) float64 {
	return max(1, fontSize*0.3)
}

// joinRow concatenates glyphs, inserting a space where the horizontal gap between
// neighbours is wider than a fraction of the font size.
func joinRow(glyphs []pdf.Text) string {
	var b strings.Builder
	var prev *pdf.Text
	for i := range glyphs {
		t := &glyphs[i]
		if prev != nil {
			gap := t.X - (prev.X + prev.W)
			if gap > prev.FontSize*0.2 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prev = t
	}
	return b.String()
}

// PdftotextStrategy shells out to poppler's pdftotext in layout mode. The binary only
// accepts paths, so the bytes go through a scoped temporary file.
type PdftotextStrategy struct {
	Path string
}

func (PdftotextStrategy) Name() string { return "pdftotext" }

func (s PdftotextStrategy) Extract(ctx context.Context, data []byte) (string, error) {
	bin := s.Path
	if bin == "" {
		bin = "pdftotext"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found", ErrStrategyUnavailable, bin)
	}

	var output []byte
	err = withTempFile(data, "resume-*.pdf", func(path string) error {
		cmd := exec.CommandContext(ctx, resolved, "-layout", "-enc", "UTF-8", path, "-")
		out, err := cmd.Output()
		if err != nil {
			return fmt.Errorf("pdftotext: %w", err)
		}
		output = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(output), nil
}
