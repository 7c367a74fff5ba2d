package extractor

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// DocxReader turns DOCX bytes into text.
type DocxReader interface {
	Read(ctx context.Context, data []byte) (string, error)
}

// LibraryDocxReader opens the container with nguyenthenguyen/docx and walks word/document.xml.
type LibraryDocxReader struct{}

func (LibraryDocxReader) Read(_ context.Context, data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return documentText(doc.Editable().GetContent())
}

func (e *Extractor) extractDocx(ctx context.Context, data []byte) Result {
	if e.docx == nil {
		return failed(KindMissingDependency, "docx reader not available. Cannot read DOCX files", nil)
	}

	text, err := e.docx.Read(ctx, data)
	if errors.Is(err, ErrStrategyUnavailable) {
		return failed(KindMissingDependency, "docx reader not available. Cannot read DOCX files", err)
	}
	if err != nil {
		e.log.Warn("docx extraction failed", "error", err)
		return failed(KindReadError, "error extracting text from DOCX", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return failed(KindEmptyDocument, "the DOCX file appears to be empty or contains no readable text", nil)
	}
	return succeeded(&Document{Text: text, Format: FormatDOCX, Strategy: "docx"})
}

// documentText renders body paragraphs in document order, one per line, followed by table
// rows: cell texts joined by spaces, one row per line. Nested tables fold into the
// enclosing cell.
func documentText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		rows       []string
		cells      []string
		para       strings.Builder
		cell       strings.Builder
		tableDepth int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				if tableDepth == 1 {
					cell.Reset()
				}
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text := para.String()
				para.Reset()
				if strings.TrimSpace(text) == "" {
					continue
				}
				if tableDepth > 0 {
					if cell.Len() > 0 {
						cell.WriteByte(' ')
					}
					cell.WriteString(strings.TrimSpace(text))
				} else {
					paragraphs = append(paragraphs, text)
				}
			case "tc":
				if tableDepth == 1 {
					if c := strings.TrimSpace(cell.String()); c != "" {
						cells = append(cells, c)
					}
					cell.Reset()
				}
			case "tr":
				if tableDepth == 1 {
					if len(cells) > 0 {
						rows = append(rows, strings.Join(cells, " "))
					}
					cells = nil
				}
			case "tbl":
				tableDepth--
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	var out strings.Builder
	out.WriteString(strings.Join(paragraphs, "\n"))
	if len(rows) > 0 {
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(strings.Join(rows, "\n"))
	}
	return out.String(), nil
}
