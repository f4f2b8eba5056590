package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

// Parse returns the raw text of every body paragraph, table cell paragraph
// included, each followed by a blank line. Tabs and line breaks inside runs
// are kept as \t and \n.
func (p *DOCXParser) Parse(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("parse docx: empty file")
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var buf strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			writeDOCXParagraph(&buf, it)
		case *docx.Table:
			writeDOCXTable(&buf, it)
		}
	}
	return buf.String(), nil
}

// writeDOCXParagraph writes the paragraph text followed by a blank line.
func writeDOCXParagraph(buf *strings.Builder, para *docx.Paragraph) {
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeDOCXRun(buf, c)
		case *docx.Hyperlink:
			// go-docx stores the display text of links it writes in InstrText.
			n := buf.Len()
			writeDOCXRun(buf, &c.Run)
			if buf.Len() == n {
				buf.WriteString(c.Run.InstrText)
			}
		}
	}
	buf.WriteString("\n\n")
}

func writeDOCXRun(buf *strings.Builder, run *docx.Run) {
	for _, rc := range run.Children {
		switch t := rc.(type) {
		case *docx.Text:
			buf.WriteString(t.Text)
		case *docx.Tab:
			buf.WriteByte('\t')
		case *docx.BarterRabbet:
			buf.WriteByte('\n')
		}
	}
}

// writeDOCXTable writes every cell paragraph in row order, then any nested
// tables of that cell.
func writeDOCXTable(buf *strings.Builder, table *docx.Table) {
	for _, row := range table.TableRows {
		for _, cell := range row.TableCells {
			for _, para := range cell.Paragraphs {
				writeDOCXParagraph(buf, para)
			}
			for _, nested := range cell.Tables {
				writeDOCXTable(buf, nested)
			}
		}
	}
}
