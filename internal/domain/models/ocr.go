package models

import (
	"encoding/json"
	"strings"
)

// OCRTableColumn describes one column of an extracted table. Group is an
// optional super-heading spanning several columns.
type OCRTableColumn struct {
	Group *string `json:"group"`
	Label string  `json:"label"`
}

// OCRTableRow is one labelled row of an extracted table. Values is positional
// and parallel to the column list; nil entries mean the cell was empty.
type OCRTableRow struct {
	Category string    `json:"category"`
	RowLabel string    `json:"row_label"`
	Values   []*string `json:"values"`
}

// OCRPageContent is the structured payload a reviewer corrects before a page
// is approved for vectorization.
type OCRPageContent struct {
	Meta struct {
		Filename   string `json:"filename"`
		PageNumber int    `json:"page_number"`
	} `json:"meta"`
	PageContext string            `json:"page_context"`
	Legend      map[string]string `json:"legend"`
	Table       struct {
		HasTable bool             `json:"has_table"`
		Columns  []OCRTableColumn `json:"columns"`
		Rows     []OCRTableRow    `json:"rows"`
	} `json:"table"`
}

// VectorText flattens the page into plain text suitable for embedding. Table
// rows are grouped under their category headings and each cell is rendered
// as "column: value", with legend symbols expanded inline.
func (p *OCRPageContent) VectorText() string {
	var b strings.Builder
	b.WriteString(p.PageContext)

	if p.Table.HasTable {
		b.WriteString("\n\n")
		currentCategory := ""
		for _, row := range p.Table.Rows {
			if row.Category != "" && row.Category != currentCategory {
				currentCategory = row.Category
				b.WriteString("## " + currentCategory + "\n\n")
			}
			b.WriteString("### " + row.RowLabel + "\n")
			for i, val := range row.Values {
				if val == nil || *val == "" || i >= len(p.Table.Columns) {
					continue
				}
				col := p.Table.Columns[i]
				name := col.Label
				if col.Group != nil && *col.Group != "" {
					name = *col.Group + " - " + col.Label
				}
				b.WriteString("- " + name + ": " + *val)
				if meaning, ok := p.Legend[*val]; ok {
					b.WriteString(" (" + meaning + ")")
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String())
}

// PageVectorText converts raw review-queue content into vectorization text.
// Structured JSON payloads are flattened via VectorText; anything that does
// not parse as OCR JSON is passed through unchanged.
func PageVectorText(content string) string {
	var parsed OCRPageContent
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return content
	}
	// A JSON document that is not an OCR payload (e.g. a bare string or
	// array) unmarshals to the zero value; keep the original text then.
	if parsed.PageContext == "" && !parsed.Table.HasTable {
		return content
	}
	return parsed.VectorText()
}
