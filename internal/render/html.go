package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/propelhq/proposal-api/internal/docmodel"
)

//go:embed templates/*.html
var templatesFS embed.FS

// StaticRenderer produces the complete, self-contained HTML string handed
// to the PDF rasterization backend. No live layout engine is available at
// generation time, so pagination always runs on the heuristic estimator;
// apart from the measurement source the page model is the preview model.
type StaticRenderer struct {
	preview *PreviewRenderer
	tmpl    *template.Template
}

// NewStaticRenderer parses the embedded print templates
func NewStaticRenderer(contact ContactInfo) (*StaticRenderer, error) {
	funcMap := template.FuncMap{
		"money": FormatMoney,
		"week": func(start, end int) string {
			if start == end {
				return fmt.Sprintf("Week %d", start)
			}
			return fmt.Sprintf("Weeks %d–%d", start, end)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &StaticRenderer{
		preview: NewPreviewRenderer(contact),
		tmpl:    tmpl,
	}, nil
}

// Render builds the printable HTML document for a proposal snapshot
func (r *StaticRenderer) Render(doc *docmodel.Document) (string, error) {
	model := r.preview.Render(doc, docmodel.EstimateMeasurer{})

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "proposal.html", model); err != nil {
		return "", fmt.Errorf("failed to render proposal template: %w", err)
	}
	return buf.String(), nil
}
