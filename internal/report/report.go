// Package report renders the printable project document and converts it to PDF.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/cerroazul/gestao-obras/internal/projects/domain"
)

const (
	issuer = "Prefeitura Municipal de Cerro Azul"
	system = "Sistema de Gestão de Obras"
)

var footer = []string{
	"João Roberto Lins",
	"Técnico em Edificações",
	"Sistema de Gestão de Obras de Cerro Azul-PR",
}

//go:embed templates/report.html
var templateFS embed.FS

var reportTmpl = template.Must(
	template.New("report.html").
		Funcs(template.FuncMap{
			"date":   formatDate,
			"number": formatNumber,
			"lines":  lineBreaks,
		}).
		ParseFS(templateFS, "templates/report.html"),
)

type view struct {
	Project        domain.Project
	Issuer         string
	System         string
	DocumentNumber string
	IssuedAt       time.Time
	ProgressWidth  string
	Footer         []string
}

// Render builds the self-contained HTML document for one project.
// Every field value is escaped; multi-line text keeps its line breaks.
func Render(p domain.Project, issuedAt time.Time) ([]byte, error) {
	v := view{
		Project:        p,
		Issuer:         issuer,
		System:         system,
		DocumentNumber: DocumentNumber(p.ID),
		IssuedAt:       issuedAt,
		ProgressWidth:  formatNumber(clamp(p.Progress, 0, 100)),
		Footer:         footer,
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render report %s: %w", p.ID, err)
	}
	return buf.Bytes(), nil
}

// DocumentNumber derives the printed document number from a project id:
// "DOC-" followed by the second dash-separated segment, or by the first
// eight characters when the id has no dash.
func DocumentNumber(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) > 1 {
		return "DOC-" + parts[1]
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return "DOC-" + id
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// lineBreaks escapes s and turns newlines into <br/>.
func lineBreaks(s string) template.HTML {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = template.HTMLEscapeString(l)
	}
	return template.HTML(strings.Join(lines, "<br/>"))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
