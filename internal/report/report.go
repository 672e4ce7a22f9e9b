// Package report renders a completed deal evaluation as HTML, PDF, or a
// spreadsheet. Rendering is presentation only: the analysis date is stamped
// here so the evaluation itself stays deterministic.
package report

import (
	"bytes"
	"context"
	"html/template"
	"os/exec"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/metusa-property/deal-analyzer/internal/model"
)

// Renderer turns a DealResult into report documents.
type Renderer struct {
	brand           string
	wkhtmltopdfPath string
	tmpl            *template.Template

	now func() time.Time
}

// Options configures a Renderer.
type Options struct {
	// Brand appears in the report footer.
	Brand string
	// WkhtmltopdfPath is the binary used for PDF conversion.
	WkhtmltopdfPath string
}

// New creates a Renderer. The embedded template is parsed once here; a parse
// failure is a programming error and panics at startup.
func New(opts Options) *Renderer {
	if opts.Brand == "" {
		opts.Brand = "Metusa Property"
	}
	if opts.WkhtmltopdfPath == "" {
		opts.WkhtmltopdfPath = "wkhtmltopdf"
	}
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"gbp":      GBP,
		"gbpPence": GBPPence,
		"pct":      Pct,
		"toFloat":  func(v int) float64 { return float64(v) },
		"verdictColor": func(v model.Verdict) template.CSS {
			return template.CSS(verdictColor(v))
		},
		"scoreColor": func(score int) template.CSS {
			return template.CSS(scoreColor(score))
		},
	}).Parse(reportTemplate))

	return &Renderer{
		brand:           opts.Brand,
		wkhtmltopdfPath: opts.WkhtmltopdfPath,
		tmpl:            tmpl,
		now:             time.Now,
	}
}

func verdictColor(v model.Verdict) string {
	switch v {
	case model.VerdictProceed:
		return "#28a745"
	case model.VerdictAvoid:
		return "#dc3545"
	default:
		return "#ffc107"
	}
}

func scoreColor(score int) string {
	switch {
	case score >= 80:
		return "#28a745"
	case score >= 65:
		return "#17a2b8"
	case score >= 50:
		return "#ffc107"
	default:
		return "#dc3545"
	}
}

type templateData struct {
	Result *model.DealResult
	Brand  string
	Date   string
}

// HTML renders the full report document.
func (r *Renderer) HTML(res *model.DealResult) ([]byte, error) {
	if res == nil {
		return nil, eris.New("report: nil result")
	}

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, templateData{
		Result: res,
		Brand:  r.brand,
		Date:   r.now().Format("2 January 2006"),
	})
	if err != nil {
		return nil, eris.Wrap(err, "report: execute template")
	}
	return buf.Bytes(), nil
}

// PDF renders the report and converts it with wkhtmltopdf, reading HTML on
// stdin and writing the PDF to stdout.
func (r *Renderer) PDF(ctx context.Context, res *model.DealResult) ([]byte, error) {
	html, err := r.HTML(res)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, r.wkhtmltopdfPath,
		"--page-size", "A4",
		"--margin-top", "0.5in",
		"--margin-right", "0.5in",
		"--margin-bottom", "0.5in",
		"--margin-left", "0.5in",
		"--encoding", "UTF-8",
		"--quiet",
		"-", "-",
	)

	var out, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(html)
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "report: wkhtmltopdf: %s", strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

// FileName builds a safe download filename from the deal's address.
func FileName(res *model.DealResult, ext string) string {
	base := res.Address
	if base == "" {
		base = res.Postcode
	}
	if base == "" {
		base = "deal"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == ',':
			b.WriteByte('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	if slug == "" {
		slug = "deal"
	}
	return "deal_analysis_" + slug + "." + ext
}
