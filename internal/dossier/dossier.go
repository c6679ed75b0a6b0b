// Package dossier renders a client record as a text-based A4 PDF.
package dossier

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/diewo77/salescrm/i18n"
	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/phpdave11/gofpdf"
)

// Page geometry in millimetres.
const (
	Margin     = 20.0
	TextWidth  = 170.0
	TitleY     = 20.0
	NameY      = 30.0
	ContentY   = 40.0
	HeaderGap  = 7.0
	LineHeight = 5.0
	SectionGap = 5.0
	PageBreakY = 270.0
)

const (
	Title       = "EQUÁNIME CRM - Información del Cliente"
	placeholder = "-"
	unnamed     = "Sin nombre"
)

// Line is one text line placed on the document.
type Line struct {
	Page int
	Y    float64
	Text string
}

// Document is a rendered dossier. Lines records every text line in order.
type Document struct {
	Pages int
	Lines []Line
	pdf   *gofpdf.Fpdf
}

// WriteTo writes the PDF bytes to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("render pdf: %w", err)
	}
	return buf.WriteTo(w)
}

// Text joins the recorded lines, one per row.
func (d *Document) Text() string {
	parts := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

type writer struct {
	pdf  *gofpdf.Fpdf
	tr   func(string) string
	doc  *Document
	page int
}

func (w *writer) text(y float64, s string) {
	w.pdf.Text(Margin, y, w.tr(s))
	w.doc.Lines = append(w.doc.Lines, Line{Page: w.page, Y: y, Text: s})
}

func (w *writer) addPage() {
	w.pdf.AddPage()
	w.page++
}

// Render lays out c: title, full name, then the six sections in form order
// with one "label: value" entry per field. Booleans read yes/no in lang.
func Render(c *models.Client, lang string) (*Document, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(Title, true)
	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), doc: &Document{}}
	w.addPage()

	pdf.SetFont("Helvetica", "", 20)
	w.text(TitleY, Title)

	name := c.FullName()
	if name == "" {
		name = unnamed
	}
	pdf.SetFont("Helvetica", "", 14)
	w.text(NameY, name)

	yes, no := i18n.T(lang, "yes"), i18n.T(lang, "no")
	y := ContentY
	for _, sec := range catalog.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		w.text(y, sec.Title())
		y += HeaderGap

		pdf.SetFont("Helvetica", "", 10)
		for _, col := range catalog.SectionColumns(sec) {
			entry := col.Title() + ": " + FormatValue(c.Value(col.Key), yes, no)
			for _, line := range pdf.SplitLines([]byte(w.tr(entry)), TextWidth) {
				pdf.Text(Margin, y, string(line))
				w.doc.Lines = append(w.doc.Lines, Line{Page: w.page, Y: y, Text: untranslate(line)})
				y += LineHeight
			}
			if y > PageBreakY {
				w.addPage()
				y = TitleY
			}
		}
		y += SectionGap
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	w.doc.Pages = w.page
	w.doc.pdf = pdf
	return w.doc, nil
}

// FormatValue renders one dossier value: "-" for empty, yes/no for
// booleans, Colombian grouping for numbers and strings as stored.
func FormatValue(v catalog.Value, yes, no string) string {
	switch {
	case v.Null():
		return placeholder
	case v.Bool != nil:
		if *v.Bool {
			return yes
		}
		return no
	case v.Num != nil:
		return catalog.FormatNumber(*v.Num)
	case v.Time != nil:
		return v.Time.Format(catalog.DateLayout)
	}
	if strings.TrimSpace(*v.Str) == "" {
		return placeholder
	}
	return *v.Str
}

// untranslate maps a translated line from SplitLines back to UTF-8. Client
// data stays within Latin-1.
func untranslate(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// Filename is cliente_<first name>_<first surname>_<YYYY-MM-DD>.pdf.
func Filename(c *models.Client, now time.Time) string {
	first, last := "sin_nombre", "sin_apellido"
	if c.PrimerNombre != nil && strings.TrimSpace(*c.PrimerNombre) != "" {
		first = strings.TrimSpace(*c.PrimerNombre)
	}
	if c.PrimerApellido != nil && strings.TrimSpace(*c.PrimerApellido) != "" {
		last = strings.TrimSpace(*c.PrimerApellido)
	}
	return fmt.Sprintf("cliente_%s_%s_%s.pdf", first, last, now.Format(catalog.DateLayout))
}
