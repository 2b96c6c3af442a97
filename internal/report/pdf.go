package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"github.com/ia-solution/cybercrim/internal/scanner"
)

// ErrUnavailable means the PDF renderer cannot run because no usable TTF
// font is configured. Callers should fall back to the JSON export.
var ErrUnavailable = errors.New("pdf renderer unavailable: TTF font not found")

const (
	pageMargin = 40.0
	pageWidth  = 595.28 // A4
	pageBottom = 780.0
	contentW   = pageWidth - 2*pageMargin
	labelW     = 120.0
	lineH      = 14.0
)

var severityColors = map[scanner.Severity][3]uint8{
	scanner.SeverityHigh:   {220, 38, 38},
	scanner.SeverityMedium: {217, 119, 6},
	scanner.SeverityLow:    {202, 138, 4},
	scanner.SeverityInfo:   {37, 99, 235},
}

// Available reports whether the PDF export can run. gopdf ships no
// fonts, so the renderer needs the configured TTF file on disk.
func (g *Generator) Available() bool {
	if g.fontPath == "" {
		return false
	}
	info, err := os.Stat(g.fontPath)
	return err == nil && !info.IsDir()
}

// WritePDF renders the paginated report and returns the artifact path,
// or ErrUnavailable when the renderer cannot run.
func (g *Generator) WritePDF(scan scanner.Scan, filename string) (string, error) {
	if !g.Available() {
		return "", ErrUnavailable
	}

	if filename == "" {
		filename = fmt.Sprintf("scan_report_%s.pdf", time.Now().Format("20060102_150405"))
	} else if !strings.HasSuffix(filename, ".pdf") {
		filename += ".pdf"
	}

	doc := &pdfDoc{pdf: &gopdf.GoPdf{}}
	doc.pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := doc.pdf.AddTTFFont("report", g.fontPath); err != nil {
		// A font file that exists but cannot be parsed counts as the
		// renderer being absent, not as a report failure.
		return "", ErrUnavailable
	}
	doc.pdf.AddPage()

	doc.title("Security Scan Report")
	doc.subtitle("Generated by CyberCrim - IA-Solution")

	doc.sectionHeader("Scan Details")
	doc.kvRows([][2]string{
		{"Target:", orNA(scan.Target)},
		{"Scan ID:", orNA(scan.ID)},
		{"Started:", FormatTimestamp(scan.StartedAt)},
		{"Finished:", FormatTimestamp(scan.CompletedAt)},
		{"Status:", capitalize(string(scan.Status))},
		{"Findings:", fmt.Sprintf("%d", len(scan.Findings))},
	})

	doc.sectionHeader("Summary")
	summary := Summary(scan)
	var rows [][2]string
	for _, sev := range scanner.Severities {
		rows = append(rows, [2]string{capitalize(string(sev)) + ":", fmt.Sprintf("%d", summary[sev])})
	}
	doc.kvRows(rows)

	if len(scan.Findings) > 0 {
		doc.pdf.AddPage()
		doc.y = pageMargin
		doc.sectionHeader("Finding Details")
		for i, f := range scan.Findings {
			doc.findingBlock(i+1, f)
		}
	}

	doc.footer()

	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}
	path := filepath.Join(g.dir, filename)
	if err := doc.pdf.WritePdf(path); err != nil {
		return "", fmt.Errorf("writing pdf: %w", err)
	}
	return path, nil
}

// pdfDoc tracks the write cursor so blocks can paginate themselves.
type pdfDoc struct {
	pdf *gopdf.GoPdf
	y   float64
}

func (d *pdfDoc) setFont(size float64) {
	d.pdf.SetFont("report", "", size)
}

// ensure adds a page break when fewer than need points remain.
func (d *pdfDoc) ensure(need float64) {
	if d.y+need > pageBottom {
		d.pdf.AddPage()
		d.y = pageMargin
	}
}

func (d *pdfDoc) title(text string) {
	d.y = pageMargin + 10
	d.setFont(22)
	d.pdf.SetTextColor(0, 170, 110)
	d.pdf.SetXY(pageMargin, d.y)
	d.pdf.CellWithOption(&gopdf.Rect{W: contentW, H: 26}, text, gopdf.CellOption{Align: gopdf.Center})
	d.y += 30
}

func (d *pdfDoc) subtitle(text string) {
	d.setFont(11)
	d.pdf.SetTextColor(136, 136, 136)
	d.pdf.SetXY(pageMargin, d.y)
	d.pdf.CellWithOption(&gopdf.Rect{W: contentW, H: 14}, text, gopdf.CellOption{Align: gopdf.Center})
	d.y += 34
}

func (d *pdfDoc) sectionHeader(text string) {
	d.ensure(40)
	d.setFont(15)
	d.pdf.SetTextColor(0, 130, 180)
	d.pdf.SetXY(pageMargin, d.y)
	d.pdf.Cell(nil, text)
	d.y += 20
	d.pdf.SetStrokeColor(200, 200, 200)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(pageMargin, d.y-4, pageMargin+contentW, d.y-4)
	d.y += 4
}

func (d *pdfDoc) kvRows(rows [][2]string) {
	for _, row := range rows {
		d.ensure(lineH * 2)
		d.setFont(10)
		d.pdf.SetTextColor(110, 110, 110)
		d.pdf.SetXY(pageMargin, d.y)
		d.pdf.Cell(&gopdf.Rect{W: labelW, H: lineH}, row[0])

		d.pdf.SetTextColor(30, 30, 30)
		d.pdf.SetXY(pageMargin+labelW, d.y)
		d.pdf.MultiCell(&gopdf.Rect{W: contentW - labelW, H: lineH}, row[1])
		end := d.pdf.GetY()
		if end > d.y {
			d.y = end
		} else {
			d.y += lineH
		}
		d.y += 3
	}
	d.y += 12
}

func (d *pdfDoc) findingBlock(n int, f scanner.Finding) {
	d.ensure(100)
	d.setFont(12)
	c, ok := severityColors[f.Severity]
	if !ok {
		c = [3]uint8{128, 128, 128}
	}
	d.pdf.SetTextColor(c[0], c[1], c[2])
	d.pdf.SetXY(pageMargin, d.y)
	d.pdf.Cell(nil, fmt.Sprintf("%d. %s", n, orNA(f.Name)))
	d.y += 18

	rows := [][2]string{
		{"Description:", orNA(f.Description)},
		{"Severity:", capitalize(string(f.Severity))},
		{"URL:", orNA(f.URL)},
		{"Solution:", orNA(f.Solution)},
	}
	if f.Evidence != "" {
		rows = append(rows, [2]string{"Evidence:", f.Evidence})
	}
	if f.Reference != "" {
		rows = append(rows, [2]string{"Reference:", f.Reference})
	}
	d.kvRows(rows)
}

func (d *pdfDoc) footer() {
	d.ensure(40)
	d.setFont(9)
	d.pdf.SetTextColor(150, 150, 150)
	d.pdf.SetXY(pageMargin, d.y+10)
	d.pdf.Cell(nil, "Report generated by CyberCrim - IA-Solution")
	d.pdf.SetXY(pageMargin, d.y+24)
	d.pdf.Cell(nil, fmt.Sprintf("Generated on %s", time.Now().Format("02/01/2006 15:04")))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
