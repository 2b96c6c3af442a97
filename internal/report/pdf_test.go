package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ia-solution/cybercrim/internal/scanner"
)

const testFont = "testdata/DejaVuSans.ttf"

func TestAvailable(t *testing.T) {
	dir := t.TempDir()

	require.False(t, NewGenerator(dir, "").Available())
	require.False(t, NewGenerator(dir, filepath.Join(dir, "missing.ttf")).Available())
	require.False(t, NewGenerator(dir, dir).Available(), "a directory is not a font")

	fontPath := filepath.Join(dir, "present.ttf")
	require.NoError(t, os.WriteFile(fontPath, []byte("not really a font"), 0644))
	require.True(t, NewGenerator(dir, fontPath).Available())
}

func TestWritePDFWithoutFont(t *testing.T) {
	g := NewGenerator(t.TempDir(), "")

	_, err := g.WritePDF(sampleScan(), "report")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestWritePDFMissingFontFile(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, filepath.Join(dir, "missing.ttf"))

	_, err := g.WritePDF(sampleScan(), "report")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestWritePDFRendersDocument(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, testFont)
	require.True(t, g.Available())

	scan := sampleScan()
	// Mix of findings with and without the optional evidence/reference
	// rows, plus an unknown severity for the fallback color.
	scan.Findings = append(scan.Findings, scanner.Finding{
		ID:        "v4",
		Name:      "Broken Authentication",
		Severity:  scanner.SeverityMedium,
		URL:       "https://example.com/admin",
		Solution:  "Implement proper access controls.",
		Evidence:  "Sensitive data in response",
		Reference: "https://owasp.org/www-community/vulnerabilities/broken-authentication",
	}, scanner.Finding{
		ID:       "v5",
		Name:     "Mystery Issue",
		Severity: "unscored",
		URL:      "https://example.com/api",
	})

	path, err := g.WritePDF(scan, "full_report")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "full_report.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")), "artifact must be a PDF")
	require.Greater(t, len(data), 1000)
}

func TestWritePDFPaginatesLongReports(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, testFont)

	scan := sampleScan()
	for i := 0; i < 40; i++ {
		scan.Findings = append(scan.Findings, scanner.Finding{
			ID:          fmt.Sprintf("v-%d", i),
			Name:        "Missing Security Headers",
			Description: "A low severity missing security headers was detected on https://example.com.",
			Severity:    scanner.SeverityLow,
			URL:         "https://example.com/config",
			Solution:    "Update application configuration to implement security best practices and headers.",
			Reference:   "https://owasp.org/www-community/vulnerabilities/missing-security-headers",
		})
	}

	path, err := g.WritePDF(scan, "long_report")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestWritePDFDefaultAndSuffixedFilename(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, testFont)

	path, err := g.WritePDF(sampleScan(), "")
	require.NoError(t, err)
	name := filepath.Base(path)
	require.True(t, len(name) > len(".pdf") && filepath.Ext(name) == ".pdf", "got %q", name)

	path, err = g.WritePDF(sampleScan(), "named")
	require.NoError(t, err)
	require.Equal(t, "named.pdf", filepath.Base(path))
}

func TestWritePDFNoFindings(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, testFont)

	scan := sampleScan()
	scan.Findings = nil

	path, err := g.WritePDF(scan, "empty")
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestWritePDFCorruptFontFile(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "bad.ttf")
	require.NoError(t, os.WriteFile(fontPath, []byte("definitely not a ttf"), 0644))
	g := NewGenerator(dir, fontPath)

	_, err := g.WritePDF(sampleScan(), "report")
	require.ErrorIs(t, err, ErrUnavailable)
}
