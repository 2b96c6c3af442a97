// Package report turns a scan's accumulated state into export artifacts:
// a structured JSON document and an optional paginated PDF. It only ever
// reads scan snapshots; it never mutates the source scan.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ia-solution/cybercrim/internal/scanner"
)

// Generator writes report artifacts under a fixed output directory.
type Generator struct {
	dir      string
	fontPath string
}

// NewGenerator creates a generator writing into dir. fontPath points to
// the TTF font the PDF renderer needs; it may be empty or missing, in
// which case only JSON export is available.
func NewGenerator(dir, fontPath string) *Generator {
	return &Generator{dir: dir, fontPath: fontPath}
}

// Summary counts findings per severity bucket. All four buckets are
// always present. Severity matching is case-insensitive; findings with
// an unknown severity are not counted.
func Summary(scan scanner.Scan) map[scanner.Severity]int {
	summary := make(map[scanner.Severity]int, len(scanner.Severities))
	for _, sev := range scanner.Severities {
		summary[sev] = 0
	}
	for _, f := range scan.Findings {
		sev := scanner.Severity(strings.ToLower(string(f.Severity)))
		if _, ok := summary[sev]; ok {
			summary[sev]++
		}
	}
	return summary
}

// Metadata describes the scan a document was generated from.
type Metadata struct {
	GeneratedAt        string `json:"generated_at"`
	ScanID             string `json:"scan_id"`
	Target             string `json:"target"`
	ScanStart          int64  `json:"scan_start"`
	ScanEnd            int64  `json:"scan_end,omitempty"`
	Status             string `json:"status"`
	VulnerabilityCount int    `json:"vulnerability_count"`
}

// Document is the structured export: metadata, the verbatim finding
// list, and the severity summary.
type Document struct {
	Metadata        Metadata                 `json:"metadata"`
	Vulnerabilities []scanner.Finding        `json:"vulnerabilities"`
	Summary         map[scanner.Severity]int `json:"summary"`
}

// BuildDocument assembles the structured report for a scan snapshot.
func BuildDocument(scan scanner.Scan) Document {
	vulns := scan.Findings
	if vulns == nil {
		vulns = []scanner.Finding{}
	}
	return Document{
		Metadata: Metadata{
			GeneratedAt:        time.Now().Format(time.RFC3339),
			ScanID:             scan.ID,
			Target:             scan.Target,
			ScanStart:          scan.StartedAt,
			ScanEnd:            scan.CompletedAt,
			Status:             string(scan.Status),
			VulnerabilityCount: len(vulns),
		},
		Vulnerabilities: vulns,
		Summary:         Summary(scan),
	}
}

// WriteJSON writes the structured report and returns the artifact path.
// An empty filename derives one from the current wall-clock time; a
// missing .json suffix is appended.
func (g *Generator) WriteJSON(scan scanner.Scan, filename string) (string, error) {
	if filename == "" {
		filename = fmt.Sprintf("scan_report_%s.json", time.Now().Format("20060102_150405"))
	} else if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	data, err := json.MarshalIndent(BuildDocument(scan), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	path := filepath.Join(g.dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
