// Package scanner implements the simulated scan engine. It does not probe
// anything: each scan is a background goroutine that advances a progress
// counter on a jittered timer and fabricates plausible-looking findings
// along the way. The package exists so the rest of the application has a
// realistic scan lifecycle to demonstrate against.
package scanner

import "fmt"

// Status is the lifecycle state of a scan.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown scan status %q", s)
}

// Severity is the priority bucket of a finding.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

// Severities lists all known severities from most to least severe.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return Severity(s), nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Finding is one fabricated vulnerability record attached to a scan.
// Param, Attack and Evidence are only populated for high and medium
// severity findings. Risk and Confidence are single-letter codes.
type Finding struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	URL         string   `json:"url"`
	Solution    string   `json:"solution"`
	Reference   string   `json:"reference,omitempty"`
	Param       string   `json:"param,omitempty"`
	Attack      string   `json:"attack,omitempty"`
	Evidence    string   `json:"evidence,omitempty"`
	Risk        string   `json:"risk,omitempty"`
	Confidence  string   `json:"confidence,omitempty"`
}

// Scan is one simulated assessment run. StartedAt and CompletedAt are unix
// seconds; CompletedAt stays zero until the scan reaches a terminal state.
type Scan struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	Status      Status    `json:"status"`
	Progress    int       `json:"progress"`
	StartedAt   int64     `json:"start_time"`
	CompletedAt int64     `json:"end_time,omitempty"`
	Findings    []Finding `json:"vulnerabilities"`
	UserAgent   string    `json:"user_agent"`
}

// clone returns a deep copy so callers can hold a snapshot while the
// engine goroutine keeps mutating the original.
func (s Scan) clone() Scan {
	out := s
	out.Findings = make([]Finding, len(s.Findings))
	copy(out.Findings, s.Findings)
	return out
}
