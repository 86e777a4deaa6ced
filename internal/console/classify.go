package console

import (
	"regexp"
	"strings"
)

// Severity is the display class of a console line.
type Severity int

const (
	SeverityPlain Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "plain"
	}
}

// Color returns the rendering hint used by the console UI. Plain lines
// carry no marker.
func (s Severity) Color() string {
	switch s {
	case SeverityError:
		return "red"
	case SeverityWarning:
		return "orange"
	case SeverityInfo:
		return "green"
	default:
		return ""
	}
}

// ClassifiedLine is a console line annotated with its severity.
type ClassifiedLine struct {
	Text     string
	Severity Severity
}

// Formatted returns the line wrapped with its color marker, ready for the
// console transcript.
func (c ClassifiedLine) Formatted() string {
	color := c.Severity.Color()
	if color == "" {
		return c.Text
	}
	return `<font color="` + color + `">` + c.Text + `</font>`
}

// Deny-list for JVM diagnostic noise.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)DEBUG:`),
	regexp.MustCompile(`(?i)FINE:`),
	regexp.MustCompile(`(?i)java\.app\.`),
	regexp.MustCompile(`(?i)org\.openjdk\.nashorn`),
}

const modLoadFailureMarker = "Mod Loading has failed"

// shouldFilter reports whether a raw line is noise. Stack traces are
// filtered line by line: an intermediate frame matches the heuristic
// below, while the triggering line above it may still pass through.
func shouldFilter(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	if strings.Contains(line, modLoadFailureMarker) {
		return true
	}
	if strings.Count(line, " at ") > 1 && strings.Contains(line, "java:") {
		return true
	}
	for _, pat := range noisePatterns {
		if pat.MatchString(line) {
			return true
		}
	}
	return false
}

// Classify tags a raw console line with a severity, or reports false when
// the line should be dropped. Severity is decided by case-insensitive
// substring match, error taking precedence over warning over info.
func Classify(line string) (ClassifiedLine, bool) {
	if shouldFilter(line) {
		return ClassifiedLine{}, false
	}
	lower := strings.ToLower(line)
	sev := SeverityPlain
	switch {
	case strings.Contains(lower, "error"):
		sev = SeverityError
	case strings.Contains(lower, "warn"):
		sev = SeverityWarning
	case strings.Contains(lower, "info"):
		sev = SeverityInfo
	}
	return ClassifiedLine{Text: line, Severity: sev}, true
}

// ParseSeverity maps a severity name back to its value.
func ParseSeverity(name string) (Severity, bool) {
	switch strings.ToLower(name) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "plain":
		return SeverityPlain, true
	default:
		return SeverityPlain, false
	}
}
