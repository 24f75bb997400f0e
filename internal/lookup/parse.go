package lookup

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseKind classifies a parsed knowledge-service response.
type ParseKind int

const (
	// ParseResolved means a non-negative integer was extracted.
	ParseResolved ParseKind = iota
	// ParseNotFound means the service explicitly signaled no data.
	ParseNotFound
	// ParseUnparseable means no usable number could be extracted.
	ParseUnparseable
)

func (k ParseKind) String() string {
	switch k {
	case ParseResolved:
		return "resolved"
	case ParseNotFound:
		return "not_found"
	case ParseUnparseable:
		return "unparseable"
	default:
		return "unknown"
	}
}

// ParseResult is the outcome of parsing one free-text response.
type ParseResult struct {
	Kind  ParseKind
	Count int
}

// numberRe matches the first integer in the text, allowing thousands
// separators and a leading sign. A trailing decimal part is captured so it
// can be rejected rather than silently truncated.
var numberRe = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// notFoundMarkers are phrases the model uses when it has no information.
var notFoundMarkers = []string{
	"unknown",
	"no data",
	"no information",
	"not available",
}

// ParseCount extracts an employee count from a free-text model response.
// The prompt asks for a bare number or the word "Unknown", but responses
// occasionally arrive with prose, commas, or qualifiers; this function is
// the single place that turns that text into a typed result. It performs
// no I/O.
func ParseCount(text string) ParseResult {
	s := strings.TrimSpace(text)
	if s == "" {
		return ParseResult{Kind: ParseUnparseable}
	}

	lower := strings.ToLower(s)
	for _, marker := range notFoundMarkers {
		if strings.Contains(lower, marker) {
			return ParseResult{Kind: ParseNotFound}
		}
	}

	m := numberRe.FindString(s)
	if m == "" {
		return ParseResult{Kind: ParseUnparseable}
	}
	if strings.HasPrefix(m, "-") || strings.Contains(m, ".") {
		// Negative or fractional counts are nonsense answers.
		return ParseResult{Kind: ParseUnparseable}
	}

	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return ParseResult{Kind: ParseUnparseable}
	}

	return ParseResult{Kind: ParseResolved, Count: n}
}
