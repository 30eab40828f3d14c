package loader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// HeaderAnalysis is the outcome of inspecting a file's first row
type HeaderAnalysis struct {
	// Headers are the final column names, generated when the first row
	// turned out to be data
	Headers []string
	// FirstRowIsData reports that the first row belongs to the records
	FirstRowIsData bool
}

var headerDateShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
	regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`),
}

// AnalyzeHeader decides whether the first row names columns or is already
// data. When at least half of its fields look like names it is a header;
// otherwise column names are generated and the row is kept as data.
// Duplicate and blank names are repaired either way.
func AnalyzeHeader(firstRow []string) HeaderAnalysis {
	if len(firstRow) == 0 {
		return HeaderAnalysis{Headers: []string{}}
	}

	headerLike := 0
	for _, field := range firstRow {
		if isLikelyHeader(field) {
			headerLike++
		}
	}

	analysis := HeaderAnalysis{Headers: make([]string, len(firstRow))}
	if float64(headerLike)/float64(len(firstRow)) >= 0.5 {
		for i, field := range firstRow {
			name := strings.TrimSpace(field)
			if name == "" || !isLikelyHeader(field) {
				name = generateColumnName(i)
			}
			analysis.Headers[i] = name
		}
	} else {
		analysis.FirstRowIsData = true
		for i := range firstRow {
			analysis.Headers[i] = generateColumnName(i)
		}
	}

	analysis.Headers = dedupeHeaders(analysis.Headers)
	return analysis
}

// isLikelyHeader reports whether a field reads as a column name rather
// than a value: non-empty, not a number, not a date shape, and at least
// 30% letters
func isLikelyHeader(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return false
	}

	for _, shape := range headerDateShapes {
		if shape.MatchString(text) {
			return false
		}
	}

	letters := 0
	others := 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsSpace(r):
			// spaces are neutral
		default:
			others++
		}
	}
	if letters+others == 0 {
		return false
	}
	return letters > 0 && float64(letters)/float64(letters+others) >= 0.3
}

func generateColumnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}

// dedupeHeaders repairs duplicate names with a numeric suffix so every
// column keys its own cells
func dedupeHeaders(headers []string) []string {
	seen := make(map[string]bool, len(headers))
	out := make([]string, len(headers))

	for i, header := range headers {
		name := header
		for suffix := 2; seen[name]; suffix++ {
			name = fmt.Sprintf("%s_%d", header, suffix)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
