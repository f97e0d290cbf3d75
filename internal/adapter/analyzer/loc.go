package analyzer

import "strings"

// commentMarkers are the single-line comment prefixes a line may start with
// to be excluded from the significant-line count.
var commentMarkers = []string{"#", "//"}

// CountSignificantLines counts lines that are non-blank and not single-line
// comments. It never fails; the empty string counts as zero lines.
func CountSignificantLines(text string) int {
	if text == "" {
		return 0
	}

	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isComment(trimmed) {
			continue
		}
		count++
	}
	return count
}

func isComment(trimmed string) bool {
	for _, m := range commentMarkers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}
