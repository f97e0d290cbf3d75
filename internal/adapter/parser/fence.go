package parser

import (
	"strings"

	"debloat/internal/domain"
)

const fence = "```"

// languageTags are fence info strings stripped from the start of a block.
var languageTags = []string{
	"python", "go", "golang", "javascript", "typescript", "java",
	"c++", "cpp", "c", "rust", "ruby", "bash", "sh", "text",
}

// ExtractFencedCode isolates the first triple-backtick code block from a
// free-text model response. The model is not a contractual API partner, so a
// missing or unclosed fence is an explicit error rather than a best-effort
// slice of the raw reply.
func ExtractFencedCode(response string) (string, error) {
	open := strings.Index(response, fence)
	if open == -1 {
		return "", domain.ErrNoCodeFence
	}

	rest := response[open+len(fence):]
	closing := strings.Index(rest, fence)
	if closing == -1 {
		return "", domain.ErrUnclosedFence
	}

	body := rest[:closing]
	body = stripLanguageTag(body)
	return strings.TrimSpace(body), nil
}

// stripLanguageTag removes an info-string token immediately following the
// opening fence, e.g. "```python\n...".
func stripLanguageTag(body string) string {
	nl := strings.IndexByte(body, '\n')
	if nl == -1 {
		return body
	}
	first := strings.TrimSpace(strings.ToLower(body[:nl]))
	for _, tag := range languageTags {
		if first == tag {
			return body[nl+1:]
		}
	}
	return body
}
