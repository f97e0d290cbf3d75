package usecase

import (
	"bytes"
	"embed"
	"text/template"

	"debloat/internal/domain"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

var debloatPrompt = template.Must(
	template.ParseFS(promptTemplates, "templates/debloat_prompt.txt"))

type promptData struct {
	Context string
	Code    string
}

// BuildPrompt renders the rewrite instruction for one chunk. The chunk's
// already-covered leading region is presented as read-only context; only the
// target region is submitted for rewriting.
func BuildPrompt(chunk domain.Chunk) (string, error) {
	var buf bytes.Buffer
	err := debloatPrompt.Execute(&buf, promptData{
		Context: chunk.Context(),
		Code:    chunk.Target(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
