package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"debloat/internal/domain"
)

// OllamaGenerator runs against a local Ollama server through its
// OpenAI-compatible endpoint. No API key is required; the model weights live
// in Ollama's local cache and are pulled from the registry on first use.
type OllamaGenerator struct {
	OpenAIGenerator
	serverURL string
}

func NewOllamaGenerator(opts Options) (*OllamaGenerator, error) {
	serverURL := "http://localhost:11434"
	if opts.BaseURL != "" {
		serverURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = "deepseek-coder:1.3b-instruct"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &OllamaGenerator{
		OpenAIGenerator: OpenAIGenerator{
			apiKey:      "", // Ollama ignores auth
			model:       opts.Model,
			baseURL:     serverURL + "/v1",
			temperature: opts.Temperature,
			maxTokens:   opts.MaxOutputTokens,
			client:      &http.Client{Timeout: timeout},
		},
		serverURL: serverURL,
	}, nil
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

type showRequest struct {
	Name string `json:"name"`
}

// EnsureModel pulls the model from the registry if it is not in the local
// cache. Pulling can take a while on first use; the passed context bounds it.
func (g *OllamaGenerator) EnsureModel(ctx context.Context) error {
	present, err := g.modelPresent(ctx)
	if err != nil {
		return err
	}
	if present {
		return nil
	}

	body, _ := json.Marshal(pullRequest{Name: g.model, Stream: false})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.serverURL+"/api/pull", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: model pull failed: %v", domain.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: model pull returned status %d: %s", domain.ErrBackend, resp.StatusCode, slurp)
	}
	return nil
}

func (g *OllamaGenerator) modelPresent(ctx context.Context) (bool, error) {
	body, _ := json.Marshal(showRequest{Name: g.model})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.serverURL+"/api/show", bytes.NewBuffer(body))
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: cannot reach ollama at %s: %v", domain.ErrBackend, g.serverURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}
