package llm

import "context"

// MockGenerator returns canned responses, for tests and dry runs.
type MockGenerator struct {
	Responses []string
	Err       error
	calls     int
}

func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{Responses: responses}
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "```\n```", nil
	}
	resp := m.Responses[m.calls%len(m.Responses)]
	m.calls++
	return resp, nil
}

func (m *MockGenerator) Calls() int {
	return m.calls
}

func (m *MockGenerator) ModelName() string {
	return "mock"
}
