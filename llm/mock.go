package llm

import "context"

var _ LLM = (*MockLLM)(nil)

// MockLLM returns a canned response and records every request it receives
type MockLLM struct {
	Response Response
	Err      error
	Requests []Request
}

func (m *MockLLM) Prompt(ctx context.Context, req Request) (Response, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return Response{}, m.Err
	}
	return m.Response, nil
}

// Calls returns how many times Prompt was invoked
func (m *MockLLM) Calls() int {
	return len(m.Requests)
}
