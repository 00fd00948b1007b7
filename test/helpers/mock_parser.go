package helpers

import (
	"context"
	"fmt"
	"sync"

	"siteopt/internal/application/scenario"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
)

// MockParser scripts natural-language parse outcomes by request text, so
// interactive-flow tests never touch the Gemini API.
type MockParser struct {
	mu sync.Mutex

	scenarios map[string]*scenario.ParsedScenario
	errs      map[string]error
	calls     []string
}

// NewMockParser creates an empty mock; unscripted requests fail.
func NewMockParser() *MockParser {
	return &MockParser{
		scenarios: make(map[string]*scenario.ParsedScenario),
		errs:      make(map[string]error),
	}
}

// SetScenario scripts the parse result for a request text.
func (m *MockParser) SetScenario(request string, parsed *scenario.ParsedScenario) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[request] = parsed
}

// SetError scripts a parse failure for a request text.
func (m *MockParser) SetError(request string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[request] = err
}

// Calls returns the request texts parsed so far, in order.
func (m *MockParser) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Parse implements scenario.Parser with the scripted behavior.
func (m *MockParser) Parse(_ context.Context, text string, _ *planning.SolutionRecord, _ *dataset.Dataset) (*scenario.ParsedScenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)

	if err := m.errs[text]; err != nil {
		return nil, err
	}
	if parsed, ok := m.scenarios[text]; ok {
		return parsed, nil
	}
	return nil, fmt.Errorf("no scripted scenario for request %q", text)
}
