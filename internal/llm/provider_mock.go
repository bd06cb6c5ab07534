package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

var _ Provider = &MockProvider{} // Compile-time check

// GenerateText implements the Provider interface.
func (m *MockProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
