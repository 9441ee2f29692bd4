package llm

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is the offline LLM used in mock mode.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer", zap.Int("prompt_length", len(prompt)))
	return fmt.Sprintf("Mock answer synthesized from a %d-character context.", len(prompt)), nil
}

func (m *MockConnector) Reachable(ctx context.Context) bool {
	ctxzap.Debug(ctx, "[MOCK] LLM reachability probe")
	return true
}
