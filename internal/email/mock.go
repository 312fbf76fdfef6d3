package email

import (
	"context"
	"log/slog"
)

// MockSender logs emails instead of sending them. Used in local development
// when no Maileroo API key is configured — the verification link appears in
// the server log, where a developer can click it directly.
type MockSender struct {
	logger *slog.Logger
}

var _ Sender = (*MockSender)(nil)

// NewMockSender creates a logging Sender.
func NewMockSender(logger *slog.Logger) *MockSender {
	return &MockSender{logger: logger}
}

func (m *MockSender) SendVerification(_ context.Context, to, verificationLink string) error {
	m.logger.Info("verification email (mock mode, not sent)",
		slog.String("to", to),
		slog.String("link", verificationLink),
	)
	return nil
}
