package service

import (
	"context"

	"github.com/Rrens/honeypot/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockClassifier mocks gateway.Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, req domain.ClassifyRequest) (*domain.Verdict, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verdict), args.Error(1)
}

// MockResponder mocks gateway.Responder
type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) Reply(ctx context.Context, req domain.ReplyRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockReporter mocks Reporter
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Observe(sess *domain.Session) {
	m.Called(sess)
}
