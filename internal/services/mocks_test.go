package services_test

import (
	"context"

	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/pkg/mailer"
	"github.com/stretchr/testify/mock"
)

// MockCaptchaVerifier is a mock implementation of CaptchaVerifier
type MockCaptchaVerifier struct {
	mock.Mock
}

func (m *MockCaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	args := m.Called(ctx, token, remoteIP)
	return args.Error(0)
}

// MockAttachmentStore is a mock implementation of AttachmentStore
type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

// MockQuoteStore is a mock implementation of repository.QuoteStore
type MockQuoteStore struct {
	mock.Mock
}

func (m *MockQuoteStore) Create(ctx context.Context, rec *models.QuoteRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg mailer.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}
