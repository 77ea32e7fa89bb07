package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/eduplay/internal/export"
	"github.com/vytor/eduplay/internal/pdfservice"
)

// MockPDFService is a mock implementation of pdfservice.API
type MockPDFService struct {
	mock.Mock
}

func (m *MockPDFService) RenderQuizPDF(ctx context.Context, req export.Request) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPDFService) GenerateQuiz(ctx context.Context, nVariants, questions int) (*pdfservice.Download, error) {
	args := m.Called(ctx, nVariants, questions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pdfservice.Download), args.Error(1)
}

func (m *MockPDFService) RandomQuestions(ctx context.Context) ([]pdfservice.RemoteQuestion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pdfservice.RemoteQuestion), args.Error(1)
}

func (m *MockPDFService) Teams(ctx context.Context) ([]pdfservice.TeamMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pdfservice.TeamMember), args.Error(1)
}

func (m *MockPDFService) TrackVisitor(ctx context.Context, privateIP string) {
	m.Called(ctx, privateIP)
}
