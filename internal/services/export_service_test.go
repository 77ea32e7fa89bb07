package services_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/eduplay/internal/errors"
	"github.com/vytor/eduplay/internal/export"
	"github.com/vytor/eduplay/internal/pdfservice"
	"github.com/vytor/eduplay/internal/services"
	"github.com/vytor/eduplay/internal/testutil"
	"github.com/vytor/eduplay/internal/testutil/mocks"
)

func TestExportService_RenderPDF(t *testing.T) {
	pdf := new(mocks.MockPDFService)
	svc := services.NewExportService(pdf)
	ctx := context.Background()
	qs := testutil.SampleQuestions(2)

	pdf.On("RenderQuizPDF", ctx, mock.MatchedBy(func(req export.Request) bool {
		return req.Title == "Nursery" && len(req.Questions) == 2 &&
			req.Questions[0].ImageURL == "http://localhost:5173/assets/football.png"
	})).Return([]byte("%PDF"), nil)

	out, err := svc.RenderPDF(ctx, qs, export.Metadata{Title: "Nursery", Origin: "http://localhost:5173"})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)
	pdf.AssertExpectations(t)
}

func TestExportService_RenderPDFFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "server error", err: &pdfservice.StatusError{StatusCode: http.StatusInternalServerError, Body: "WeasyPrint error"}},
		{name: "wrong content type", err: &pdfservice.ContentTypeError{ContentType: "text/html"}},
		{name: "network", err: fmt.Errorf("render quiz pdf: %w", assert.AnError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdf := new(mocks.MockPDFService)
			pdf.On("RenderQuizPDF", mock.Anything, mock.Anything).Return(nil, tt.err)

			out, err := services.NewExportService(pdf).RenderPDF(context.Background(), testutil.SampleQuestions(1), export.Metadata{})
			assert.Nil(t, out)

			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
			assert.Equal(t, http.StatusBadGateway, appErr.Status)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExportService_RenderPDFCancelled(t *testing.T) {
	pdf := new(mocks.MockPDFService)
	pdf.On("RenderQuizPDF", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("render: %w", context.Canceled))

	_, err := services.NewExportService(pdf).RenderPDF(context.Background(), nil, export.Metadata{})
	requireCode(t, err, apperrors.ErrCodeBadRequest)
}

func TestExportService_GenerateWorksheets(t *testing.T) {
	pdf := new(mocks.MockPDFService)
	svc := services.NewExportService(pdf)
	ctx := context.Background()

	download := &pdfservice.Download{Filename: "quizzes.zip", ContentType: pdfservice.ContentTypeZIP, Body: []byte("PK")}
	pdf.On("GenerateQuiz", ctx, 3, 6).Return(download, nil)

	d, err := svc.GenerateWorksheets(ctx, 3, 6)
	require.NoError(t, err)
	assert.Equal(t, download, d)

	_, err = svc.GenerateWorksheets(ctx, 0, 6)
	requireCode(t, err, apperrors.ErrCodeValidation)
	_, err = svc.GenerateWorksheets(ctx, 1, 51)
	requireCode(t, err, apperrors.ErrCodeValidation)

	pdf.AssertNumberOfCalls(t, "GenerateQuiz", 1)
}

func TestExportService_GenerateWorksheetsUpstreamError(t *testing.T) {
	pdf := new(mocks.MockPDFService)
	pdf.On("GenerateQuiz", mock.Anything, 1, 6).
		Return(nil, &pdfservice.StatusError{StatusCode: http.StatusNotFound, Body: `{"error":"No questions available"}`})

	_, err := services.NewExportService(pdf).GenerateWorksheets(context.Background(), 1, 6)
	requireCode(t, err, apperrors.ErrCodeUpstream)
}

func TestExportService_TrackVisitor(t *testing.T) {
	pdf := new(mocks.MockPDFService)
	pdf.On("TrackVisitor", mock.Anything, "10.0.0.2").Return()

	services.NewExportService(pdf).TrackVisitor(context.Background(), "10.0.0.2")
	pdf.AssertExpectations(t)
}
