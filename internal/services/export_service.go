package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/eduplay/internal/errors"
	"github.com/vytor/eduplay/internal/export"
	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/pdfservice"
	"github.com/vytor/eduplay/internal/quiz"
)

// Worksheet request bounds.
const (
	DefaultWorksheetVariants  = 1
	DefaultWorksheetQuestions = 6
	MaxWorksheetVariants      = 20
	MaxWorksheetQuestions     = 50
)

// ExportService turns question sets into files through the PDF service.
type ExportService interface {
	RenderPDF(ctx context.Context, questions []quiz.Question, meta export.Metadata) ([]byte, error)
	GenerateWorksheets(ctx context.Context, nVariants, questions int) (*pdfservice.Download, error)
	TrackVisitor(ctx context.Context, privateIP string)
}

type exportService struct {
	pdf pdfservice.API
}

// NewExportService creates a new ExportService
func NewExportService(pdf pdfservice.API) ExportService {
	return &exportService{pdf: pdf}
}

func (s *exportService) RenderPDF(ctx context.Context, questions []quiz.Question, meta export.Metadata) ([]byte, error) {
	log := logger.FromContext(ctx)

	req := export.BuildPayload(questions, meta)
	log.Debug("exporting %d questions: title=%s", len(req.Questions), req.Title)

	pdf, err := s.pdf.RenderQuizPDF(ctx, req)
	if err != nil {
		log.Error("pdf export failed: %v", err)
		return nil, upstreamError("PDF export failed", err)
	}
	return pdf, nil
}

func (s *exportService) GenerateWorksheets(ctx context.Context, nVariants, questions int) (*pdfservice.Download, error) {
	log := logger.FromContext(ctx)

	if nVariants < 1 || nVariants > MaxWorksheetVariants {
		return nil, errors.NewValidationError("n_variants", "must be between 1 and 20")
	}
	if questions < 1 || questions > MaxWorksheetQuestions {
		return nil, errors.NewValidationError("questions", "must be between 1 and 50")
	}

	d, err := s.pdf.GenerateQuiz(ctx, nVariants, questions)
	if err != nil {
		log.Error("worksheet generation failed: %v", err)
		return nil, upstreamError("worksheet generation failed", err)
	}
	return d, nil
}

func (s *exportService) TrackVisitor(ctx context.Context, privateIP string) {
	s.pdf.TrackVisitor(ctx, privateIP)
}

// upstreamError maps a PDF service failure to a user-facing error. The
// response body stays in the wrapped error for the logs.
func upstreamError(action string, err error) error {
	var statusErr *pdfservice.StatusError
	var ctErr *pdfservice.ContentTypeError
	switch {
	case stderrors.Is(err, context.Canceled):
		return errors.NewBadRequestError("request cancelled")
	case stderrors.As(err, &statusErr):
		return errors.NewUpstreamError(action+": the PDF service returned an error", err)
	case stderrors.As(err, &ctErr):
		return errors.NewUpstreamError(action+": the PDF service returned an unexpected response", err)
	default:
		return errors.NewUpstreamError(action+": the PDF service is unreachable", err)
	}
}
