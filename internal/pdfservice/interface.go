package pdfservice

import (
	"context"

	"github.com/vytor/eduplay/internal/export"
)

// API is the set of backend operations the services depend on. It is
// injected so callers can be exercised without a network.
type API interface {
	RenderQuizPDF(ctx context.Context, req export.Request) ([]byte, error)
	GenerateQuiz(ctx context.Context, nVariants, questions int) (*Download, error)
	RandomQuestions(ctx context.Context) ([]RemoteQuestion, error)
	Teams(ctx context.Context) ([]TeamMember, error)
	TrackVisitor(ctx context.Context, privateIP string)
}

// Ensure Client implements the interface
var _ API = (*Client)(nil)
