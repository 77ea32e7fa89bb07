package api

import (
	"context"

	"github.com/vytor/eduplay/internal/jobs"
	"github.com/vytor/eduplay/internal/services"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	QuizService      services.QuizService
	PrintableService services.PrintableService
	ExportService    services.ExportService
	ResultService    services.ResultService
	// Jobs runs background work such as visitor tracking. Nil drops visits.
	Jobs jobs.JobQueue
	// DB is checked by the readiness probe. Nil skips the check.
	DB Pinger
	// PublicOrigin overrides the request origin when resolving asset URLs.
	PublicOrigin string
	// AssetsDir is served under /assets/ when set.
	AssetsDir string
}
