package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/quiz/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/answers", s.handleSelectAnswer)
				r.Post("/answers/{questionID}/check", s.handleCheckAnswer)
				r.Post("/advance", s.handleAdvance)
				r.Post("/retreat", s.handleRetreat)
				r.Post("/finish", s.handleFinish)
				r.Post("/reset", s.handleReset)
				r.Post("/export", s.handleExportSession)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(tabMiddleware)
			r.Get("/printable", s.handlePrintable)
			r.Post("/printable/regenerate", s.handleRegeneratePrintable)
			r.Post("/printable/export", s.handleExportPrintable)
		})

		r.Get("/worksheets", s.handleWorksheets)
		r.Get("/results", s.handleResults)
		r.Post("/visitors", s.handleTrackVisitor)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errMethodNotAllowed(r))
	})

	if s.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.AssetsDir))))
	}
	return r
}
