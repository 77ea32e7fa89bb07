package api

import (
	"net/http"

	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/quiz"
)

const printableExportFilename = "counting_quiz.pdf"

type printableResponse struct {
	TabID     string          `json:"tab_id"`
	Questions []quiz.Question `json:"questions"`
}

func (s *Server) handlePrintable(w http.ResponseWriter, r *http.Request) {
	tabID := tabFromContext(r.Context())

	qs, err := s.PrintableService.Load(r.Context(), tabID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, printableResponse{TabID: tabID, Questions: qs})
}

func (s *Server) handleRegeneratePrintable(w http.ResponseWriter, r *http.Request) {
	tabID := tabFromContext(r.Context())

	qs, err := s.PrintableService.Regenerate(r.Context(), tabID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, printableResponse{TabID: tabID, Questions: qs})
}

func (s *Server) handleExportPrintable(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	pdf, err := s.PrintableService.Export(r.Context(), tabFromContext(r.Context()), s.requestOrigin(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("exported printable pdf (%d bytes)", len(pdf))
	writeFile(w, r, printableExportFilename, "application/pdf", pdf)
}
