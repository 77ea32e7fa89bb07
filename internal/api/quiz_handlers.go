package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/eduplay/internal/errors"
	"github.com/vytor/eduplay/internal/export"
	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/quiz"
	"github.com/vytor/eduplay/internal/services"
)

const (
	nurseryExportTitle    = "Football Counting"
	nurseryExportFilename = "nursery_quiz.pdf"
)

type startSessionRequest struct {
	Mode      string `json:"mode"`
	Questions int    `json:"questions"`
}

type selectAnswerRequest struct {
	QuestionID int    `json:"question_id"`
	Value      string `json:"value"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	mode, err := quiz.ParseMode(req.Mode)
	if err != nil {
		handleError(w, r, errors.NewValidationError("mode", err.Error()))
		return
	}

	log.Debug("starting quiz session: mode=%s, questions=%d", mode, req.Questions)
	view, err := s.QuizService.StartSession(r.Context(), mode, req.Questions)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/quiz/sessions/"+view.ID)
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.GetSession(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, view, err)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.QuizService.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	var req selectAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.QuestionID == 0 {
		handleError(w, r, errors.NewValidationError("question_id", "is required"))
		return
	}

	view, err := s.QuizService.SelectAnswer(r.Context(), chi.URLParam(r, "id"), req.QuestionID, req.Value)
	s.respondSession(w, r, view, err)
}

func (s *Server) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, err := intURLParam(r, "questionID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.QuizService.CheckAnswer(r.Context(), chi.URLParam(r, "id"), questionID)
	s.respondSession(w, r, view, err)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.Advance(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, view, err)
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.Retreat(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, view, err)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.Finish(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, view, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.Reset(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, view, err)
}

func (s *Server) handleExportSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	qs, err := s.QuizService.Questions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	pdf, err := s.ExportService.RenderPDF(r.Context(), qs, export.Metadata{
		Title:           nurseryExportTitle,
		Origin:          s.requestOrigin(r),
		DefaultImageURL: quiz.Football.ImageURL,
		IncludePrompt:   true,
		NameFromTitle:   true,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("exported session pdf (%d bytes)", len(pdf))
	writeFile(w, r, nurseryExportFilename, "application/pdf", pdf)
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, view *services.SessionView, err error) {
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}
