package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/vytor/eduplay/internal/errors"
	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/services"
)

func (s *Server) handleWorksheets(w http.ResponseWriter, r *http.Request) {
	nVariants, err := intQuery(r, "n_variants", services.DefaultWorksheetVariants)
	if err != nil {
		handleError(w, r, err)
		return
	}
	questions, err := intQuery(r, "questions", services.DefaultWorksheetQuestions)
	if err != nil {
		handleError(w, r, err)
		return
	}

	d, err := s.ExportService.GenerateWorksheets(r.Context(), nVariants, questions)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeFile(w, r, d.Filename, d.ContentType, d.Body)
}

type resultsResponse struct {
	Results []models.QuizResult `json:"results"`
	Total   int                 `json:"total"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 20)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := models.ResultFilter{
		Mode:   r.URL.Query().Get("mode"),
		Limit:  limit,
		Offset: offset,
	}
	if since := strings.TrimSpace(r.URL.Query().Get("since")); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			handleError(w, r, errors.NewValidationError("since", "must be an RFC 3339 timestamp"))
			return
		}
		filter.Since = &t
	}

	results, total, err := s.ResultService.ListResults(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resultsResponse{Results: results, Total: total})
}

type trackVisitorRequest struct {
	PrivateIP string `json:"private_ip"`
}

// handleTrackVisitor queues a visit for the backend. Tracking never fails
// the request.
func (s *Server) handleTrackVisitor(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req trackVisitorRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	ip := strings.TrimSpace(req.PrivateIP)
	if ip == "" {
		ip = clientIP(r)
	}

	if s.Jobs == nil {
		log.Debug("visitor tracking disabled, dropping visit from %s", ip)
	} else if err := s.Jobs.EnqueueVisit(ip); err != nil {
		log.Warn("failed to enqueue visit from %s: %v", ip, err)
	}

	w.WriteHeader(http.StatusAccepted)
}
