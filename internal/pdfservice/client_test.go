package pdfservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eduplay/internal/export"
	"github.com/vytor/eduplay/internal/pdfservice"
)

var samplePDF = []byte("%PDF-1.4\n%fake\n")

func sampleRequest() export.Request {
	return export.Request{
		Title:        "Football Counting",
		WatermarkURL: "http://localhost/assets/logo1.png",
		Questions: []export.Record{
			{ID: 1, Name: "Footballs", ImageURL: "http://localhost/f.png", Count: 2, Images: []string{"http://localhost/f.png", "http://localhost/f.png"}},
		},
	}
}

func TestRenderQuizPDF_Success(t *testing.T) {
	var got export.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/render-quiz-pdf/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="quiz.pdf"`)
		_, _ = w.Write(samplePDF)
	}))
	defer srv.Close()

	pdf, err := pdfservice.New(srv.URL + "/").RenderQuizPDF(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, samplePDF, pdf)
	assert.Equal(t, sampleRequest(), got)
}

func TestRenderQuizPDF_ServerErrorIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "WeasyPrint error: missing fonts")
	}))
	defer srv.Close()

	pdf, err := pdfservice.New(srv.URL).RenderQuizPDF(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Nil(t, pdf, "no file on failure")

	var statusErr *pdfservice.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "WeasyPrint error")
}

func TestRenderQuizPDF_NonPDFBodyIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "<html>oops</html>")
	}))
	defer srv.Close()

	pdf, err := pdfservice.New(srv.URL).RenderQuizPDF(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Nil(t, pdf)

	var ctErr *pdfservice.ContentTypeError
	require.True(t, errors.As(err, &ctErr))
	assert.Equal(t, "text/html", ctErr.ContentType)
	assert.Contains(t, ctErr.Body, "oops")
}

func TestRenderQuizPDF_ContentTypeWithParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "Application/PDF; qs=0.9")
		_, _ = w.Write(samplePDF)
	}))
	defer srv.Close()

	pdf, err := pdfservice.New(srv.URL).RenderQuizPDF(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, samplePDF, pdf)
}

func TestRenderQuizPDF_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	pdf, err := pdfservice.New(url).RenderQuizPDF(context.Background(), sampleRequest())
	assert.Error(t, err)
	assert.Nil(t, pdf)
}

func TestRenderQuizPDF_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := pdfservice.New(srv.URL, pdfservice.WithTimeout(50*time.Millisecond)).
		RenderQuizPDF(context.Background(), sampleRequest())
	assert.Error(t, err)
}

func TestGenerateQuiz(t *testing.T) {
	tests := []struct {
		name        string
		variants    int
		contentType string
		disposition string
		wantName    string
	}{
		{name: "single variant", variants: 1, contentType: "application/pdf", wantName: "quiz.pdf"},
		{name: "several variants", variants: 3, contentType: "application/zip", wantName: "quizzes.zip"},
		{name: "server filename", variants: 2, contentType: "application/zip", disposition: `attachment; filename="week1.zip"`, wantName: "week1.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/generate-quiz/", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "6", r.URL.Query().Get("questions"))
				w.Header().Set("Content-Type", tt.contentType)
				if tt.disposition != "" {
					w.Header().Set("Content-Disposition", tt.disposition)
				}
				_, _ = w.Write([]byte("payload"))
			}))
			defer srv.Close()

			d, err := pdfservice.New(srv.URL).GenerateQuiz(context.Background(), tt.variants, 6)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Filename)
			assert.Equal(t, tt.contentType, d.ContentType)
			assert.Equal(t, []byte("payload"), d.Body)
		})
	}
}

func TestGenerateQuiz_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"No questions available"}`)
	}))
	defer srv.Close()

	d, err := pdfservice.New(srv.URL).GenerateQuiz(context.Background(), 1, 6)
	assert.Nil(t, d)
	var statusErr *pdfservice.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestRandomQuestionsAndTeams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/random-questions/":
			_, _ = io.WriteString(w, `[{"id":4,"title":"Count","question":"How many?","footballCount":3,"options":[2,3,4,5],"correctAnswer":3,"explanation":"3!"}]`)
		case "/api/teams/":
			_, _ = io.WriteString(w, `[{"id":1,"name":"Rahim","role":"Teacher","photo":"/media/r.png"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := pdfservice.New(srv.URL)

	qs, err := c.RandomQuestions(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, 3, qs[0].FootballCount)
	assert.Equal(t, []int{2, 3, 4, 5}, qs[0].Options)

	team, err := c.Teams(context.Background())
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, "Rahim", team[0].Name)
	assert.Contains(t, team[0].Extra, "photo")
}

func TestTrackVisitor(t *testing.T) {
	received := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		received <- body
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	// A failing backend must not panic or return anything.
	pdfservice.New(srv.URL).TrackVisitor(context.Background(), "192.168.0.7")
	assert.Equal(t, map[string]string{"private_ip": "192.168.0.7"}, <-received)
}

func TestDownloadFilename(t *testing.T) {
	assert.Equal(t, "quiz.pdf", pdfservice.DownloadFilename("", "application/pdf"))
	assert.Equal(t, "quizzes.zip", pdfservice.DownloadFilename("", "application/zip"))
	assert.Equal(t, "a.pdf", pdfservice.DownloadFilename(`attachment; filename="a.pdf"`, "application/pdf"))
	assert.Equal(t, "evil.pdf", pdfservice.DownloadFilename(`attachment; filename="../../evil.pdf"`, "application/pdf"))
	assert.Equal(t, "quiz.pdf", pdfservice.DownloadFilename("attachment", "application/pdf"))
	assert.Equal(t, "quizzes.zip", pdfservice.DownloadFilename(`attachment; filename=".."`, "application/zip"))
	assert.Equal(t, "quiz.pdf", pdfservice.DownloadFilename(`attachment; filename="a/.."`, "application/pdf"))
	assert.Equal(t, "quiz.pdf", pdfservice.DownloadFilename(`attachment; filename="."`, "application/pdf"))
}
