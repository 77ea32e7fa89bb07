// Package pdfservice is the client of the external quiz/PDF backend.
package pdfservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/eduplay/internal/export"
	"github.com/vytor/eduplay/internal/logger"
)

// Endpoint paths of the backend.
const (
	pathGenerateQuiz    = "/api/generate-quiz/"
	pathRenderQuizPDF   = "/api/render-quiz-pdf/"
	pathRandomQuestions = "/api/random-questions/"
	pathTeams           = "/api/teams/"
	pathTrackVisitor    = "/api/track-visitor/"
)

// errorBodyLimit bounds how much of a failed response is kept for diagnostics.
const errorBodyLimit = 1024

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero leaves the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Transport: c.httpClient.Transport, Timeout: d}
		}
	}
}

// New returns a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        logger.Default().WithPrefix("pdfservice"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RemoteQuestion is a stored question served by GET /api/random-questions/.
type RemoteQuestion struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Question      string `json:"question"`
	FootballCount int    `json:"footballCount"`
	ShowAddition  bool   `json:"showAddition"`
	FirstGroup    *int   `json:"firstGroup"`
	SecondGroup   *int   `json:"secondGroup"`
	Options       []int  `json:"options"`
	CorrectAnswer int    `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// TeamMember is an entry of GET /api/teams/. The backend owns the shape;
// unknown fields are kept in Extra.
type TeamMember struct {
	ID    int64                      `json:"id"`
	Name  string                     `json:"name"`
	Role  string                     `json:"role"`
	Extra map[string]json.RawMessage `json:"-"`
}

func (m *TeamMember) UnmarshalJSON(b []byte) error {
	type plain TeamMember
	if err := json.Unmarshal(b, (*plain)(m)); err != nil {
		return err
	}
	return json.Unmarshal(b, &m.Extra)
}

// RenderQuizPDF posts a render request and returns the PDF bytes. A non-2xx
// status or a body that is not a PDF is an error; the body is never returned
// in that case.
func (c *Client) RenderQuizPDF(ctx context.Context, req export.Request) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("pdfservice").WithField("questions", len(req.Questions))

	body, err := json.Marshal(req)
	if err != nil {
		log.Error("failed to encode render request: %v", err)
		return nil, err
	}

	endpoint := c.baseURL + pathRenderQuizPDF
	log.Debug("rendering quiz pdf via: %s", endpoint)
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", ContentTypePDF)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("render request failed: %v", err)
		return nil, fmt.Errorf("render quiz pdf: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("render response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if err := checkResponse(resp, ContentTypePDF); err != nil {
		log.Error("render failed: %v", err)
		return nil, err
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read pdf body: %v", err)
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	log.Info("rendered quiz pdf (%d bytes)", len(pdf))
	return pdf, nil
}

// GenerateQuiz asks the backend for nVariants worksheets of n questions each.
// One variant comes back as a PDF, several as a ZIP archive.
func (c *Client) GenerateQuiz(ctx context.Context, nVariants, questions int) (*Download, error) {
	log := logger.FromContext(ctx).WithPrefix("pdfservice").WithFields(map[string]any{
		"n_variants": nVariants,
		"questions":  questions,
	})

	q := url.Values{}
	q.Set("n_variants", strconv.Itoa(nVariants))
	q.Set("questions", strconv.Itoa(questions))
	endpoint := c.baseURL + pathGenerateQuiz + "?" + q.Encode()

	log.Debug("generating quiz via: %s", endpoint)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("generate request failed: %v", err)
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("generate response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if err := checkResponse(resp, ContentTypePDF, ContentTypeZIP); err != nil {
		log.Error("generate failed: %v", err)
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read download body: %v", err)
		return nil, fmt.Errorf("read download: %w", err)
	}

	contentType := mediaType(resp.Header.Get("Content-Type"))
	d := &Download{
		Filename:    DownloadFilename(resp.Header.Get("Content-Disposition"), contentType),
		ContentType: contentType,
		Body:        data,
	}
	log.Info("downloaded %s (%d bytes)", d.Filename, len(d.Body))
	return d, nil
}

// RandomQuestions fetches a random selection of stored questions.
func (c *Client) RandomQuestions(ctx context.Context) ([]RemoteQuestion, error) {
	var out []RemoteQuestion
	if err := c.getJSON(ctx, pathRandomQuestions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Teams fetches the team list.
func (c *Client) Teams(ctx context.Context) ([]TeamMember, error) {
	var out []TeamMember
	if err := c.getJSON(ctx, pathTeams, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrackVisitor reports a visit. Tracking is best effort: failures are
// logged and not returned.
func (c *Client) TrackVisitor(ctx context.Context, privateIP string) {
	log := logger.FromContext(ctx).WithPrefix("pdfservice")

	body, _ := json.Marshal(map[string]string{"private_ip": privateIP})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathTrackVisitor, bytes.NewReader(body))
	if err != nil {
		log.Warn("visitor tracking failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("visitor tracking failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		log.Warn("visitor tracking failed: status=%d, body=%s", resp.StatusCode, string(b))
		return
	}
	log.Debug("visitor tracked")
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	log := logger.FromContext(ctx).WithPrefix("pdfservice").WithField("path", path)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if err := checkResponse(resp, "application/json"); err != nil {
		log.Error("request failed: %v", err)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// checkResponse rejects non-2xx statuses and unexpected content types,
// capturing a bounded excerpt of the body for diagnostics.
func checkResponse(resp *http.Response, accepted ...string) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	ct := mediaType(resp.Header.Get("Content-Type"))
	for _, a := range accepted {
		if ct == a {
			return nil
		}
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &ContentTypeError{ContentType: ct, Expected: accepted, Body: string(b)}
}
