// Package export turns a question set into the request body understood by
// the external PDF rendering service.
package export

import (
	"net/url"
	"strings"

	"github.com/vytor/eduplay/internal/quiz"
)

// DefaultTitle is used when no title is supplied.
const DefaultTitle = "Counting Quiz"

// Metadata controls how a payload is built.
type Metadata struct {
	Title string
	// Origin is the scheme and host that relative asset paths resolve against.
	Origin string
	// WatermarkURL is optional; relative paths resolve against Origin.
	WatermarkURL string
	// DefaultImageURL is used for questions without their own image.
	DefaultImageURL string
	// ExpandImages adds Count copies of the image URL to every record.
	ExpandImages bool
	// IncludePrompt copies the question prompt into the record.
	IncludePrompt bool
	// NameFromTitle names records after the question title instead of the
	// counted item.
	NameFromTitle bool
}

// Request is the JSON body of POST /api/render-quiz-pdf/.
type Request struct {
	Title        string   `json:"title"`
	WatermarkURL string   `json:"watermarkUrl,omitempty"`
	Questions    []Record `json:"questions"`
}

// Record is one question as rendered on the worksheet.
type Record struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	ImageURL     string   `json:"imageUrl"`
	Count        int      `json:"count"`
	QuestionText string   `json:"question_text,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// BuildPayload converts questions into a render request. It does no I/O and
// never fails; an empty question set yields an empty record list.
func BuildPayload(questions []quiz.Question, meta Metadata) Request {
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = DefaultTitle
	}

	req := Request{
		Title:     title,
		Questions: make([]Record, 0, len(questions)),
	}
	if meta.WatermarkURL != "" {
		req.WatermarkURL = ResolveURL(meta.Origin, meta.WatermarkURL)
	}

	for _, q := range questions {
		image := q.ImageURL
		if image == "" {
			image = meta.DefaultImageURL
		}
		image = ResolveURL(meta.Origin, image)

		name := q.Label
		if name == "" || (meta.NameFromTitle && q.Title != "") {
			name = q.Title
		}

		rec := Record{
			ID:       q.ID,
			Name:     name,
			ImageURL: image,
			Count:    q.ItemCount,
		}
		if meta.IncludePrompt {
			rec.QuestionText = q.Prompt
		}
		if meta.ExpandImages && q.ItemCount > 0 {
			rec.Images = make([]string, q.ItemCount)
			for i := range rec.Images {
				rec.Images[i] = image
			}
		}
		req.Questions = append(req.Questions, rec)
	}
	return req
}

// ResolveURL makes ref absolute against origin. Absolute http(s) URLs, empty
// references, and references that cannot be resolved are returned unchanged.
func ResolveURL(origin, ref string) string {
	if ref == "" || origin == "" {
		return ref
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref
	}
	base, err := url.Parse(origin)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return ref
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(rel).String()
}
