package pdfservice

import (
	"fmt"
	"mime"
	"path"
	"strings"
)

// Content types returned by the backend.
const (
	ContentTypePDF = "application/pdf"
	ContentTypeZIP = "application/zip"
)

// Download is a binary file produced by the backend.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pdf service status %d: %s", e.StatusCode, e.Body)
}

// ContentTypeError is a 2xx answer whose body is not what was asked for,
// typically an HTML error page.
type ContentTypeError struct {
	ContentType string
	Expected    []string
	Body        string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("pdf service returned %q, expected %s: %s",
		e.ContentType, strings.Join(e.Expected, " or "), e.Body)
}

// DownloadFilename picks the filename of a download: the Content-Disposition
// filename when present, otherwise quiz.pdf or quizzes.zip by content type.
func DownloadFilename(contentDisposition, contentType string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := path.Base(strings.ReplaceAll(params["filename"], "\\", "/")); validFilename(name) {
				return name
			}
		}
	}
	if mediaType(contentType) == ContentTypeZIP {
		return "quizzes.zip"
	}
	return "quiz.pdf"
}

func validFilename(name string) bool {
	switch name {
	case "", ".", "..", "/":
		return false
	}
	return true
}

// mediaType strips parameters and lowercases a Content-Type header.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mt
}
