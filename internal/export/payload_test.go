package export_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eduplay/internal/export"
	"github.com/vytor/eduplay/internal/quiz"
)

func sampleQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: 1, Title: "Football Question 1 ⚽", Prompt: "How many footballs do you see?", ItemCount: 3, Label: "Footballs", ImageURL: "/assets/quiz_img/football.png", Options: []int{2, 3, 4, 5}, CorrectAnswer: 3},
		{ID: 2, Title: "Cat Question 2", ItemCount: 2, Label: "Cats", ImageURL: "https://cdn.example.com/cat.png", Options: []int{3, 1, 2, 4}, CorrectAnswer: 2},
	}
}

func TestBuildPayload_EmptyInput(t *testing.T) {
	req := export.BuildPayload(nil, export.Metadata{})

	assert.Equal(t, export.DefaultTitle, req.Title)
	assert.NotNil(t, req.Questions)
	assert.Empty(t, req.Questions)

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Counting Quiz","questions":[]}`, string(body))
}

func TestBuildPayload_ResolvesRelativeURLs(t *testing.T) {
	req := export.BuildPayload(sampleQuestions(), export.Metadata{
		Title:        "Football Counting",
		Origin:       "http://localhost:5173",
		WatermarkURL: "/assets/logo1.png",
	})

	assert.Equal(t, "Football Counting", req.Title)
	assert.Equal(t, "http://localhost:5173/assets/logo1.png", req.WatermarkURL)
	require.Len(t, req.Questions, 2)
	assert.Equal(t, "http://localhost:5173/assets/quiz_img/football.png", req.Questions[0].ImageURL)
	assert.Equal(t, "https://cdn.example.com/cat.png", req.Questions[1].ImageURL, "absolute URLs are kept")
	assert.Equal(t, "Footballs", req.Questions[0].Name)
	assert.Equal(t, 3, req.Questions[0].Count)
	assert.Nil(t, req.Questions[0].Images)
	assert.Empty(t, req.Questions[0].QuestionText)
}

func TestBuildPayload_ExpandImages(t *testing.T) {
	req := export.BuildPayload(sampleQuestions(), export.Metadata{
		Origin:       "https://eduplay.example",
		ExpandImages: true,
	})

	require.Len(t, req.Questions, 2)
	assert.Equal(t, []string{
		"https://eduplay.example/assets/quiz_img/football.png",
		"https://eduplay.example/assets/quiz_img/football.png",
		"https://eduplay.example/assets/quiz_img/football.png",
	}, req.Questions[0].Images)
	assert.Len(t, req.Questions[1].Images, 2)
	assert.Empty(t, req.WatermarkURL)
}

func TestBuildPayload_DefaultImageAndPrompt(t *testing.T) {
	qs := []quiz.Question{{ID: 1, Title: "Football Question 1 ⚽", Prompt: "How many footballs do you see?", ItemCount: 4}}
	req := export.BuildPayload(qs, export.Metadata{
		Origin:          "https://eduplay.example/",
		DefaultImageURL: "/assets/football.png",
		IncludePrompt:   true,
	})

	require.Len(t, req.Questions, 1)
	rec := req.Questions[0]
	assert.Equal(t, "https://eduplay.example/assets/football.png", rec.ImageURL)
	assert.Equal(t, "Football Question 1 ⚽", rec.Name, "title is used when there is no label")
	assert.Equal(t, "How many footballs do you see?", rec.QuestionText)
}

func TestBuildPayload_NameFromTitle(t *testing.T) {
	qs := sampleQuestions()

	byLabel := export.BuildPayload(qs, export.Metadata{})
	assert.Equal(t, "Footballs", byLabel.Questions[0].Name)

	byTitle := export.BuildPayload(qs, export.Metadata{NameFromTitle: true})
	assert.Equal(t, "Football Question 1 ⚽", byTitle.Questions[0].Name)
	assert.Equal(t, "Cat Question 2", byTitle.Questions[1].Name)

	untitled := export.BuildPayload([]quiz.Question{{ID: 3, Label: "Trees", ItemCount: 2}}, export.Metadata{NameFromTitle: true})
	assert.Equal(t, "Trees", untitled.Questions[0].Name, "falls back to the label without a title")
}

func TestBuildPayload_JSONShape(t *testing.T) {
	req := export.BuildPayload(sampleQuestions()[:1], export.Metadata{
		Title:        "Football Counting",
		Origin:       "http://localhost",
		WatermarkURL: "/assets/logo1.png",
		ExpandImages: true,
	})
	body, err := json.Marshal(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"title": "Football Counting",
		"watermarkUrl": "http://localhost/assets/logo1.png",
		"questions": [{
			"id": 1,
			"name": "Footballs",
			"imageUrl": "http://localhost/assets/quiz_img/football.png",
			"count": 3,
			"images": [
				"http://localhost/assets/quiz_img/football.png",
				"http://localhost/assets/quiz_img/football.png",
				"http://localhost/assets/quiz_img/football.png"
			]
		}]
	}`, string(body))
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		ref    string
		want   string
	}{
		{name: "relative path", origin: "http://a.test", ref: "/x.png", want: "http://a.test/x.png"},
		{name: "absolute http", origin: "http://a.test", ref: "http://b.test/x.png", want: "http://b.test/x.png"},
		{name: "absolute https upper case", origin: "http://a.test", ref: "HTTPS://b.test/x.png", want: "HTTPS://b.test/x.png"},
		{name: "no origin", origin: "", ref: "/x.png", want: "/x.png"},
		{name: "empty ref", origin: "http://a.test", ref: "", want: ""},
		{name: "origin without scheme", origin: "a.test", ref: "/x.png", want: "/x.png"},
		{name: "relative without slash", origin: "http://a.test/app/", ref: "x.png", want: "http://a.test/app/x.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, export.ResolveURL(tt.origin, tt.ref))
		})
	}
}
