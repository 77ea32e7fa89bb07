package services

import (
	"context"
	"sync"

	"github.com/vytor/eduplay/internal/export"
	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/quiz"
	"github.com/vytor/eduplay/internal/storage"
)

// PrintableTitle is the heading of the printable quiz PDF.
const PrintableTitle = "Football Counting"

// PrintableService manages the printable quiz kept per browser tab.
type PrintableService interface {
	Load(ctx context.Context, tabID string) ([]quiz.Question, error)
	Regenerate(ctx context.Context, tabID string) ([]quiz.Question, error)
	Export(ctx context.Context, tabID, origin string) ([]byte, error)
}

// PrintableConfig holds the export settings of the printable quiz.
type PrintableConfig struct {
	Questions     int
	WatermarkPath string
	PublicOrigin  string
}

type printableService struct {
	store     storage.Store
	genMu     sync.Mutex
	generator *quiz.Generator
	exporter  ExportService
	cfg       PrintableConfig
}

// NewPrintableService creates a new PrintableService
func NewPrintableService(store storage.Store, generator *quiz.Generator, exporter ExportService, cfg PrintableConfig) PrintableService {
	if cfg.Questions <= 0 {
		cfg.Questions = DefaultWorksheetQuestions
	}
	return &printableService{
		store:     store,
		generator: generator,
		exporter:  exporter,
		cfg:       cfg,
	}
}

func (s *printableService) Load(ctx context.Context, tabID string) ([]quiz.Question, error) {
	qs, err := storage.LoadOrCreate(ctx, s.store, storage.TabKey(tabID, storage.QuizRowsKey), s.generate)
	if err != nil {
		// The fresh set is still shown; it just won't survive a reload.
		logger.FromContext(ctx).Warn("printable quiz not persisted for tab %s: %v", tabID, err)
	}
	return qs, nil
}

func (s *printableService) Regenerate(ctx context.Context, tabID string) ([]quiz.Question, error) {
	qs, err := storage.Regenerate(ctx, s.store, storage.TabKey(tabID, storage.QuizRowsKey), s.generate)
	if err != nil {
		logger.FromContext(ctx).Warn("regenerated printable quiz not persisted for tab %s: %v", tabID, err)
	}
	return qs, nil
}

func (s *printableService) Export(ctx context.Context, tabID, origin string) ([]byte, error) {
	qs, err := s.Load(ctx, tabID)
	if err != nil {
		return nil, err
	}
	if s.cfg.PublicOrigin != "" {
		origin = s.cfg.PublicOrigin
	}
	return s.exporter.RenderPDF(ctx, qs, export.Metadata{
		Title:        PrintableTitle,
		Origin:       origin,
		WatermarkURL: s.cfg.WatermarkPath,
		ExpandImages: true,
	})
}

func (s *printableService) generate() []quiz.Question {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generator.Generate(s.cfg.Questions)
}
