// Command worksheets downloads printable quiz worksheets from the PDF service.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/vytor/eduplay/internal/config"
	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/pdfservice"
	"github.com/vytor/eduplay/internal/services"
)

func main() {
	cfg := config.Load()

	url := flag.String("url", cfg.PDFServiceURL, "base URL of the PDF service")
	variants := flag.Int("variants", services.DefaultWorksheetVariants, "number of worksheet variants")
	questions := flag.Int("questions", services.DefaultWorksheetQuestions, "questions per worksheet")
	out := flag.String("out", ".", "directory to write the file to")
	timeout := flag.Duration("timeout", time.Minute, "request timeout")
	flag.Parse()

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)), logger.WithPrefix("worksheets"))
	logger.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	exporter := services.NewExportService(pdfservice.New(*url))
	d, err := exporter.GenerateWorksheets(ctx, *variants, *questions)
	if err != nil {
		log.WithError(err).Error("failed to generate worksheets")
		os.Exit(1)
	}

	path := filepath.Join(*out, d.Filename)
	if err := os.WriteFile(path, d.Body, 0o644); err != nil {
		log.Error("failed to write %s: %v", path, err)
		os.Exit(1)
	}
	log.Info("wrote %s (%d bytes, %s)", path, len(d.Body), d.ContentType)
}
