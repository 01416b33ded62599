package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrInvalidFilename is returned for filenames that are not a plain name
var ErrInvalidFilename = errors.New("invalid filename")

// Downloader streams a produced file. *scraper.Client implements it.
type Downloader interface {
	Download(ctx context.Context, filename string, w io.Writer) (int64, error)
}

// DownloadService saves files produced by scrape jobs into a local directory
type DownloadService struct {
	client    Downloader
	outputDir string
	log       logrus.FieldLogger
}

// NewDownloadService creates a new download service
func NewDownloadService(client Downloader, outputDir string, log logrus.FieldLogger) *DownloadService {
	if outputDir == "" {
		outputDir = "output"
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &DownloadService{
		client:    client,
		outputDir: outputDir,
		log:       log,
	}
}

// OutputDir returns the directory files are saved into
func (s *DownloadService) OutputDir() string {
	return s.outputDir
}

// Save downloads filename into the output directory and returns the local
// path and size. The file only appears once the download completed.
func (s *DownloadService) Save(ctx context.Context, filename string) (string, int64, error) {
	if err := validateFilename(filename); err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.outputDir, ".download-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := s.client.Download(ctx, filename, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write file: %w", cerr)
	}
	if err != nil {
		s.log.WithError(err).WithField("filename", filename).Error("download failed")
		return "", 0, err
	}

	dest := filepath.Join(s.outputDir, filename)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", 0, fmt.Errorf("failed to save file: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"filename": filename,
		"path":     dest,
		"bytes":    n,
	}).Info("download saved")

	return dest, n, nil
}

// validateFilename accepts a plain file name only, the same rule the
// backend applies to /download
func validateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidFilename)
	}
	if strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return nil
}
