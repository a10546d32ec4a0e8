package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/worker"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

var (
	ErrNoPages         = errors.New("no extractable pages")
	ErrUnsupportedType = errors.New("only pdf documents are supported")
)

var logger = logger_i.NewLogger("Document Ingestion")

var pdfMagic = []byte("%PDF-")

// Upload is one file received from a client.
type Upload struct {
	Name string
	Data []byte
}

// ProgressFunc receives human-readable progress messages.
type ProgressFunc func(message string)

// Load writes data to a temporary file, extracts the text of every page and
// removes the file again.
func Load(ctx context.Context, data []byte, fileName string, fileSize int64) ([]ragModel.Page, error) {
	if !isPDF(fileName, data) {
		return nil, fmt.Errorf("%s: %w", fileName, ErrUnsupportedType)
	}

	tmp, err := os.CreateTemp("", config.TempUploadFilePrefix)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			logger.FromContext(ctx).Error("Error removing file", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	raw, err := extractPDF(ctx, tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: %w", fileName, ErrNoPages)
	}

	pages := make([]ragModel.Page, 0, len(raw))
	for _, p := range raw {
		pages = append(pages, ragModel.Page{
			Text:       p.Content,
			PageNumber: p.Number,
			SourceFile: fileName,
			FileSize:   fileSize,
		})
	}
	return pages, nil
}

type loadResult struct {
	pages []ragModel.Page
	err   error
}

// ProcessUploads loads the uploads on a small worker pool. Results keep the
// upload order. A failing file is reported and skipped; the others are still
// processed.
func ProcessUploads(ctx context.Context, uploads []Upload, progress ProgressFunc) ([]ragModel.Page, []ragModel.FileInfo, []ragModel.FileError) {
	var (
		pages  []ragModel.Page
		files  []ragModel.FileInfo
		failed []ragModel.FileError
	)

	results := make([]loadResult, len(uploads))
	pool := worker.NewPool(min(config.ExtractionWorkers, len(uploads)))
	for i, up := range uploads {
		notify(progress, "Processing: "+up.Name)
		pool.Submit(func() {
			loaded, err := Load(ctx, up.Data, up.Name, int64(len(up.Data)))
			results[i] = loadResult{pages: loaded, err: err}
		})
	}
	pool.Stop()

	for i, up := range uploads {
		if err := results[i].err; err != nil {
			logger.FromContext(ctx).Warn("Skipping document", "file", up.Name, "error", err)
			failed = append(failed, ragModel.FileError{Name: up.Name, Message: err.Error()})
			continue
		}

		pages = append(pages, results[i].pages...)
		files = append(files, ragModel.FileInfo{
			Name:  up.Name,
			Size:  int64(len(up.Data)),
			Pages: len(results[i].pages),
		})
	}
	return pages, files, failed
}

func isPDF(fileName string, data []byte) bool {
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" && ext != ".pdf" {
		return false
	}
	return bytes.HasPrefix(bytes.TrimLeft(data[:min(len(data), 1024)], "\x00\t\r\n "), pdfMagic)
}

func notify(progress ProgressFunc, message string) {
	if progress != nil {
		progress(message)
	}
}
