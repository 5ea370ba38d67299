package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"jobmate-backend/internal/docintel"
	"jobmate-backend/internal/shared/metrics"
	"jobmate-backend/internal/shared/telemetry"
)

// Processing status values for a single file entry.
const (
	FileCompleted = "completed"
	FileFailed    = "failed"
)

// FileInput is one file submitted for batch extraction.
type FileInput struct {
	Name    string
	Content []byte
}

// DocumentStructure carries the layout detail extracted from one file.
type DocumentStructure struct {
	Paragraphs []docintel.Paragraph `json:"paragraphs,omitempty"`
	Tables     []docintel.Table     `json:"tables,omitempty"`
}

// FileAnalysis is the per-file outcome of a batch run. Failed files keep
// their name and type and report the reason in Error.
type FileAnalysis struct {
	FileName          string            `json:"file_name"`
	FileType          string            `json:"file_type"`
	ExtractedText     string            `json:"extracted_text"`
	DocumentStructure DocumentStructure `json:"document_structure"`
	ConfidenceScore   *float64          `json:"confidence_score,omitempty"`
	ProcessingStatus  string            `json:"processing_status"`
	Error             string            `json:"error,omitempty"`
}

// Result aggregates every file outcome in submission order. Error is set
// only for batch-level failures, never for individual file errors.
type Result struct {
	FileAnalysis        []FileAnalysis `json:"file_analysis"`
	ExtractedContent    string         `json:"extracted_content"`
	TotalFilesProcessed int            `json:"total_files_processed"`
	Error               *string        `json:"error,omitempty"`
}

// PairFiles matches submitted file names to contents. Names beyond the
// provided list default to file_N (1-based). A name list longer than the
// content list is rejected.
func PairFiles(names []string, contents [][]byte) ([]FileInput, error) {
	if len(names) > len(contents) {
		return nil, fmt.Errorf("got %d file names for %d files", len(names), len(contents))
	}
	files := make([]FileInput, len(contents))
	for i, content := range contents {
		name := fmt.Sprintf("file_%d", i+1)
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			name = names[i]
		}
		files[i] = FileInput{Name: name, Content: content}
	}
	return files, nil
}

// Aggregator runs document extraction over a batch of files, one worker
// per file, and assembles the combined result.
type Aggregator struct {
	extractor docintel.Extractor
}

func New(extractor docintel.Extractor) *Aggregator {
	return &Aggregator{extractor: extractor}
}

// Run analyzes every file concurrently. Results keep submission order
// regardless of completion timing, and one file's failure never affects
// the others. A nil file list is a malformed batch; an empty one is a
// successful empty result.
func (a *Aggregator) Run(ctx context.Context, files []FileInput) Result {
	if files == nil {
		msg := "no files provided for analysis"
		telemetry.Warn("batch.rejected", map[string]any{"reason": msg})
		return Result{FileAnalysis: []FileAnalysis{}, Error: &msg}
	}
	if len(files) == 0 {
		return Result{FileAnalysis: []FileAnalysis{}}
	}

	analyses := make([]FileAnalysis, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file FileInput) {
			defer wg.Done()
			analyses[i] = a.analyzeFile(ctx, file)
		}(i, file)
	}
	wg.Wait()

	var texts []string
	failed := 0
	for _, fa := range analyses {
		if fa.ProcessingStatus != FileCompleted {
			failed++
			continue
		}
		if fa.ExtractedText != "" {
			texts = append(texts, fa.ExtractedText)
		}
	}

	metrics.AddBatchFilesProcessed(len(files))
	metrics.AddBatchFilesFailed(failed)
	telemetry.Info("batch.complete", map[string]any{
		"total_files":  len(files),
		"failed_files": failed,
	})

	return Result{
		FileAnalysis:        analyses,
		ExtractedContent:    strings.Join(texts, "\n\n"),
		TotalFilesProcessed: len(files),
	}
}

func (a *Aggregator) analyzeFile(ctx context.Context, file FileInput) (fa FileAnalysis) {
	fa = FileAnalysis{
		FileName: file.Name,
		FileType: FileTypeFromName(file.Name),
	}
	defer func() {
		if r := recover(); r != nil {
			fa.ExtractedText = ""
			fa.DocumentStructure = DocumentStructure{}
			fa.ConfidenceScore = nil
			fa.ProcessingStatus = FileFailed
			fa.Error = fmt.Sprintf("panic during extraction: %v", r)
		}
	}()

	extraction, err := a.extractor.Extract(ctx, file.Content, file.Name)
	if err != nil {
		telemetry.Error("batch.file_failed", map[string]any{
			"file_name": file.Name,
			"error":     err.Error(),
		})
		fa.ProcessingStatus = FileFailed
		fa.Error = err.Error()
		return fa
	}

	fa.ExtractedText = extraction.Text
	fa.DocumentStructure = DocumentStructure{
		Paragraphs: extraction.Paragraphs,
		Tables:     extraction.Tables,
	}
	fa.ConfidenceScore = confidenceScore(extraction)
	fa.ProcessingStatus = FileCompleted
	return fa
}

// confidenceScore averages every scored paragraph and table cell. When
// nothing is scored it falls back to the document-level confidence, and
// reports nothing at all when that is absent too.
func confidenceScore(extraction docintel.Extraction) *float64 {
	var sum float64
	var count int
	for _, p := range extraction.Paragraphs {
		if p.Confidence != nil {
			sum += *p.Confidence
			count++
		}
	}
	for _, t := range extraction.Tables {
		for _, c := range t.Cells {
			if c.Confidence != nil {
				sum += *c.Confidence
				count++
			}
		}
	}
	if count == 0 {
		return extraction.DocumentConfidence
	}
	mean := sum / float64(count)
	return &mean
}
