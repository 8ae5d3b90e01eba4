// Package pdf extracts text from uploaded IDX disclosure forms and turns
// it into raw filing submissions via the model parser.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
)

// Extractor implements the PDFExtractor interface using pdfcpu
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	tempDir := filepath.Join(os.TempDir(), "emiten-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractText extracts all text content from an uploaded PDF document.
// pdfcpu works on files, so the upload is staged in the temp directory
// for the duration of the call.
func (e *Extractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("extract_%s.pdf", uuid.New().String()))
	if err := os.WriteFile(tempFile, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF context: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(e.tempDir, fmt.Sprintf("pages_%s", uuid.New().String()))
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err != nil {
				continue
			}
		}
		pageTexts[pageNum] = string(data)
	}

	pageNums := make([]int, 0, len(pageTexts))
	for n := range pageTexts {
		pageNums = append(pageNums, n)
	}
	sort.Ints(pageNums)

	var builder strings.Builder
	for _, n := range pageNums {
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(pageTexts[n])
	}

	e.logger.Debug().
		Int("pages", pageCount).
		Int("text_length", builder.Len()).
		Msg("PDF text extracted")

	return builder.String(), nil
}
