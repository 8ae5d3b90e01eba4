package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

// ParseRequest carries the uploaded form plus the caller context fields
// the form itself does not state.
type ParseRequest struct {
	Content    []byte
	Source     string
	Purpose    string
	SubSector  string
	HolderType string
	UID        string
}

// Service runs the PDF ingestion pipeline: extract text, parse it into a
// raw submission via the model.
type Service struct {
	extractor interfaces.PDFExtractor
	parser    interfaces.FilingParser // nil disables parsing
	logger    arbor.ILogger
}

// NewService wires the PDF pipeline.
func NewService(extractor interfaces.PDFExtractor, parser interfaces.FilingParser, logger arbor.ILogger) *Service {
	return &Service{
		extractor: extractor,
		parser:    parser,
		logger:    logger,
	}
}

// Parse extracts the form text and returns the parsed submission without
// storing anything; the caller reviews it, then posts it through the
// normal filing insert.
func (s *Service) Parse(ctx context.Context, req ParseRequest) (*models.RawSubmission, error) {
	if s.parser == nil {
		return nil, fmt.Errorf("PDF parsing requires a configured model provider")
	}

	text, err := s.extractor.ExtractText(ctx, req.Content)
	if err != nil {
		return nil, fmt.Errorf("extracting PDF text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text extracted from PDF")
	}

	raw, err := s.parser.ParseFilingText(ctx, req.Source, req.Purpose, req.SubSector, req.HolderType, req.UID, text)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("ticker", raw.Ticker).
		Str("source", req.Source).
		Int("text_length", len(text)).
		Msg("PDF filing parsed")

	return raw, nil
}
