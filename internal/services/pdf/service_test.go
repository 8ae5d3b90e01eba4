package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/models"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	return s.text, s.err
}

type stubParser struct {
	gotText string
}

func (p *stubParser) ParseFilingText(ctx context.Context, source, purpose, subSector, holderType, uid, text string) (*models.RawSubmission, error) {
	p.gotText = text
	return &models.RawSubmission{Ticker: "BBCA.JK", Source: source, UIDRaw: uid}, nil
}

func TestParse(t *testing.T) {
	parser := &stubParser{}
	svc := NewService(&stubExtractor{text: "form text"}, parser, arbor.NewLogger())

	raw, err := svc.Parse(context.Background(), ParseRequest{
		Content: []byte("%PDF"),
		Source:  "https://idx.co.id/doc.pdf",
		UID:     "uid-1",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if raw.Source != "https://idx.co.id/doc.pdf" || raw.UID() != "uid-1" {
		t.Errorf("context fields not propagated: %+v", raw)
	}
	if parser.gotText != "form text" {
		t.Errorf("parser received %q", parser.gotText)
	}
}

func TestParseEmptyText(t *testing.T) {
	svc := NewService(&stubExtractor{text: "  "}, &stubParser{}, arbor.NewLogger())
	if _, err := svc.Parse(context.Background(), ParseRequest{Content: []byte("%PDF")}); err == nil {
		t.Fatal("expected error for empty extraction")
	}
}

func TestParseExtractorError(t *testing.T) {
	svc := NewService(&stubExtractor{err: errors.New("corrupt")}, &stubParser{}, arbor.NewLogger())
	if _, err := svc.Parse(context.Background(), ParseRequest{Content: []byte("x")}); err == nil {
		t.Fatal("expected error from extractor")
	}
}

func TestParseWithoutParser(t *testing.T) {
	svc := NewService(&stubExtractor{text: "form"}, nil, arbor.NewLogger())
	if _, err := svc.Parse(context.Background(), ParseRequest{Content: []byte("x")}); err == nil {
		t.Fatal("expected error without parser")
	}
}
