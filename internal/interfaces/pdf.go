package interfaces

import "context"

// PDFExtractor extracts text content from an uploaded PDF document.
type PDFExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// MetadataExtractor fetches title/description/body for a bare article URL.
type MetadataExtractor interface {
	Extract(ctx context.Context, url string) (title, description, body string, err error)
}
