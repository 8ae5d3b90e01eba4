// Package metadata fetches article pages and extracts the title,
// description and markdown body used when a submission arrives without
// narrative text.
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/sahamlabs/emiten/internal/common"
	"github.com/sahamlabs/emiten/internal/interfaces"
)

// maxBodyBytes caps the fetched page size.
const maxBodyBytes = 4 << 20

// Extractor fetches a URL and pulls out Open Graph metadata plus a
// markdown rendition of the main content.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// NewExtractor builds an Extractor from config. Outbound fetches are
// rate-limited so bulk article imports stay polite.
func NewExtractor(cfg common.MetadataConfig, logger arbor.ILogger) interfaces.MetadataExtractor {
	timeout := 15 * time.Second
	if d, err := time.ParseDuration(cfg.RequestTimeout); err == nil && d > 0 {
		timeout = d
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}

	return &Extractor{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:     logger,
	}
}

// Extract fetches the page and returns (title, description, body).
func (e *Extractor) Extract(ctx context.Context, url string) (string, string, string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", "", fmt.Errorf("building request for %s: %w", url, err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", "", "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", "", "", fmt.Errorf("reading %s: %w", url, err)
	}

	title, description, body, err := e.parse(string(html), url)
	if err != nil {
		return "", "", "", err
	}

	e.logger.Debug().
		Str("url", url).
		Str("title", title).
		Int("body_length", len(body)).
		Msg("Article metadata extracted")

	return title, description, body, nil
}

// parse extracts metadata from raw HTML. Split out for testing without a
// live server.
func (e *Extractor) parse(html, baseURL string) (string, string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", "", fmt.Errorf("parsing HTML: %w", err)
	}

	title := extractTitle(doc)
	description := extractMeta(doc, "og:description", "description")

	doc.Find("script, style, nav, footer, aside").Remove()
	content := doc.Find("main, article, .content, #content, body").First()
	if content.Length() == 0 {
		content = doc.Selection
	}

	contentHTML, err := content.Html()
	if err != nil {
		return title, description, "", nil
	}

	converter := md.NewConverter(baseURL, true, nil)
	body, err := converter.ConvertString(contentHTML)
	if err != nil {
		e.logger.Warn().Err(err).Str("url", baseURL).Msg("HTML to markdown conversion failed")
		body = strings.TrimSpace(content.Text())
	}

	return title, description, strings.TrimSpace(body), nil
}

// extractTitle prefers Open Graph, then the title tag, then the first h1.
func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && og != "" {
		return strings.TrimSpace(og)
	}
	if title := doc.Find("title").First().Text(); title != "" {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractMeta(doc *goquery.Document, property, name string) string {
	if v, ok := doc.Find("meta[property='" + property + "']").Attr("content"); ok && v != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := doc.Find("meta[name='" + name + "']").Attr("content"); ok && v != "" {
		return strings.TrimSpace(v)
	}
	return ""
}
