package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Filings (insider disclosures)
	mux.HandleFunc("/api/filings", s.app.FilingsHandler.FilingsHandlerFunc) // POST/GET/PATCH/DELETE
	mux.HandleFunc("/api/filings/pdf", s.app.FilingsHandler.ParsePDFHandler)
	mux.HandleFunc("/api/filings/pdf/post", s.app.FilingsHandler.PostParsedHandler)

	// API routes - News articles
	mux.HandleFunc("/api/articles", s.app.ArticlesHandler.ArticlesHandlerFunc) // POST/GET/PATCH/DELETE
	mux.HandleFunc("/api/articles/list", s.app.ArticlesHandler.InsertListHandler)

	// API routes - Article generation and scoring
	mux.HandleFunc("/api/url-article", s.app.ArticlesHandler.GenerateFromURLHandler)
	mux.HandleFunc("/api/url-article/post", s.app.ArticlesHandler.PostFromURLHandler)
	mux.HandleFunc("/api/evaluate-article", s.app.ArticlesHandler.EvaluateHandler)

	// API routes - Topic subscriptions
	mux.HandleFunc("/api/subscribe", s.app.SubscriptionsHandler.SubscribeHandler)
	mux.HandleFunc("/api/unsubscribe", s.app.SubscriptionsHandler.UnsubscribeHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Catch-all for unmatched routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
