package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/models"
	"github.com/sahamlabs/emiten/internal/services/articles"
)

// ArticleServiceInterface defines the methods needed from the article service
type ArticleServiceInterface interface {
	Insert(ctx context.Context, raw *models.RawArticle, generate bool) articles.Result
	InsertBatch(ctx context.Context, raws []*models.RawArticle, generate bool) []articles.Result
	Update(ctx context.Context, raw *models.RawArticle) (*models.NewsArticle, error)
	Delete(idList []string) []articles.Result
	List(subSector, id string) ([]*models.NewsArticle, error)
	GenerateFromURL(ctx context.Context, source, timestampStr string) (*models.NewsArticle, error)
	InsertGenerated(article *models.NewsArticle) articles.Result
	Evaluate(ctx context.Context, article *models.NewsArticle) (int, error)
}

// ArticlesHandler handles the news-article HTTP surface
type ArticlesHandler struct {
	articleService ArticleServiceInterface
	validate       *validator.Validate
	logger         arbor.ILogger
}

// NewArticlesHandler creates a new articles handler
func NewArticlesHandler(articleService ArticleServiceInterface, logger arbor.ILogger) *ArticlesHandler {
	return &ArticlesHandler{
		articleService: articleService,
		validate:       validator.New(),
		logger:         logger,
	}
}

// ArticlesHandlerFunc routes /api/articles by method:
// POST insert, GET list, PATCH update, DELETE by id list.
func (h *ArticlesHandler) ArticlesHandlerFunc(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.insertArticle(w, r)
	case http.MethodGet:
		h.listArticles(w, r)
	case http.MethodPatch:
		h.updateArticle(w, r)
	case http.MethodDelete:
		h.deleteArticles(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ArticlesHandler) insertArticle(w http.ResponseWriter, r *http.Request) {
	var raw models.RawArticle
	if !DecodeJSON(w, r, &raw) {
		return
	}
	if err := h.validate.Struct(&raw); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.articleService.Insert(r.Context(), &raw, true)
	status := http.StatusOK
	if result.Status == articles.StatusRestricted {
		status = http.StatusConflict
	}
	WriteJSON(w, status, result)
}

// InsertListHandler handles POST /api/articles/list - batch insert.
func (h *ArticlesHandler) InsertListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var raws []*models.RawArticle
	if err := json.Unmarshal(body, &raws); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	results := h.articleService.InsertBatch(r.Context(), raws, true)
	WriteJSON(w, http.StatusOK, results)
}

func (h *ArticlesHandler) listArticles(w http.ResponseWriter, r *http.Request) {
	subSector := r.URL.Query().Get("sub_sector")
	id := r.URL.Query().Get("id")

	list, err := h.articleService.List(subSector, id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *ArticlesHandler) updateArticle(w http.ResponseWriter, r *http.Request) {
	var raw models.RawArticle
	if !DecodeJSON(w, r, &raw) {
		return
	}

	article, err := h.articleService.Update(r.Context(), &raw)
	if err != nil {
		h.logger.Warn().Err(err).Str("id", raw.ID).Msg("Article update failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, articles.Result{Status: articles.StatusSuccess, ID: article.ID})
}

func (h *ArticlesHandler) deleteArticles(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDList []string `json:"id_list"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.IDList) == 0 {
		WriteError(w, http.StatusBadRequest, "id_list is required")
		return
	}

	results := h.articleService.Delete(req.IDList)
	WriteJSON(w, http.StatusOK, results)
}

type urlArticleRequest struct {
	Source    string `json:"source" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
}

// GenerateFromURLHandler handles POST /api/url-article - fetch a URL,
// generate an article from it and return it without storing.
func (h *ArticlesHandler) GenerateFromURLHandler(w http.ResponseWriter, r *http.Request) {
	article, ok := h.generateFromURL(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

// PostFromURLHandler handles POST /api/url-article/post - generate from a
// URL and insert the resulting article.
func (h *ArticlesHandler) PostFromURLHandler(w http.ResponseWriter, r *http.Request) {
	article, ok := h.generateFromURL(w, r)
	if !ok {
		return
	}

	result := h.articleService.InsertGenerated(article)
	status := http.StatusOK
	if result.Status == articles.StatusRestricted {
		status = http.StatusConflict
	}
	WriteJSON(w, status, result)
}

func (h *ArticlesHandler) generateFromURL(w http.ResponseWriter, r *http.Request) (*models.NewsArticle, bool) {
	if !RequireMethod(w, r, "POST") {
		return nil, false
	}

	var req urlArticleRequest
	if !DecodeJSON(w, r, &req) {
		return nil, false
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	article, err := h.articleService.GenerateFromURL(r.Context(), req.Source, req.Timestamp)
	if err != nil {
		h.logger.Warn().Err(err).Str("source", req.Source).Msg("Article generation failed")
		WriteServiceError(w, err)
		return nil, false
	}
	return article, true
}

// EvaluateHandler handles POST /api/evaluate-article - score an article's
// relevance to the Indonesian market, 0-100.
func (h *ArticlesHandler) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var article models.NewsArticle
	if !DecodeJSON(w, r, &article) {
		return
	}

	score, err := h.articleService.Evaluate(r.Context(), &article)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"score": score})
}
