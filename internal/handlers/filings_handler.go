package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/models"
	"github.com/sahamlabs/emiten/internal/services/filings"
	"github.com/sahamlabs/emiten/internal/services/pdf"
)

// maxPDFUploadBytes caps multipart PDF uploads.
const maxPDFUploadBytes = 20 << 20

// FilingServiceInterface defines the methods needed from the filing service
type FilingServiceInterface interface {
	Insert(ctx context.Context, raw *models.RawSubmission, generate bool) (*models.Filing, error)
	InsertBatch(ctx context.Context, raws []*models.RawSubmission, generate bool) []filings.Result
	Update(ctx context.Context, raw *models.RawSubmission) (*models.Filing, error)
	List() ([]*models.Filing, error)
	Delete(idList []string) []filings.Result
}

// PDFServiceInterface defines the methods needed from the PDF pipeline
type PDFServiceInterface interface {
	Parse(ctx context.Context, req pdf.ParseRequest) (*models.RawSubmission, error)
}

// FilingsHandler handles the insider-filing HTTP surface
type FilingsHandler struct {
	filingService FilingServiceInterface
	pdfService    PDFServiceInterface
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewFilingsHandler creates a new filings handler
func NewFilingsHandler(filingService FilingServiceInterface, pdfService PDFServiceInterface, logger arbor.ILogger) *FilingsHandler {
	return &FilingsHandler{
		filingService: filingService,
		pdfService:    pdfService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// FilingsHandlerFunc routes /api/filings by method:
// POST submit, GET list, PATCH update, DELETE by id list.
func (h *FilingsHandler) FilingsHandlerFunc(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.insertFiling(w, r)
	case http.MethodGet:
		h.listFilings(w, r)
	case http.MethodPatch:
		h.updateFiling(w, r)
	case http.MethodDelete:
		h.deleteFilings(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FilingsHandler) insertFiling(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	// A JSON array is a batch; a single object is one filing.
	if isJSONArray(body) {
		var raws []*models.RawSubmission
		if err := json.Unmarshal(body, &raws); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
			return
		}
		results := h.filingService.InsertBatch(r.Context(), raws, true)
		WriteJSON(w, http.StatusOK, results)
		return
	}

	var raw models.RawSubmission
	if err := json.Unmarshal(body, &raw); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&raw); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filing, err := h.filingService.Insert(r.Context(), &raw, true)
	if err != nil {
		h.logger.Warn().Err(err).Str("ticker", raw.Ticker).Msg("Filing insert failed")
		WriteServiceError(w, err)
		return
	}

	h.logger.Info().Str("id", filing.ID).Str("ticker", filing.Ticker).Msg("Filing inserted")
	WriteJSON(w, http.StatusOK, filings.Result{Status: filings.StatusSuccess, ID: filing.ID})
}

func (h *FilingsHandler) listFilings(w http.ResponseWriter, r *http.Request) {
	list, err := h.filingService.List()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *FilingsHandler) updateFiling(w http.ResponseWriter, r *http.Request) {
	var raw models.RawSubmission
	if !DecodeJSON(w, r, &raw) {
		return
	}

	filing, err := h.filingService.Update(r.Context(), &raw)
	if err != nil {
		h.logger.Warn().Err(err).Str("id", raw.ID).Msg("Filing update failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, filings.Result{Status: filings.StatusSuccess, ID: filing.ID})
}

func (h *FilingsHandler) deleteFilings(w http.ResponseWriter, r *http.Request) {
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

	results := h.filingService.Delete(req.IDList)
	WriteJSON(w, http.StatusOK, results)
}

// ParsePDFHandler handles POST /api/filings/pdf - multipart PDF upload,
// returns the parsed submission without storing it.
func (h *FilingsHandler) ParsePDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := r.ParseMultipartForm(maxPDFUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing 'file' upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxPDFUploadBytes))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	raw, err := h.pdfService.Parse(r.Context(), pdf.ParseRequest{
		Content:    content,
		Source:     r.FormValue("source"),
		Purpose:    r.FormValue("purpose"),
		SubSector:  formValueAlias(r, "sub_sector", "subsector"),
		HolderType: r.FormValue("holder_type"),
		UID:        formValueAlias(r, "UID", "uid"),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("PDF parse failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, raw)
}

// PostParsedHandler handles POST /api/filings/pdf/post - inserts a
// previously parsed submission without narrative generation.
func (h *FilingsHandler) PostParsedHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var raw models.RawSubmission
	if !DecodeJSON(w, r, &raw) {
		return
	}
	if err := h.validate.Struct(&raw); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filing, err := h.filingService.Insert(r.Context(), &raw, false)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, filings.Result{Status: filings.StatusSuccess, ID: filing.ID})
}

// formValueAlias resolves alias form-field spellings the same way the
// JSON boundary does: the canonical name wins, the alias fills in.
func formValueAlias(r *http.Request, name, alias string) string {
	if v := r.FormValue(name); v != "" {
		return v
	}
	return r.FormValue(alias)
}

func isJSONArray(body []byte) bool {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
