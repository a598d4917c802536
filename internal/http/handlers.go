package http

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"learnrag/internal/domain"
	"learnrag/internal/usecase"
)

// CreateDocumentRequest is the request body for POST /api/documents.
type CreateDocumentRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// IngestResponse is returned by both ingestion endpoints.
type IngestResponse struct {
	Success  bool            `json:"success"`
	Document domain.Document `json:"document"`
	Message  string          `json:"message"`
}

// DocumentsResponse is the response body for GET /api/documents.
type DocumentsResponse struct {
	Documents   []domain.Document `json:"documents"`
	TotalChunks int               `json:"totalChunks"`
}

// DeleteResponse is the response body for DELETE /api/documents/:id.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// QueryRequest is the request body for POST /api/query. A zero TopK means
// the configured default.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

// HealthResponse is the response body for GET /api/health.
type HealthResponse struct {
	Status          string `json:"status"`
	DocumentsLoaded int    `json:"documentsLoaded"`
	TotalChunks     int    `json:"totalChunks"`
}

var uploadMediaTypes = map[string]bool{
	"text/plain":      true,
	"text/markdown":   true,
	"text/x-markdown": true,
}

var uploadExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

func (s *Server) handleHealth(c echo.Context) error {
	st := s.engine.Health()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:          "ok",
		DocumentsLoaded: st.DocumentCount,
		TotalChunks:     st.TotalChunks,
	})
}

func (s *Server) handleCreateDocument(c echo.Context) error {
	var req CreateDocumentRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid document request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return s.ingest(c, req.Name, req.Text)
}

// handleUpload accepts a multipart "document" field holding plain text or
// markdown. The file is read in memory and never touches disk.
func (s *Server) handleUpload(c echo.Context) error {
	file, err := c.FormFile("document")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}
	if file.Size > s.config.MaxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds upload limit")
	}
	if !acceptedUpload(file.Filename, file.Header.Get(echo.HeaderContentType)) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "invalid file type: only plain text and markdown are supported")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.config.MaxUploadBytes+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > s.config.MaxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds upload limit")
	}
	if !utf8.Valid(data) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "file is not valid UTF-8 text")
	}

	return s.ingest(c, file.Filename, string(data))
}

func acceptedUpload(filename, contentType string) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && uploadMediaTypes[mediaType] {
		return true
	}
	// Clients often send application/octet-stream for .md files.
	return uploadExtensions[strings.ToLower(filepath.Ext(filename))]
}

func (s *Server) ingest(c echo.Context, name, text string) error {
	doc, err := s.engine.Ingest(name, text)
	s.metrics.observeIngest(err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, IngestResponse{
		Success:  true,
		Document: doc,
		Message:  usecase.IngestMessage(doc),
	})
}

func (s *Server) handleListDocuments(c echo.Context) error {
	docs, total := s.engine.ListDocuments()
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(http.StatusOK, DocumentsResponse{
		Documents:   docs,
		TotalChunks: total,
	})
}

func (s *Server) handleDeleteDocument(c echo.Context) error {
	if err := s.engine.DeleteDocument(c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeleteResponse{
		Success: true,
		Message: "Document deleted",
	})
}

func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid query request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return domain.ErrMissingQuery
	}

	chunks, err := s.engine.Retrieve(req.Query, req.TopK)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usecase.RetrieveResult{
		Query:      req.Query,
		Chunks:     chunks,
		HasContext: len(chunks) > 0,
	})
}

func (s *Server) handleBuildPrompt(c echo.Context) error {
	var req usecase.PromptRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid build-prompt request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.engine.BuildPrompt(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
