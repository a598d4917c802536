package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"learnrag/config"
	"learnrag/internal/domain"
	"learnrag/internal/usecase"
)

const catText = "The cat sat. The cat ran fast. Dogs bark loudly at night."

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Chunk.Size = 20
	cfg.Chunk.Overlap = 5

	engine := usecase.NewEngineFromConfig(cfg, zap.NewNop())
	server, err := NewServer(engine, zap.NewNop(), &Config{
		Host:           "localhost",
		Port:           0,
		MaxUploadBytes: 1024,
	})
	require.NoError(t, err)
	return server
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func uploadRequest(t *testing.T, filename, contentType, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="document"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestNewServer(t *testing.T) {
	engine := usecase.NewEngineFromConfig(nil, nil)

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server, err := NewServer(engine, zap.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, 3001, server.config.Port)
		assert.Equal(t, int64(10<<20), server.config.MaxUploadBytes)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(engine, nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("returns error when engine is nil", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		assert.Error(t, err)
	})
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, HealthResponse{Status: "ok"}, resp)
}

func TestCreateAndListDocuments(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/documents", CreateDocumentRequest{Name: "pets.txt", Text: catText})
	require.Equal(t, http.StatusOK, rec.Code)

	created := decode[IngestResponse](t, rec)
	assert.True(t, created.Success)
	assert.Equal(t, "pets.txt", created.Document.Name)
	assert.Equal(t, 3, created.Document.ChunkCount)
	assert.NotEmpty(t, created.Document.ID)
	assert.Equal(t, `Document "pets.txt" processed successfully with 3 chunks`, created.Message)

	rec = doJSON(t, server, http.MethodGet, "/api/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[DocumentsResponse](t, rec)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, created.Document.ID, list.Documents[0].ID)
	assert.Equal(t, 3, list.TotalChunks)

	health := decode[HealthResponse](t, doJSON(t, server, http.MethodGet, "/api/health", nil))
	assert.Equal(t, 1, health.DocumentsLoaded)
	assert.Equal(t, 3, health.TotalChunks)
}

func TestListDocumentsEmpty(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"documents":[],"totalChunks":0}`, rec.Body.String())
}

func TestCreateDocumentEmptyText(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/documents", CreateDocumentRequest{Name: "empty.txt", Text: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, string(domain.KindEmptyInput), resp.Error)
}

func TestDeleteDocument(t *testing.T) {
	server := setupTestServer(t)

	created := decode[IngestResponse](t, doJSON(t, server, http.MethodPost, "/api/documents",
		CreateDocumentRequest{Name: "pets.txt", Text: catText}))

	rec := doJSON(t, server, http.MethodDelete, "/api/documents/"+created.Document.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DeleteResponse{Success: true, Message: "Document deleted"}, decode[DeleteResponse](t, rec))

	rec = doJSON(t, server, http.MethodDelete, "/api/documents/"+created.Document.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(domain.KindNotFound), decode[ErrorResponse](t, rec).Error)

	list := decode[DocumentsResponse](t, doJSON(t, server, http.MethodGet, "/api/documents", nil))
	assert.Empty(t, list.Documents)
	assert.Zero(t, list.TotalChunks)
}

func TestHandleQuery(t *testing.T) {
	server := setupTestServer(t)
	doJSON(t, server, http.MethodPost, "/api/documents", CreateDocumentRequest{Name: "pets.txt", Text: catText})

	t.Run("returns ranked chunks", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/query", QueryRequest{Query: "cat"})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[usecase.RetrieveResult](t, rec)
		assert.Equal(t, "cat", resp.Query)
		assert.True(t, resp.HasContext)
		require.Len(t, resp.Chunks, 2)
		assert.Equal(t, "The cat sat.", resp.Chunks[0].Chunk.Text)
		assert.InDelta(t, 6.0, resp.Chunks[0].Score, 1e-9)
	})

	t.Run("honours topK", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/query", QueryRequest{Query: "cat", TopK: 1})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[usecase.RetrieveResult](t, rec).Chunks, 1)
	})

	t.Run("no match is empty, not an error", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/query", QueryRequest{Query: "photosynthesis"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"query":"photosynthesis","chunks":[],"hasContext":false}`, rec.Body.String())
	})

	t.Run("missing query", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/query", QueryRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(domain.KindMissingQuery), decode[ErrorResponse](t, rec).Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleBuildPrompt(t *testing.T) {
	server := setupTestServer(t)

	t.Run("without documents", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/build-prompt", usecase.PromptRequest{Query: "What is photosynthesis?"})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[domain.PromptResult](t, rec)
		assert.False(t, resp.HasContext)
		assert.Empty(t, resp.Sources)
		assert.Contains(t, resp.Prompt, "No curriculum documents uploaded yet")
	})

	t.Run("with documents", func(t *testing.T) {
		doJSON(t, server, http.MethodPost, "/api/documents", CreateDocumentRequest{Name: "pets.txt", Text: catText})

		rec := doJSON(t, server, http.MethodPost, "/api/build-prompt", usecase.PromptRequest{
			Query:        "cat",
			LearnerLevel: "beginner",
			Subject:      "Biology",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[domain.PromptResult](t, rec)
		assert.True(t, resp.HasContext)
		require.Len(t, resp.Sources, 2)
		assert.Equal(t, "pets.txt", resp.Sources[0].DocumentName)
		assert.Contains(t, resp.Prompt, "## LEARNER LEVEL: BEGINNER")
		assert.Contains(t, resp.Prompt, "[Source 1 - pets.txt]:")
	})

	t.Run("missing query", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/build-prompt", usecase.PromptRequest{Subject: "Biology"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(domain.KindMissingQuery), decode[ErrorResponse](t, rec).Error)
	})
}

func TestHandleUpload(t *testing.T) {
	t.Run("accepts plain text", func(t *testing.T) {
		server := setupTestServer(t)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, uploadRequest(t, "pets.txt", "text/plain; charset=utf-8", catText))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[IngestResponse](t, rec)
		assert.Equal(t, "pets.txt", resp.Document.Name)
		assert.Equal(t, 3, resp.Document.ChunkCount)
	})

	t.Run("accepts markdown by extension", func(t *testing.T) {
		server := setupTestServer(t)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, uploadRequest(t, "notes.md", "application/octet-stream", "# Cells\nCells divide."))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects other types", func(t *testing.T) {
		server := setupTestServer(t)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, uploadRequest(t, "scan.png", "image/png", "not really a png"))
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		server := setupTestServer(t)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, uploadRequest(t, "big.txt", "text/plain", strings.Repeat("word ", 400)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("rejects missing file", func(t *testing.T) {
		server := setupTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t)
	doJSON(t, server, http.MethodPost, "/api/documents", CreateDocumentRequest{Name: "pets.txt", Text: catText})
	doJSON(t, server, http.MethodGet, "/api/health", nil)

	rec := doJSON(t, server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `learnrag_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
	assert.Contains(t, body, `learnrag_documents_ingested_total{outcome="success"} 1`)
	assert.Contains(t, body, "learnrag_documents 1")
	assert.Contains(t, body, "learnrag_chunks 3")
}

func TestRateLimit(t *testing.T) {
	engine := usecase.NewEngineFromConfig(nil, nil)
	server, err := NewServer(engine, zap.NewNop(), &Config{RateLimit: 0.5})
	require.NoError(t, err)

	first := doJSON(t, server, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, server, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestServerStartShutdown(t *testing.T) {
	engine := usecase.NewEngineFromConfig(nil, nil)
	server, err := NewServer(engine, zap.NewNop(), &Config{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}
