package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline/ticket-engine/internal/observability"
	"github.com/clearline/ticket-engine/internal/pipeline"
)

type fakeGenerator struct {
	pdf     []byte
	err     error
	uploads []pipeline.Upload
	twoUp   bool
}

func (f *fakeGenerator) Generate(_ context.Context, uploads []pipeline.Upload, twoUp bool) ([]byte, error) {
	f.uploads = uploads
	f.twoUp = twoUp
	return f.pdf, f.err
}

func multipartRequest(t *testing.T, files map[string][]byte, twoUp bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if twoUp {
		require.NoError(t, writer.WriteField("two_up", "1"))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func testHandler(gen TicketGenerator) *GenerateHandler {
	return NewGenerateHandler(observability.DefaultLogger(), gen, 32<<20)
}

func TestGenerateReturnsPDFAttachment(t *testing.T) {
	gen := &fakeGenerator{pdf: []byte("%PDF-1.3 fake")}
	handler := testHandler(gen)

	rec := httptest.NewRecorder()
	handler.Generate(rec, multipartRequest(t, map[string][]byte{"sheet.jpg": []byte("img")}, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=tickets.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte("%PDF-1.3 fake"), rec.Body.Bytes())

	require.Len(t, gen.uploads, 1)
	assert.Equal(t, "sheet.jpg", gen.uploads[0].Filename)
	assert.Equal(t, []byte("img"), gen.uploads[0].Content)
	assert.False(t, gen.twoUp)
}

func TestGeneratePassesTwoUpFlag(t *testing.T) {
	gen := &fakeGenerator{pdf: []byte("pdf")}
	handler := testHandler(gen)

	rec := httptest.NewRecorder()
	handler.Generate(rec, multipartRequest(t, map[string][]byte{"sheet.jpg": []byte("img")}, true))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gen.twoUp)
}

func TestGenerateNoMattressLines(t *testing.T) {
	gen := &fakeGenerator{err: pipeline.ErrNoItems}
	handler := testHandler(gen)

	rec := httptest.NewRecorder()
	handler.Generate(rec, multipartRequest(t, map[string][]byte{"sheet.jpg": []byte("img")}, false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No mattress lines found.\n", rec.Body.String())
}

func TestGenerateNoResolvedPrices(t *testing.T) {
	gen := &fakeGenerator{err: pipeline.ErrNoPrices}
	handler := testHandler(gen)

	rec := httptest.NewRecorder()
	handler.Generate(rec, multipartRequest(t, map[string][]byte{"sheet.jpg": []byte("img")}, false))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGenerateInternalError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("tesseract exploded")}
	handler := testHandler(gen)

	rec := httptest.NewRecorder()
	handler.Generate(rec, multipartRequest(t, map[string][]byte{"sheet.jpg": []byte("img")}, false))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGenerateNoFiles(t *testing.T) {
	gen := &fakeGenerator{}
	handler := testHandler(gen)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("two_up", "1"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gen.uploads)
}

func TestGenerateNotMultipart(t *testing.T) {
	gen := &fakeGenerator{}
	handler := testHandler(gen)

	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString("plain body"))

	rec := httptest.NewRecorder()
	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
