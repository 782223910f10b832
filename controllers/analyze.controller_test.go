package analyzecontroller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Remediation-server/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const allowedOrigin = "https://team-pikachu-5f4c8.web.app"

type stubGenerator struct {
	fail  string
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.fail != "" && strings.Contains(prompt, g.fail) {
		return "", errors.New("upstream unavailable")
	}
	return "```json\n{\"reasoning_and_remediation\": \"Re-run the load.\", \"gcp_commands\": [\"bq ls\"]}\n```", nil
}

func newTestRouter(t *testing.T, gen service.Generator) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploadDir := t.TempDir()
	controller := &AnalyzeController{
		Service:   service.NewRemediationService(gen, nil, service.DefaultHeaderRow),
		UploadDir: uploadDir,
	}
	return NewRouter([]string{allowedOrigin}, controller), uploadDir
}

func workbookBytes(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Results"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	all := append([][]any{{"report"}, {}, {"test_id", "result_status", "result_message"}}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fileName string, content []byte, sheet string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if content != nil {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if sheet != "" {
		require.NoError(t, w.WriteField("sheet_name", sheet))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleAnalyze_MissingInput(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{})
	data := workbookBytes(t, []any{"T-1", "failed", "nulls"})

	cases := map[string]*http.Request{
		"missing file":  multipartRequest(t, "", nil, "Results"),
		"missing sheet": multipartRequest(t, "results.xlsx", data, ""),
		"not multipart": httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{}")),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error": "Missing file or sheet_name in request"}`, rec.Body.String())
		})
	}
}

func TestHandleAnalyze_OneFailingRow(t *testing.T) {
	gen := &stubGenerator{}
	router, uploadDir := newTestRouter(t, gen)
	data := workbookBytes(t,
		[]any{"T-1", "failed", "orders.id has nulls"},
		[]any{"T-2", "passed", "fine"},
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "../../results.xlsx", data, "Results"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var records []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "orders.id has nulls", records[0]["issue"])
	assert.Equal(t, map[string]any{
		"test_id":        "T-1",
		"result_status":  "failed",
		"result_message": "orders.id has nulls",
	}, records[0]["context"])
	assert.Equal(t, map[string]any{
		"reasoning_and_remediation": "Re-run the load.",
		"gcp_commands":              []any{"bq ls"},
	}, records[0]["remediation"])
	assert.NotContains(t, records[0], "error")
	assert.Equal(t, 1, gen.calls)

	// The upload is kept inside the upload directory under a sanitized name.
	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_results.xlsx"))
}

func TestHandleAnalyze_RowErrorDoesNotAbort(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{fail: "first broken"})
	data := workbookBytes(t,
		[]any{"T-1", "failed", "first broken"},
		[]any{"T-2", "warning", "second fine"},
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "results.xlsx", data, "Results"))

	require.Equal(t, http.StatusOK, rec.Code)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "upstream unavailable", records[0]["error"])
	assert.NotContains(t, records[0], "remediation")
	assert.Contains(t, records[1], "remediation")
	assert.NotContains(t, records[1], "error")
}

func TestHandleAnalyze_NoFailures(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{})
	data := workbookBytes(t, []any{"T-1", "PASSED", "ok"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "results.xlsx", data, "Results"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleAnalyze_LoadFailure(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{})

	cases := map[string]*http.Request{
		"unknown sheet":  multipartRequest(t, "results.xlsx", workbookBytes(t), "Summary"),
		"not a workbook": multipartRequest(t, "results.xlsx", []byte("plain text"), "Results"),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCORS(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	ok := preflight(allowedOrigin)
	assert.Equal(t, http.StatusNoContent, ok.Code)
	assert.Equal(t, allowedOrigin, ok.Header().Get("Access-Control-Allow-Origin"))

	denied := preflight("https://evil.example")
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleHealth(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestUploadName(t *testing.T) {
	cases := map[string]string{
		"results.xlsx":             "_results.xlsx",
		"../../etc/passwd":         "_passwd",
		`C:\Users\me\Q3 data.xlsx`: "_Q3_data.xlsx",
		"..":                       "_upload.xlsx",
	}
	for in, suffix := range cases {
		name := uploadName(in)
		assert.True(t, strings.HasSuffix(name, suffix), "%q -> %q", in, name)
		assert.Equal(t, name, filepath.Base(name))
		assert.Len(t, strings.TrimSuffix(name, suffix), 36)
	}
}
