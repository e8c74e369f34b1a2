package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/usecase"
)

const resumeText = "Jane Doe\nSenior Software Engineer\nBerlin, Germany\nBuilt distributed systems in Go for ten years across payments and logistics."

type stubExtractor struct {
	err     error
	staged  []string
	existed []bool
}

func (s *stubExtractor) ExtractFile(path string) (string, error) {
	_, statErr := os.Stat(path)
	s.staged = append(s.staged, path)
	s.existed = append(s.existed, statErr == nil)
	_ = os.Remove(path)
	if s.err != nil {
		return "", s.err
	}
	return resumeText, nil
}

type stubModel struct {
	structureCalls int
	tailorCalls    int
	writeCalls     int
	err            error
	docName        string
}

func (s *stubModel) Structure(ctx context.Context, text string) (*model.ResumeRecord, error) {
	s.structureCalls++
	if s.err != nil {
		return nil, s.err
	}
	return sampleRecord(), nil
}

func (s *stubModel) Tailor(ctx context.Context, rec *model.ResumeRecord, jd string) (*model.ResumeRecord, error) {
	s.tailorCalls++
	if s.err != nil {
		return nil, s.err
	}
	out := rec.Clone()
	out.Summary = "Engineer with a decade of experience shipping reliable Go services."
	for _, k := range model.SkillCategories {
		out.Skills[k] = []string{"Go", "Kubernetes"}
	}
	detail := strings.Repeat("Scaled the order pipeline with Go and Kafka to cut latency by 35 percent ", 2)
	for i := range out.Experience {
		out.Experience[i].Details = []string{detail, detail, detail, detail, detail, detail, detail}
	}
	return out, nil
}

func (s *stubModel) Write(ctx context.Context, text, jd string) (*domain.TailoredDocument, error) {
	s.writeCalls++
	name := "Jane Doe"
	if s.docName != "" {
		name = s.docName
	}
	return domain.NewRawDocument("<!DOCTYPE html><html><body><h1>"+name+"</h1></body></html>", name), nil
}

func (s *stubModel) calls() int { return s.structureCalls + s.tailorCalls + s.writeCalls }

type stubRenderer struct{ calls int }

func (s *stubRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	s.calls++
	return []byte("%PDF-1.7\nstub"), nil
}

func sampleRecord() *model.ResumeRecord {
	return &model.ResumeRecord{
		Name:   "Jane Doe",
		Title:  "Software Engineer",
		Skills: model.DefaultSkills(),
		Experience: []model.Experience{
			{Title: "Engineer", Company: "Initech", StartDate: "2020", EndDate: "Present", Details: []string{}},
		},
		Education: []model.Education{},
	}
}

type harness struct {
	app *fiber.App
	ex  *stubExtractor
	m   *stubModel
	r   *stubRenderer
}

func newHarness(mode domain.Variant) *harness {
	h := &harness{ex: &stubExtractor{}, m: &stubModel{}, r: &stubRenderer{}}
	p := usecase.NewProcessor(h.ex, h.m, h.m, h.m, h.r, "../../../templates", mode)
	h.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	NewHandler(p, []byte("<html>form</html>")).Register(h.app)
	return h
}

func uploadRequest(t *testing.T, path, contentType string, content []byte) *nethttp.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if content != nil {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="resume"; filename="resume.pdf"`}
		header["Content-Type"] = []string{contentType}
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("other", "value"))
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(fiber.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, path string, payload interface{}) *nethttp.Request {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestExtractText_OK(t *testing.T) {
	h := newHarness("")
	resp, err := h.app.Test(uploadRequest(t, "/api/extract-text", "application/pdf", []byte("%PDF-1.4 body")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, resumeText, body["text"])
	assert.Equal(t, "Jane Doe", body["name"])

	require.Len(t, h.ex.staged, 1)
	assert.True(t, h.ex.existed[0])
	_, statErr := os.Stat(h.ex.staged[0])
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractText_SniffsPDFWithoutContentType(t *testing.T) {
	h := newHarness("")
	resp, err := h.app.Test(uploadRequest(t, "/api/extract-text", "application/octet-stream", []byte("%PDF-1.7 body")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestExtractText_MissingUpload(t *testing.T) {
	h := newHarness("")
	resp, err := h.app.Test(uploadRequest(t, "/api/extract-text", "", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "no file uploaded")
	assert.Empty(t, h.ex.staged)
}

func TestExtractText_NotPDF(t *testing.T) {
	h := newHarness("")
	resp, err := h.app.Test(uploadRequest(t, "/api/extract-text", "text/plain", []byte("hello world")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "not a PDF")
	assert.Empty(t, h.ex.staged)
}

func TestExtractText_ScannedPDF(t *testing.T) {
	h := newHarness("")
	h.ex.err = &domain.ExtractionInsufficientError{Length: 12, Min: 100}
	resp, err := h.app.Test(uploadRequest(t, "/api/extract-text", "application/pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "scanned image")
}

func TestExtractText_ParseFailure(t *testing.T) {
	h := newHarness("")
	h.ex.err = errors.New("parse pdf: malformed xref")
	resp, err := h.app.Test(uploadRequest(t, "/api/extract-text", "application/pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Failed to extract text", body["error"])
	assert.Equal(t, "parse pdf: malformed xref", body["details"])
}

func TestParseResume_OK(t *testing.T) {
	h := newHarness("")
	resp, err := h.app.Test(uploadRequest(t, "/api/parse-resume", "application/pdf", []byte("%PDF-1.4")), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Resume parsed successfully", body["message"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", data["name"])
	assert.Equal(t, "", data["summary"])
	assert.Equal(t, 1, h.m.structureCalls)
}

func TestParseResume_ModelFailure(t *testing.T) {
	h := newHarness("")
	h.m.err = &domain.ModelRequestError{Attempts: 3, Err: errors.New("upstream 503")}
	resp, err := h.app.Test(uploadRequest(t, "/api/parse-resume", "application/pdf", []byte("%PDF-1.4")), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Failed to parse resume", body["error"])
	assert.Contains(t, body["details"], "upstream 503")
}

func TestGenerate_OK(t *testing.T) {
	h := newHarness(domain.VariantStructured)
	resp, err := h.app.Test(jsonRequest(t, "/api/generate", map[string]interface{}{
		"resumeJson": sampleRecord(),
		"jd":         "Senior Go engineer",
		"company":    "Acme Corp",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "attachment; filename=Jane_Doe_Acme_Corp.pdf", resp.Header.Get(fiber.HeaderContentDisposition))
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
	assert.Equal(t, 1, h.m.tailorCalls)
	assert.Equal(t, 1, h.r.calls)
}

func TestGenerate_DocumentMode(t *testing.T) {
	h := newHarness(domain.VariantDocument)
	resp, err := h.app.Test(jsonRequest(t, "/api/generate", map[string]interface{}{
		"resumeText": resumeText,
		"jd":         "Senior Go engineer",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=Jane_Doe.pdf", resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Equal(t, 1, h.m.writeCalls)
}

func TestGenerate_DocumentModeHeaderSafeFilename(t *testing.T) {
	h := newHarness(domain.VariantDocument)
	h.m.docName = `Zoë O"Neil;x`
	resp, err := h.app.Test(jsonRequest(t, "/api/generate", map[string]interface{}{
		"resumeText": resumeText,
		"jd":         "Senior Go engineer",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cd := resp.Header.Get(fiber.HeaderContentDisposition)
	assert.Equal(t, `attachment; filename="Zo__O_neil_x.pdf"; filename*=UTF-8''Zo%C3%AB_O%22neil%3Bx.pdf`, cd)
}

func TestContentDisposition(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Jane_Doe_Acme_Corp.pdf", "attachment; filename=Jane_Doe_Acme_Corp.pdf"},
		{"Resume.pdf", "attachment; filename=Resume.pdf"},
		{`A;B.pdf`, `attachment; filename="A_B.pdf"; filename*=UTF-8''A%3BB.pdf`},
		{`Say_"hi".pdf`, `attachment; filename="Say__hi_.pdf"; filename*=UTF-8''Say_%22hi%22.pdf`},
		{"Élodie_Ünal.pdf", `attachment; filename="_lodie__nal.pdf"; filename*=UTF-8''%C3%89lodie_%C3%9Cnal.pdf`},
		{"A B.pdf", `attachment; filename="A B.pdf"; filename*=UTF-8''A%20B.pdf`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, contentDisposition(tt.in), tt.in)
	}
}

func TestGenerate_MissingJD(t *testing.T) {
	for _, jd := range []interface{}{nil, "", "   "} {
		h := newHarness("")
		payload := map[string]interface{}{"resumeJson": sampleRecord()}
		if jd != nil {
			payload["jd"] = jd
		}
		resp, err := h.app.Test(jsonRequest(t, "/api/generate", payload))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "jd is required", decodeBody(t, resp)["error"])
		assert.Zero(t, h.m.calls(), "no model call")
		assert.Zero(t, h.r.calls, "no browser launch")
	}
}

func TestGenerate_InvalidTokens(t *testing.T) {
	h := newHarness("")
	for _, payload := range []map[string]interface{}{
		{"selected": "../../etc/passwd", "jd": "x"},
		{"resumeJson": sampleRecord(), "jd": "x", "template": "../default"},
	} {
		resp, err := h.app.Test(jsonRequest(t, "/api/generate", payload))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}
	assert.Zero(t, h.m.calls())
}

func TestGenerate_BadJSON(t *testing.T) {
	h := newHarness("")
	req := httptest.NewRequest(fiber.MethodPost, "/api/generate", strings.NewReader("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIndexAndHealth(t *testing.T) {
	h := newHarness("")
	resp, err := h.app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")

	resp, err = h.app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "structured", body["mode"])
}
