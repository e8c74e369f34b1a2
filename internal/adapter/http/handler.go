package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/usecase"
)

const uploadField = "resume"

const pdfContentType = "application/pdf"

var pdfMagic = []byte("%PDF-")

type Handler struct {
	processor *usecase.Processor
	index     []byte
	uploadDir string
}

// NewHandler serves index at GET /. Uploads are staged in os.TempDir().
func NewHandler(p *usecase.Processor, index []byte) *Handler {
	return &Handler{processor: p, index: index, uploadDir: os.TempDir()}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.Index)
	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	api.Post("/extract-text", h.ExtractText)
	api.Post("/parse-resume", h.ParseResume)
	api.Post("/generate", h.Generate)
}

func (h *Handler) Index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(h.index)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "mode": h.processor.Mode()})
}

func (h *Handler) ExtractText(c *fiber.Ctx) error {
	path, err := h.stageUpload(c)
	if err != nil {
		return err
	}
	out, err := h.processor.ExtractText(path)
	if err != nil {
		return fail("Failed to extract text", err)
	}
	return c.JSON(fiber.Map{"success": true, "text": out.Text, "name": out.Name})
}

func (h *Handler) ParseResume(c *fiber.Ctx) error {
	path, err := h.stageUpload(c)
	if err != nil {
		return err
	}
	// detached: a client disconnect must not abort the model call
	rec, err := h.processor.ParseResume(context.Background(), path)
	if err != nil {
		return fail("Failed to parse resume", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rec, "message": "Resume parsed successfully"})
}

type generateReq struct {
	ResumeJSON *model.ResumeRecord `json:"resumeJson"`
	Selected   string              `json:"selected" validate:"omitempty,record_id"`
	ResumeText string              `json:"resumeText"`
	JD         string              `json:"jd" validate:"required"`
	Company    string              `json:"company" validate:"max=200"`
	Template   string              `json:"template" validate:"omitempty,template_name"`
}

func (h *Handler) Generate(c *fiber.Ctx) error {
	var req generateReq
	if err := c.BodyParser(&req); err != nil {
		return &domain.InvalidRequestError{Detail: "invalid payload", Err: err}
	}
	if err := requestValidator.Struct(&req); err != nil {
		return validationError(err)
	}

	pdf, err := h.processor.Generate(context.Background(), usecase.GenerateInput{
		Record:         req.ResumeJSON,
		Selected:       req.Selected,
		ResumeText:     req.ResumeText,
		JobDescription: req.JD,
		Company:        req.Company,
		Template:       req.Template,
	})
	if err != nil {
		return fail("PDF generation failed", err)
	}

	slog.Info("http: generated resume", "filename", pdf.Filename, "bytes", len(pdf.Bytes), "request_id", c.Locals("requestid"))
	c.Set(fiber.HeaderContentType, pdfContentType)
	c.Set(fiber.HeaderContentDisposition, contentDisposition(pdf.Filename))
	return c.Send(pdf.Bytes)
}

// stageUpload saves the multipart PDF to a single-use temp file. The
// extractor removes it after reading.
func (h *Handler) stageUpload(c *fiber.Ctx) (string, error) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return "", &domain.UploadMissingError{Field: uploadField}
	}
	if err := checkPDF(fh); err != nil {
		return "", err
	}
	path := filepath.Join(h.uploadDir, "resume-"+uuid.NewString()+".pdf")
	if err := c.SaveFile(fh, path); err != nil {
		_ = os.Remove(path)
		return "", fail("Failed to store upload", err)
	}
	return path, nil
}

// checkPDF accepts a declared application/pdf upload or one whose content
// starts with the PDF magic bytes.
func checkPDF(fh *multipart.FileHeader) error {
	ct := fh.Header.Get(fiber.HeaderContentType)
	if strings.HasPrefix(strings.ToLower(ct), pdfContentType) {
		return nil
	}
	f, err := fh.Open()
	if err != nil {
		return &domain.UnsupportedUploadError{ContentType: ct}
	}
	defer f.Close()
	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return &domain.UnsupportedUploadError{ContentType: ct}
	}
	return nil
}

// contentDisposition keeps the bare filename=<name> form for token-safe
// names. Anything else, such as a model-written name with quotes, separators
// or non-ASCII letters, gets a quoted ASCII fallback plus an RFC 5987
// filename* parameter.
func contentDisposition(name string) string {
	if isTokenName(name) {
		return "attachment; filename=" + name
	}
	var fallback strings.Builder
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' || r == ';' {
			fallback.WriteByte('_')
			continue
		}
		fallback.WriteRune(r)
	}
	return `attachment; filename="` + fallback.String() + `"; filename*=UTF-8''` + encodeExtValue(name)
}

func isTokenName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isAttrChar(name[i]) {
			return false
		}
	}
	return true
}

// isAttrChar reports whether b may appear unescaped in an RFC 5987 value.
func isAttrChar(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", b) >= 0
}

func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}
