package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/pkg/infrastructure"
)

const fallbackName = "Resume"

// Processor runs the extract, structure, tailor and render stages. Stages
// are strictly sequential and the processor holds no per-request state.
type Processor struct {
	extractor  Extractor
	structurer Structurer
	tailor     Tailor
	writer     DocumentWriter
	renderer   Renderer

	tplDir      string
	mode        domain.Variant
	artifactDir string
}

func NewProcessor(ex Extractor, st Structurer, tl Tailor, dw DocumentWriter, r Renderer, tplDir string, mode domain.Variant) *Processor {
	if mode == "" {
		mode = domain.VariantStructured
	}
	return &Processor{
		extractor:  ex,
		structurer: st,
		tailor:     tl,
		writer:     dw,
		renderer:   r,
		tplDir:     tplDir,
		mode:       mode,
	}
}

// WithArtifactDir makes Render keep a copy of every rendered HTML document.
func (p *Processor) WithArtifactDir(dir string) *Processor {
	p.artifactDir = dir
	return p
}

// Mode reports which generation strategy Generate uses.
func (p *Processor) Mode() domain.Variant { return p.mode }

// ExtractText returns the text layer of the uploaded PDF at path together
// with a best-effort candidate name (the first non-empty line).
func (p *Processor) ExtractText(path string) (*Extracted, error) {
	text, err := p.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	name := infrastructure.FirstLine(text)
	if name == "" {
		name = fallbackName
	}
	return &Extracted{Text: text, Name: name}, nil
}

// ParseResume extracts the upload and structures it into a record.
func (p *Processor) ParseResume(ctx context.Context, path string) (*model.ResumeRecord, error) {
	text, err := p.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return p.structure(ctx, text)
}

// structure runs the structurer and holds its output to the parser
// contract: empty summary, predeclared skills, no details yet.
func (p *Processor) structure(ctx context.Context, text string) (*model.ResumeRecord, error) {
	rec, err := p.structurer.Structure(ctx, text)
	if err != nil {
		return nil, err
	}
	if res := StructureValidator(rec); !res.Valid {
		return nil, &domain.MalformedModelOutputError{Reason: "structured resume incomplete: " + res.String(), Raw: mustJSON(rec)}
	}
	return rec, nil
}

// Generate tailors one resume to a job description and renders it. Inputs
// are checked before any model call or browser launch.
func (p *Processor) Generate(ctx context.Context, in GenerateInput) (*domain.RenderedPDF, error) {
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, &domain.MissingInputError{Field: "jd"}
	}
	rec, text, err := p.resolveSource(in)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var doc *domain.TailoredDocument
	switch p.mode {
	case domain.VariantDocument:
		if text == "" {
			text = mustJSON(rec)
		}
		doc, err = p.writer.Write(ctx, text, in.JobDescription)
	default:
		doc, err = p.tailorRecord(ctx, rec, text, in.JobDescription)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("processor: tailored", "variant", doc.Variant, "name", doc.CandidateName, "elapsed", time.Since(start))

	pdf, err := p.Render(ctx, doc, in.Template)
	if err != nil {
		return nil, err
	}
	return &domain.RenderedPDF{Bytes: pdf, Filename: DeriveFilename(doc.CandidateName, in.Company)}, nil
}

// resolveSource picks the resume source: an inline record, then a stored
// record, then raw text.
func (p *Processor) resolveSource(in GenerateInput) (*model.ResumeRecord, string, error) {
	switch {
	case in.Record != nil:
		rec := in.Record.Clone()
		rec.Normalize()
		return rec, "", nil
	case in.Selected != "":
		rec, err := p.LoadSelected(in.Selected)
		return rec, "", err
	case strings.TrimSpace(in.ResumeText) != "":
		return nil, in.ResumeText, nil
	}
	return nil, "", &domain.MissingInputError{Field: "resumeJson"}
}

func (p *Processor) tailorRecord(ctx context.Context, rec *model.ResumeRecord, text, jd string) (*domain.TailoredDocument, error) {
	if rec == nil {
		structured, err := p.structure(ctx, text)
		if err != nil {
			return nil, err
		}
		rec = structured
	}

	tailored, err := p.tailor.Tailor(ctx, rec, jd)
	if err != nil {
		return nil, err
	}
	if res := TailorValidator(rec, tailored); !res.Valid {
		return nil, &domain.MalformedModelOutputError{Reason: "tailored resume incomplete: " + res.String(), Raw: mustJSON(tailored)}
	}

	merged := MergeTailored(rec, tailored)
	if err := model.ValidateRecord(merged); err != nil {
		return nil, &domain.MalformedModelOutputError{Reason: "tailored resume does not match schema", Raw: mustJSON(merged), Err: err}
	}
	return domain.NewStructured(merged), nil
}

// LoadSelected reads a stored record from <tplDir>/resumes/<name>.json.
func (p *Processor) LoadSelected(name string) (*model.ResumeRecord, error) {
	if !setNamePattern.MatchString(name) {
		return nil, &domain.InvalidRequestError{Detail: fmt.Sprintf("invalid resume id %q", name)}
	}
	data, err := os.ReadFile(filepath.Join(p.tplDir, "resumes", name+".json"))
	if err != nil {
		return nil, &domain.InvalidRequestError{Detail: fmt.Sprintf("stored resume %q not found", name), Err: err}
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.InvalidRequestError{Detail: fmt.Sprintf("stored resume %q is not valid JSON", name), Err: err}
	}
	// checked as written, before Normalize fills gaps; a null document
	// fails here too
	if err := model.ValidateMap(raw); err != nil {
		return nil, &domain.InvalidRequestError{Detail: fmt.Sprintf("stored resume %q does not match schema", name), Err: err}
	}
	var rec model.ResumeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &domain.InvalidRequestError{Detail: fmt.Sprintf("stored resume %q is not valid JSON", name), Err: err}
	}
	rec.Normalize()
	return &rec, nil
}

// Render turns a tailored document into PDF bytes. Structured documents go
// through the template set; raw documents are printed as they are.
func (p *Processor) Render(ctx context.Context, doc *domain.TailoredDocument, set string) ([]byte, error) {
	if doc == nil {
		return nil, &domain.RenderError{Stage: "input", Err: fmt.Errorf("no document")}
	}
	var html string
	switch doc.Variant {
	case domain.VariantStructured:
		out, err := RenderTemplate(p.tplDir, set, doc.Record)
		if err != nil {
			if domain.IsClientError(err) {
				return nil, err
			}
			return nil, &domain.RenderError{Stage: "template", Err: err}
		}
		html = out
	case domain.VariantDocument:
		html = doc.HTML
	default:
		return nil, &domain.RenderError{Stage: "input", Err: fmt.Errorf("unknown variant %q", doc.Variant)}
	}

	p.saveArtifact(doc.CandidateName, html)

	pdf, err := p.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, &domain.RenderError{Stage: "browser", Err: err}
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		return nil, &domain.RenderError{Stage: "output", Err: fmt.Errorf("invalid PDF output (len=%d)", len(pdf))}
	}
	slog.Info("processor: rendered pdf", "variant", doc.Variant, "bytes", len(pdf))
	return pdf, nil
}

// saveArtifact keeps the HTML before printing so it survives a failed render.
func (p *Processor) saveArtifact(name, html string) {
	if p.artifactDir == "" {
		return
	}
	if err := os.MkdirAll(p.artifactDir, 0o755); err != nil {
		slog.Warn("processor: artifact dir", "dir", p.artifactDir, "error", err)
		return
	}
	base := strings.TrimSuffix(DeriveFilename(name, ""), ".pdf")
	file := filepath.Join(p.artifactDir, fmt.Sprintf("%s_%s.html", base, time.Now().Format("20060102T150405")))
	if err := os.WriteFile(file, []byte(html), 0o644); err != nil {
		slog.Warn("processor: write artifact", "path", file, "error", err)
		return
	}
	slog.Debug("processor: saved html artifact", "path", file)
}

func mustJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
