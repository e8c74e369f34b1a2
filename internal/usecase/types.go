package usecase

import (
	"context"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
)

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type Extractor interface {
	// ExtractFile reads and then deletes the file at path.
	ExtractFile(path string) (string, error)
}

type Structurer interface {
	Structure(ctx context.Context, resumeText string) (*model.ResumeRecord, error)
}

type Tailor interface {
	Tailor(ctx context.Context, rec *model.ResumeRecord, jobDescription string) (*model.ResumeRecord, error)
}

type DocumentWriter interface {
	Write(ctx context.Context, resumeText, jobDescription string) (*domain.TailoredDocument, error)
}

// GenerateInput carries one generate request. Exactly one resume source is
// used, in order of preference: Record, Selected, ResumeText.
type GenerateInput struct {
	Record         *model.ResumeRecord
	Selected       string
	ResumeText     string
	JobDescription string
	Company        string
	Template       string
}

// Extracted is the result of plain text extraction.
type Extracted struct {
	Text string
	Name string
}
