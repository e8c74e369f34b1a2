package domain

import "resume-tailor/internal/model"

// Variant tags which generation strategy produced a TailoredDocument.
type Variant string

const (
	VariantStructured Variant = "structured"
	VariantDocument   Variant = "document"
)

// ParseVariant maps a configured generation mode to a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantStructured, VariantDocument:
		return Variant(s), true
	}
	return "", false
}

// TailoredDocument is the output of the tailoring stage. Exactly one of
// Record or HTML is set, selected by Variant.
type TailoredDocument struct {
	Variant       Variant
	Record        *model.ResumeRecord
	HTML          string
	CandidateName string
}

func NewStructured(r *model.ResumeRecord) *TailoredDocument {
	name := ""
	if r != nil {
		name = r.Name
	}
	return &TailoredDocument{Variant: VariantStructured, Record: r, CandidateName: name}
}

func NewRawDocument(html, candidateName string) *TailoredDocument {
	return &TailoredDocument{Variant: VariantDocument, HTML: html, CandidateName: candidateName}
}

// RenderedPDF is the final pipeline output.
type RenderedPDF struct {
	Bytes    []byte
	Filename string
}
