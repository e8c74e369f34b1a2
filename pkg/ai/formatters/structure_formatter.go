package formatters

import (
	"context"
	"log/slog"
	"strings"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/pkg/ai"
)

const structureTemperature = 0.3

// StructureFormatter turns raw resume text into a ResumeRecord. Skills are
// never inferred from the text: every run yields the same taxonomy.
type StructureFormatter struct {
	model  ai.Model
	policy ai.Policy
}

func NewStructureFormatter(m ai.Model, p ai.Policy) *StructureFormatter {
	return &StructureFormatter{model: m, policy: p}
}

func (sf *StructureFormatter) Structure(ctx context.Context, resumeText string) (*model.ResumeRecord, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &domain.MissingInputError{Field: "resumeText"}
	}
	prompt := structurePrompt(resumeText)

	rec, err := ai.Call(ctx, sf.policy, func(ctx context.Context) (*model.ResumeRecord, error) {
		raw, err := sf.model.Complete(ctx, prompt, structureTemperature)
		if err != nil {
			return nil, err
		}
		return decodeRecord(raw)
	})
	if err != nil {
		return nil, err
	}

	rec.Summary = ""
	rec.Skills = model.DefaultSkills()
	for i := range rec.Experience {
		rec.Experience[i].Details = []string{}
	}
	rec.Normalize()

	if err := model.ValidateRecord(rec); err != nil {
		return nil, &domain.MalformedModelOutputError{Reason: "structured resume does not match schema", Raw: mustMarshal(rec), Err: err}
	}
	slog.Info("formatters: structured resume", "name", rec.Name, "experience", len(rec.Experience), "education", len(rec.Education))
	return rec, nil
}

func structureSkeleton() *model.ResumeRecord {
	return &model.ResumeRecord{
		Name:     "Full Name",
		Title:    "Job Title/Professional Title",
		Email:    "email@example.com",
		Phone:    "Phone number",
		Location: "City, State/Country",
		LinkedIn: "LinkedIn URL (if available)",
		Website:  "Personal website URL (if available)",
		Summary:  "",
		Skills:   model.DefaultSkills(),
		Experience: []model.Experience{{
			Title:     "Job Title",
			Company:   "Company Name",
			Location:  "City, State",
			StartDate: "Month Year",
			EndDate:   "Month Year or Present",
			Details:   []string{},
		}},
		Education: []model.Education{{
			Degree:    "Degree Name",
			School:    "School/University Name",
			StartYear: "Year",
			EndYear:   "Year or empty string",
		}},
	}
}

func structurePrompt(resumeText string) string {
	var b strings.Builder
	b.WriteString("You are an expert resume parser. Extract information from the following resume text and convert it to a structured JSON format.\n\n")
	b.WriteString("**Required JSON Structure:**\n")
	b.WriteString(mustMarshal(structureSkeleton()))
	b.WriteString(`

**Instructions:**
1. Extract the candidate's name, contact info, and professional title
2. Leave "summary" as empty string "" - it will be generated later
3. Use the EXACT "skills" object shown above with all the default arrays - DO NOT extract or modify skills from the resume
4. Extract all work experience with job titles, companies, locations and dates, but leave "details" as an empty array []
5. Extract education and certifications with factual information
6. Preserve all dates in "Month Year" or "Year" format
7. If information is missing, use empty string "" but never omit a field
8. Return ONLY valid JSON, no other text

**Resume Text:**
`)
	b.WriteString(resumeText)
	b.WriteString("\n\n**Output:** Return only the JSON object, no markdown code blocks or extra text.\n")
	return b.String()
}
