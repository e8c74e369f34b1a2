package formatters

import (
	"context"
	"log/slog"
	"strings"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/pkg/ai"
)

const tailorTemperature = 0.7

// TailorFormatter rewrites a structured resume against a job description.
// The returned record is the model's proposal; callers validate and merge.
type TailorFormatter struct {
	model  ai.Model
	policy ai.Policy
}

func NewTailorFormatter(m ai.Model, p ai.Policy) *TailorFormatter {
	return &TailorFormatter{model: m, policy: p}
}

func (tf *TailorFormatter) Tailor(ctx context.Context, rec *model.ResumeRecord, jobDescription string) (*model.ResumeRecord, error) {
	if rec == nil {
		return nil, &domain.MissingInputError{Field: "resumeJson"}
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &domain.MissingInputError{Field: "jd"}
	}
	prompt := tailorPrompt(rec, jobDescription)

	out, err := ai.Call(ctx, tf.policy, func(ctx context.Context) (*model.ResumeRecord, error) {
		raw, err := tf.model.Complete(ctx, prompt, tailorTemperature)
		if err != nil {
			return nil, err
		}
		return decodeRecord(raw)
	})
	if err != nil {
		return nil, err
	}
	out.Normalize()
	slog.Info("formatters: tailored resume", "name", rec.Name, "experience", len(out.Experience))
	return out, nil
}

func tailorPrompt(rec *model.ResumeRecord, jobDescription string) string {
	var b strings.Builder
	b.WriteString(`You are a world-class professional resume writer, career strategist, and ATS optimization expert.

You will receive a structured resume as JSON and a job description. Rewrite the resume so it is fully tailored to the job description, ATS-friendly and recruiter-friendly.

Return ONLY one JSON object with exactly the same structure and keys as the input resume. Rules:

1. "summary": write ONE completely new paragraph of 5-6 lines. Do not copy the input summary. Start with years of experience and domain expertise, highlight the top 3-4 skills from the job description, include leadership qualities for senior roles and measurable business impact.

2. "skills": keep every category key from the input. Each category MUST contain 12-18 entries, never an empty list. Strategy: about 60% taken from or matching the job description terminology (exact matches first), about 40% related modern technologies that show breadth. Categories: `)
	b.WriteString(strings.Join(model.SkillCategories, ", "))
	b.WriteString(`.

3. "experience": keep title, company, location, start_date and end_date of every entry unchanged and in the same order. Give every entry 7-8 "details" bullets. Each bullet MUST be at least 25 words, name a concrete technology, include a quantifiable metric (%, numbers, time saved, users, revenue) and state the business outcome. Follow the pattern "Action + Technology + Outcome + Metric" and reuse job description keywords naturally.
   Technologies must be realistic for the role's time period:
   - 2015-2018: React 15-16, AngularJS, Webpack, jQuery
   - 2018-2020: React 16-17, Vue 2, Kubernetes adoption
   - 2020-2023: React 18, Next.js 12-13, TypeScript mainstream, microservices
   - 2023-2025: Next.js 14, React Server Components, AI integration, edge computing

4. "education": copy from the input unchanged unless the job description clearly calls for different certification emphasis.

5. Keep name, title, email, phone, location, linkedin and website unchanged.

Professional tone, no typos, human-written feel. Return ONLY valid JSON, no markdown code blocks, no commentary.

**Resume JSON:**
`)
	b.WriteString(mustMarshal(rec))
	b.WriteString("\n\n**Job Description:**\n")
	b.WriteString(jobDescription)
	b.WriteString("\n")
	return b.String()
}
