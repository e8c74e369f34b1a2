package formatters

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"resume-tailor/internal/domain"
	"resume-tailor/pkg/ai"
)

// DocumentFormatter asks the model for a complete, print-ready HTML resume
// in one call. It is the alternative to structure + tailor + template.
type DocumentFormatter struct {
	model  ai.Model
	policy ai.Policy
}

func NewDocumentFormatter(m ai.Model, p ai.Policy) *DocumentFormatter {
	return &DocumentFormatter{model: m, policy: p}
}

func (df *DocumentFormatter) Write(ctx context.Context, resumeText, jobDescription string) (*domain.TailoredDocument, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &domain.MissingInputError{Field: "resumeText"}
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &domain.MissingInputError{Field: "jd"}
	}
	prompt := documentPrompt(resumeText, jobDescription)

	html, err := ai.Call(ctx, df.policy, func(ctx context.Context) (string, error) {
		raw, err := df.model.Complete(ctx, prompt, tailorTemperature)
		if err != nil {
			return "", err
		}
		return checkDocument(raw)
	})
	if err != nil {
		return nil, err
	}

	name := CandidateName(html)
	slog.Info("formatters: generated html resume", "name", name, "bytes", len(html))
	return domain.NewRawDocument(html, name), nil
}

// checkDocument strips fences and requires a doctype or <html> prefix.
func checkDocument(raw string) (string, error) {
	html := ai.StripFences(raw)
	lower := strings.ToLower(html)
	if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") {
		return html, nil
	}
	prefix := html
	if len(prefix) > 40 {
		prefix = prefix[:40]
	}
	return "", &domain.InvalidDocumentError{Prefix: prefix}
}

// CandidateName returns the text of the first <h1>, whitespace-collapsed.
func CandidateName(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("h1").First().Text()), " ")
}

func documentPrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString(`You are a world-class professional resume writer, career strategist, and ATS optimization expert.

Generate a COMPLETE HTML RESUME from the raw resume text below, fully tailored to the job description. It must be ATS-friendly, recruiter-friendly and print-ready on A4.

Use this document structure and stylesheet:

<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>[Candidate Name] - Resume</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: Calibri, Arial, sans-serif; font-size: 11pt; line-height: 1.4; color: #000; background: #fff; }
    header { text-align: center; margin-bottom: 20px; padding-bottom: 12px; border-bottom: 2px solid #000; }
    h1 { font-size: 22pt; font-weight: bold; margin-bottom: 6px; text-transform: uppercase; letter-spacing: 1.5px; }
    .title { font-size: 12pt; font-weight: 600; margin-bottom: 6px; color: #333; }
    .contact { font-size: 10pt; color: #444; line-height: 1.5; }
    h2 { font-size: 13pt; font-weight: bold; text-transform: uppercase; border-bottom: 1.5px solid #000; padding-bottom: 4px; margin-top: 18px; margin-bottom: 10px; }
    .summary { text-align: justify; line-height: 1.5; }
    .skills-category { margin-bottom: 8px; line-height: 1.5; }
    .exp-header, .edu-header { display: flex; justify-content: space-between; align-items: baseline; }
    .exp-header { margin-top: 12px; margin-bottom: 3px; }
    .exp-title { font-size: 11.5pt; font-weight: bold; }
    .exp-dates, .edu-dates { font-size: 10pt; font-style: italic; white-space: nowrap; }
    .exp-company { font-size: 10.5pt; font-style: italic; margin-bottom: 6px; color: #333; }
    .exp-details { margin-left: 20px; margin-bottom: 12px; }
    .exp-details li { margin-bottom: 5px; text-align: justify; }
    .edu-item { margin-bottom: 10px; }
    .edu-degree { font-weight: 600; }
    .edu-school { font-size: 10.5pt; color: #333; }
  </style>
</head>
<body>
  <header>
    <h1>[CANDIDATE FULL NAME]</h1>
    <div class="title">[Professional Title]</div>
    <div class="contact">[Email] • [Phone] • [Location]<br>[LinkedIn URL if available]</div>
  </header>
  <section><h2>Professional Summary</h2><p class="summary">[5-6 lines]</p></section>
  <section><h2>Technical Skills</h2>
    <div class="skills-category"><strong>[Category]:</strong> <span class="skills-list">[skills]</span></div>
  </section>
  <section><h2>Professional Experience</h2>
    <div class="exp-header"><div class="exp-title">[Job Title]</div><div class="exp-dates">[Start] – [End]</div></div>
    <div class="exp-company">[Company Name], [Location]</div>
    <ul class="exp-details"><li>[bullet]</li></ul>
  </section>
  <section><h2>Education &amp; Certifications</h2>
    <div class="edu-item"><div class="edu-header"><div class="edu-degree">[Degree]</div><div class="edu-dates">[Start Year] – [End Year]</div></div><div class="edu-school">[School]</div></div>
  </section>
</body>
</html>

Rules:
1. Extract name, contact info, title, every job (title, company, location, dates) and education from the resume text.
2. Professional Summary: a completely NEW 5-6 line paragraph tailored to the job description.
3. Technical Skills: 12-18 skills per category, about 60% job description technologies (exact matches first) and 40% related modern technologies. Categories: Programming Languages, Frontend, Backend, Databases, Cloud Platforms, DevOps & Infrastructure, Testing, Tools & Frameworks, plus AI/ML or Leadership & Collaboration when relevant.
4. Professional Experience: 7-8 bullets per job, each at least 25 words, with specific metrics, job description keywords and business impact ("Action + Technology + Outcome + Metric"). Technologies must be realistic for the period: 2015-2018 React 15-16, AngularJS, jQuery; 2018-2020 React 16-17, Vue 2, Kubernetes adoption; 2020-2023 React 18, Next.js 12-13, TypeScript, microservices; 2023-2025 Next.js 14, React Server Components, AI integration, edge computing.
5. Education: keep the factual information from the resume.
6. Use exact job description terminology, standard section headers and a simple parseable layout without tables or graphics.

**Resume Text:**
`)
	b.WriteString(resumeText)
	b.WriteString("\n\n**Job Description:**\n")
	b.WriteString(jobDescription)
	b.WriteString("\n\nReturn ONLY the complete HTML document starting with <!DOCTYPE html> and ending with </html>. No markdown code blocks, no explanation.\n")
	return b.String()
}
