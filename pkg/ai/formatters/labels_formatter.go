package formatters

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// acronyms are rendered in a fixed form instead of title case.
var acronyms = map[string]string{
	"ai":     "AI",
	"ml":     "ML",
	"api":    "API",
	"apis":   "APIs",
	"ui":     "UI",
	"ux":     "UX",
	"ci":     "CI",
	"cd":     "CD",
	"qa":     "QA",
	"sql":    "SQL",
	"devops": "DevOps",
}

// SkillLabel converts a snake_case key into a display label, e.g.
// "devops_infrastructure" -> "DevOps Infrastructure".
func SkillLabel(key string) string {
	parts := strings.Split(strings.TrimSpace(key), "_")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		if a, ok := acronyms[lower]; ok {
			out = append(out, a)
			continue
		}
		r, size := utf8.DecodeRuneInString(lower)
		out = append(out, string(unicode.ToUpper(r))+lower[size:])
	}
	return strings.Join(out, " ")
}

// GetDefaultLabels returns the section headings used by the templates.
func GetDefaultLabels() map[string]string {
	return map[string]string{
		"professional_summary":    "Professional Summary",
		"technical_skills":        "Technical Skills",
		"professional_experience": "Professional Experience",
		"education":               "Education & Certifications",
	}
}
