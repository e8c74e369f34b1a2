package usecase

import (
	"fmt"
	"strings"

	"resume-tailor/internal/model"
)

const (
	minDetails     = 7
	maxDetails     = 8
	minDetailWords = 25
)

// StageValidationResult holds validation state for a stage
type StageValidationResult struct {
	Valid   bool
	Missing []string
}

func (r *StageValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Missing = append(r.Missing, fmt.Sprintf(format, args...))
}

// String lists every problem found, for error messages.
func (r *StageValidationResult) String() string {
	return strings.Join(r.Missing, "; ")
}

// StructureValidator checks the structurer's contract: empty summary,
// predeclared skills, and no experience details yet.
func StructureValidator(rec *model.ResumeRecord) *StageValidationResult {
	result := &StageValidationResult{Valid: true, Missing: []string{}}
	if rec == nil {
		result.fail("record")
		return result
	}
	if rec.Summary != "" {
		result.fail("summary must be empty")
	}
	defaults := model.DefaultSkills()
	if len(rec.Skills) != len(defaults) {
		result.fail("skills has %d categories, want %d", len(rec.Skills), len(defaults))
	}
	for _, k := range model.SkillCategories {
		if _, ok := rec.Skills[k]; !ok {
			result.fail("skills.%s", k)
		}
	}
	for i, e := range rec.Experience {
		if len(e.Details) != 0 {
			result.fail("experience[%d].details must be empty", i)
		}
	}
	return result
}

// TailorValidator checks a tailored record against the input it was
// produced from.
func TailorValidator(input, tailored *model.ResumeRecord) *StageValidationResult {
	result := &StageValidationResult{Valid: true, Missing: []string{}}
	if tailored == nil {
		result.fail("record")
		return result
	}

	summary := strings.TrimSpace(tailored.Summary)
	if summary == "" {
		result.fail("summary")
	} else if input != nil && summary == strings.TrimSpace(input.Summary) {
		result.fail("summary (copied from input)")
	}

	for _, k := range model.SkillCategories {
		if len(nonEmpty(tailored.Skills[k])) == 0 {
			result.fail("skills.%s (empty)", k)
		}
	}

	if input != nil && len(tailored.Experience) != len(input.Experience) {
		result.fail("experience (got %d entries, want %d)", len(tailored.Experience), len(input.Experience))
	}
	for i, e := range tailored.Experience {
		n := len(e.Details)
		if n < minDetails || n > maxDetails {
			result.fail("experience[%d].details (got %d bullets, want %d-%d)", i, n, minDetails, maxDetails)
		}
		for j, d := range e.Details {
			if w := len(strings.Fields(d)); w < minDetailWords {
				result.fail("experience[%d].details[%d] (%d words, want >= %d)", i, j, w, minDetailWords)
			}
		}
	}
	return result
}

// MergeTailored replaces the narrative fields of input with the tailored
// ones. Identity, contact and job metadata always come from input.
func MergeTailored(input, tailored *model.ResumeRecord) *model.ResumeRecord {
	out := input.Clone()
	out.Summary = strings.TrimSpace(tailored.Summary)

	out.Skills = make(map[string][]string, len(model.SkillCategories))
	for _, k := range model.SkillCategories {
		out.Skills[k] = nonEmpty(tailored.Skills[k])
	}

	for i := range out.Experience {
		if i < len(tailored.Experience) {
			out.Experience[i].Details = nonEmpty(tailored.Experience[i].Details)
		}
	}
	if len(tailored.Education) > 0 {
		out.Education = make([]model.Education, len(tailored.Education))
		copy(out.Education, tailored.Education)
	}
	out.Normalize()
	return out
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
