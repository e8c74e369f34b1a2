package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
)

const repoTemplates = "../../templates"

func writeTemplateSet(t *testing.T, dir, set, html, css string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, set), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, set, "template.html"), []byte(html), 0o644))
	if css != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, set, "style.css"), []byte(css), 0o644))
	}
}

func TestRenderTemplate_DefaultSet(t *testing.T) {
	in := inputRecord()
	rec := MergeTailored(in, tailoredFrom(in))

	html, err := RenderTemplate(repoTemplates, "", rec)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<head><style>")
	assert.Contains(t, html, "<h1>Jane Doe</h1>")
	assert.Contains(t, html, "Professional Summary")
	assert.Contains(t, html, "DevOps Infrastructure")
	assert.Contains(t, html, "linkedin.com/in/janedoe")
	assert.Contains(t, html, bullet(0))

	// skills follow the predeclared order
	first := strings.Index(html, "Programming Languages")
	last := strings.Index(html, "Leadership Collaboration")
	require.True(t, first > 0 && last > 0)
	assert.Less(t, first, last)
}

func TestRenderTemplate_Deterministic(t *testing.T) {
	in := inputRecord()
	rec := MergeTailored(in, tailoredFrom(in))
	want, err := RenderTemplate(repoTemplates, "default", rec)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		got, err := RenderTemplate(repoTemplates, "default", rec)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRenderTemplate_Helpers(t *testing.T) {
	dir := t.TempDir()
	writeTemplateSet(t, dir, "plain",
		`<html><body>{{range .Skills}}[{{.Label}}={{join .Items "|"}}]{{end}}{{label "ci_cd_api"}} {{host .Profile.Website}}</body></html>`, "")

	rec := &model.ResumeRecord{
		Name:    "Jane",
		Website: "https://blog.example.co.uk/posts/",
		Skills:  map[string][]string{"backend": {"Go", "gRPC"}, "frontend": {}},
	}
	html, err := RenderTemplate(dir, "plain", rec)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>[Backend=Go|gRPC]CI CD API example.co.uk/posts</body></html>", html)
}

func TestRenderTemplate_InlinesCSSWithoutHead(t *testing.T) {
	dir := t.TempDir()
	writeTemplateSet(t, dir, "nohead", `<p>{{.Profile.Name}}</p>`, "p{color:red}")
	html, err := RenderTemplate(dir, "nohead", &model.ResumeRecord{Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "<style>p{color:red}</style><p>Jane</p>", html)
}

func TestRenderTemplate_BadSet(t *testing.T) {
	_, err := RenderTemplate(repoTemplates, "../etc", inputRecord())
	var invalid *domain.InvalidRequestError
	require.ErrorAs(t, err, &invalid)

	_, err = RenderTemplate(repoTemplates, "missing", inputRecord())
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 400, domain.StatusCode(err))
}

func TestHostLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"https://www.linkedin.com/in/jane/", "linkedin.com/in/jane"},
		{"janedoe.dev", "janedoe.dev"},
		{"http://sub.domain.example.com", "example.com"},
		{"not a url with spaces", "not a url with spaces"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hostLabel(tt.in), tt.in)
	}
}

func TestOrderedSkills(t *testing.T) {
	groups := OrderedSkills(map[string][]string{
		"leadership_collaboration": {"Mentorship"},
		"programming_languages":    {"Go", " "},
		"databases":                {},
		"unknown":                  {"x"},
	})
	require.Len(t, groups, 2)
	assert.Equal(t, "programming_languages", groups[0].Key)
	assert.Equal(t, []string{"Go"}, groups[0].Items)
	assert.Equal(t, "Leadership Collaboration", groups[1].Label)
}
