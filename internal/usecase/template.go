package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/pkg/ai/formatters"
)

const defaultTemplateSet = "default"

var setNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SkillGroup is one rendered skills row.
type SkillGroup struct {
	Key   string
	Label string
	Items []string
}

var templateFuncs = template.FuncMap{
	"join":  func(items []string, sep string) string { return strings.Join(items, sep) },
	"label": formatters.SkillLabel,
	"host":  hostLabel,
}

// OrderedSkills returns non-empty categories in the predeclared order.
func OrderedSkills(skills map[string][]string) []SkillGroup {
	groups := make([]SkillGroup, 0, len(model.SkillCategories))
	for _, k := range model.SkillCategories {
		if items := nonEmpty(skills[k]); len(items) > 0 {
			groups = append(groups, SkillGroup{Key: k, Label: formatters.SkillLabel(k), Items: items})
		}
	}
	return groups
}

// RenderTemplate merges rec into <tplDir>/<set>/template.html and inlines
// the set's style.css into <head>.
func RenderTemplate(tplDir, set string, rec *model.ResumeRecord) (string, error) {
	if set == "" {
		set = defaultTemplateSet
	}
	if !setNamePattern.MatchString(set) {
		return "", &domain.InvalidRequestError{Detail: fmt.Sprintf("invalid template name %q", set)}
	}
	dir := filepath.Join(tplDir, set)
	if _, err := os.Stat(filepath.Join(dir, "template.html")); err != nil {
		return "", &domain.InvalidRequestError{Detail: fmt.Sprintf("template set %q not found", set), Err: err}
	}
	tpl, err := template.New("template.html").Funcs(templateFuncs).ParseFiles(filepath.Join(dir, "template.html"))
	if err != nil {
		return "", err
	}

	data := map[string]interface{}{
		"Profile": rec,
		"Skills":  OrderedSkills(rec.Skills),
		"Labels":  formatters.GetDefaultLabels(),
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	html := buf.String()

	// Inline the stylesheet so the document renders without file access
	cssContent, err := os.ReadFile(filepath.Join(dir, "style.css"))
	if err != nil {
		slog.Debug("template: no stylesheet to inline", "dir", dir)
		return html, nil
	}
	cssBlock := "<style>" + string(cssContent) + "</style>"
	if i := strings.Index(strings.ToLower(html), "<head>"); i >= 0 {
		i += len("<head>")
		html = html[:i] + cssBlock + html[i:]
	} else {
		html = cssBlock + html
	}
	return html, nil
}

// hostLabel renders a link as its registrable domain, e.g.
// "https://www.linkedin.com/in/jane" -> "linkedin.com/in/jane".
func hostLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return raw
	}
	host := parsed.Hostname()
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		host = etld
	}
	host = strings.TrimPrefix(host, "www.")
	if p := strings.TrimRight(parsed.Path, "/"); p != "" {
		return host + p
	}
	return host
}
