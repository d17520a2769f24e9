package resume

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/avashisth/buddy-backend/internal/domain"
)

const resumeTemplate = `# {{.Name}}
{{- if or .State .Country}}
{{join2 .State .Country}}
{{- end}}
{{- if .Phone}}
{{.Phone}}
{{- end}}

## Summary

{{.Summary}}

## Skills

{{range .Skills}}- {{.}}
{{end}}
## Work Experience
{{range .WorkExperience}}
### {{.Title}}, {{.Company}}{{if .Period}} ({{.Period}}){{end}}

{{range .Points}}- {{.}}
{{end}}{{end}}`

var tmpl = template.Must(template.New("resume").Funcs(template.FuncMap{
	"join2": func(a, b string) string {
		parts := make([]string, 0, 2)
		if a != "" {
			parts = append(parts, a)
		}
		if b != "" {
			parts = append(parts, b)
		}
		return strings.Join(parts, ", ")
	},
}).Parse(resumeTemplate))

// Render produces a Markdown resume document for the profile.
func Render(p *domain.Profile) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render resume: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the profile and writes it under dir as
// <profile id>_resume.md, creating dir if needed. The written path is
// returned.
func WriteFile(dir string, p *domain.Profile) (string, error) {
	doc, err := Render(p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create resume dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_resume.md", p.ID))
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("write resume: %w", err)
	}
	return path, nil
}
