package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-tailor/internal/model"
	"resume-tailor/internal/usecase"
	infra "resume-tailor/pkg/infrastructure"
)

// render merges a stored record into a template set without calling a
// model. Output is HTML unless -out ends in .pdf.
func main() {
	in := flag.String("in", filepath.Join("templates", "resumes", "sample.json"), "resume record JSON")
	tplDir := flag.String("templates", "templates", "templates directory")
	set := flag.String("template", "default", "template set name")
	out := flag.String("out", filepath.Join("resume-data", "generated", "resume.html"), "output file (.html or .pdf)")
	browser := flag.String("browser", "local", "browser mode for PDF output: local or managed")
	chrome := flag.String("chrome", os.Getenv("CHROME_PATH"), "browser binary")
	flag.Parse()

	b, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read record: %v\n", err)
		os.Exit(2)
	}
	var rec model.ResumeRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}
	rec.Normalize()
	if err := model.ValidateRecord(&rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	html, err := usecase.RenderTemplate(*tplDir, *set, &rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render template: %v\n", err)
		os.Exit(2)
	}

	data := []byte(html)
	if strings.EqualFold(filepath.Ext(*out), ".pdf") {
		renderer, err := infra.NewRenderer(*browser, *chrome, infra.A4())
		if err != nil {
			fmt.Fprintf(os.Stderr, "renderer: %v\n", err)
			os.Exit(2)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		data, err = renderer.RenderHTMLToPDF(ctx, html)
		if err != nil {
			fmt.Fprintf(os.Stderr, "print pdf: %v\n", err)
			os.Exit(2)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create out dir: %v\n", err)
		os.Exit(2)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write out: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, len(data))
}
