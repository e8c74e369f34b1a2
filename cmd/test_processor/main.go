package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/ai"
	"resume-tailor/pkg/ai/formatters"
	"resume-tailor/pkg/infrastructure"
)

// test_processor runs the full generate pipeline against a mock
// chat-completions server and a real browser, and writes the PDF.

const sampleText = `Jane Doe
Senior Software Engineer
jane.doe@example.com | +1 555 0100 | Austin, TX

Experience
Senior Software Engineer, Northwind Labs, Austin TX, March 2021 - Present
Software Engineer, Contoso, Remote, June 2017 - February 2021

Education
B.S. Computer Science, University of Texas at Austin, 2013 - 2017`

func structuredRecord() *model.ResumeRecord {
	return &model.ResumeRecord{
		Name:     "Jane Doe",
		Title:    "Senior Software Engineer",
		Email:    "jane.doe@example.com",
		Phone:    "+1 555 0100",
		Location: "Austin, TX",
		Skills:   model.DefaultSkills(),
		Experience: []model.Experience{
			{Title: "Senior Software Engineer", Company: "Northwind Labs", Location: "Austin, TX", StartDate: "March 2021", EndDate: "Present", Details: []string{}},
			{Title: "Software Engineer", Company: "Contoso", Location: "Remote", StartDate: "June 2017", EndDate: "February 2021", Details: []string{}},
		},
		Education: []model.Education{
			{Degree: "B.S. Computer Science", School: "University of Texas at Austin", StartYear: "2013", EndYear: "2017"},
		},
	}
}

func tailoredRecord() *model.ResumeRecord {
	rec := structuredRecord()
	rec.Summary = "Senior software engineer with eight years of experience designing distributed Go and TypeScript systems, leading platform migrations to Kubernetes and improving reliability for high-traffic products."
	for _, k := range model.SkillCategories {
		rec.Skills[k] = append([]string{"Go", "Kubernetes"}, rec.Skills[k]...)
	}
	bullet := "Led the migration of %s services to Go on Kubernetes with GitHub Actions pipelines, reducing deployment time by %d%% and cutting monthly infrastructure spend for the platform organization"
	for i := range rec.Experience {
		details := make([]string, 7)
		for j := range details {
			details[j] = fmt.Sprintf(bullet, rec.Experience[i].Company, 20+j*5)
		}
		rec.Experience[i].Details = details
	}
	return rec
}

const tailoredHTML = `<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><title>Jane Doe - Resume</title></head>
<body><header><h1>Jane Doe</h1><div class="title">Senior Software Engineer</div></header>
<section><h2>Professional Summary</h2><p>Senior software engineer focused on Go platforms.</p></section>
</body></html>`

// reply picks a canned answer from the prompt the formatters send.
func reply(prompt string) string {
	switch {
	case strings.Contains(prompt, "expert resume parser"):
		b, _ := json.Marshal(structuredRecord())
		return "```json\n" + string(b) + "\n```"
	case strings.Contains(prompt, "**Resume JSON:**"):
		b, _ := json.Marshal(tailoredRecord())
		return string(b)
	default:
		return tailoredHTML
	}
}

func startMockAI(ln net.Listener) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err != nil || len(req.Messages) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		out := map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{"message": map[string]string{"role": "assistant", "content": reply(req.Messages[0].Content)}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("mock ai server failed", "error", err)
			os.Exit(1)
		}
	}()
	return srv
}

func main() {
	mode := flag.String("mode", "structured", "generation mode: structured or document")
	browser := flag.String("browser", "local", "browser mode: local or managed")
	tplDir := flag.String("templates", "templates", "templates directory")
	outDir := flag.String("out", filepath.Join("resume-data", "generated"), "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Printf("create out dir: %v\n", err)
		os.Exit(1)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Printf("listen: %v\n", err)
		os.Exit(1)
	}
	srv := startMockAI(ln)
	defer srv.Shutdown(context.Background())

	client := ai.NewClient("test-key", "mock-model", "http://"+ln.Addr().String()+"/v1")
	policy := ai.DefaultPolicy()
	policy.Timeout = 10 * time.Second

	renderer, err := infrastructure.NewRenderer(*browser, os.Getenv("CHROME_PATH"), infrastructure.A4())
	if err != nil {
		fmt.Printf("renderer: %v\n", err)
		os.Exit(1)
	}
	variant, ok := domain.ParseVariant(*mode)
	if !ok {
		fmt.Printf("unknown mode %q\n", *mode)
		os.Exit(1)
	}

	processor := usecase.NewProcessor(
		infrastructure.NewPDFExtractor(),
		formatters.NewStructureFormatter(client, policy),
		formatters.NewTailorFormatter(client, policy),
		formatters.NewDocumentFormatter(client, policy),
		renderer,
		*tplDir,
		variant,
	).WithArtifactDir(*outDir)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pdf, err := processor.Generate(ctx, usecase.GenerateInput{
		ResumeText:     sampleText,
		JobDescription: "Senior Go engineer to scale Kubernetes-based payment services.",
		Company:        "Acme Corp",
	})
	if err != nil {
		fmt.Printf("Generate failed: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(*outDir, pdf.Filename)
	if err := os.WriteFile(path, pdf.Bytes, 0o644); err != nil {
		fmt.Printf("write pdf: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generate completed. PDF: %s (%d bytes)\n", path, len(pdf.Bytes))
}
