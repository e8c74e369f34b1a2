package usecase

import (
	"fmt"
	"strings"

	"resume-tailor/internal/model"
)

func inputRecord() *model.ResumeRecord {
	return &model.ResumeRecord{
		Name:     "Jane Doe",
		Title:    "Software Engineer",
		Email:    "jane@example.com",
		Phone:    "555-0100",
		Location: "Berlin, Germany",
		LinkedIn: "https://www.linkedin.com/in/janedoe",
		Summary:  "",
		Skills:   model.DefaultSkills(),
		Experience: []model.Experience{
			{Title: "Engineer", Company: "Initech", Location: "Berlin", StartDate: "Jan 2020", EndDate: "Present", Details: []string{}},
			{Title: "Junior Engineer", Company: "Globex", Location: "Hamburg", StartDate: "Jun 2017", EndDate: "Dec 2019", Details: []string{}},
		},
		Education: []model.Education{
			{Degree: "BSc Computer Science", School: "TU Berlin", StartYear: "2013", EndYear: "2017"},
		},
	}
}

func bullet(i int) string {
	return fmt.Sprintf("Delivered improvement number %d by migrating legacy services to Go and Kubernetes, cutting p99 latency by 40%% and saving the platform team roughly twelve engineering hours every single week", i)
}

func bullets(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = bullet(i)
	}
	return out
}

// tailoredFrom returns a model proposal that passes TailorValidator.
func tailoredFrom(in *model.ResumeRecord) *model.ResumeRecord {
	out := in.Clone()
	out.Name = "Someone Else"
	out.Summary = "Software engineer with seven years of experience building distributed systems in Go."
	out.Skills = map[string][]string{}
	for _, k := range model.SkillCategories {
		out.Skills[k] = []string{strings.ToUpper(k[:1]) + k[1:] + " skill", "Go"}
	}
	for i := range out.Experience {
		out.Experience[i].Company = "Changed Co"
		out.Experience[i].Details = bullets(7)
	}
	return out
}
