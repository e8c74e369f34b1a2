package model

// Go models that match resume.schema.json used for validation and rendering.

// Skill category keys in display order. Templates and prompts iterate this
// slice, never the Skills map, so output order is stable.
var SkillCategories = []string{
	"programming_languages",
	"frontend",
	"backend",
	"databases",
	"testing",
	"cloud_platforms",
	"devops_infrastructure",
	"development_tools",
	"observability_monitoring",
	"workflow_automation",
	"leadership_collaboration",
}

type Experience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Details   []string `json:"details"`
}

type Education struct {
	Degree    string `json:"degree"`
	School    string `json:"school"`
	StartYear string `json:"start_year"`
	EndYear   string `json:"end_year"`
}

type ResumeRecord struct {
	Name       string              `json:"name"`
	Title      string              `json:"title"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	Location   string              `json:"location"`
	LinkedIn   string              `json:"linkedin"`
	Website    string              `json:"website"`
	Summary    string              `json:"summary"`
	Skills     map[string][]string `json:"skills"`
	Experience []Experience        `json:"experience"`
	Education  []Education         `json:"education"`
}

// DefaultSkills returns a fresh copy of the predeclared skill taxonomy.
func DefaultSkills() map[string][]string {
	out := make(map[string][]string, len(defaultSkills))
	for k, v := range defaultSkills {
		out[k] = copyStrings(v)
	}
	return out
}

var defaultSkills = map[string][]string{
	"programming_languages": {"JavaScript (ES6+)", "TypeScript"},
	"frontend": {
		"React", "Next.js (including React Server Components, App Router, SSR/SSG)", "Micro-frontends",
		"Webpack Module Federation", "Single-SPA", "Tailwind CSS", "SCSS", "Styled Components", "CSS Modules",
		"Redux Toolkit", "Zustand", "Recoil", "Apollo Client", "Material UI", "Radix UI", "Storybook",
		"WebAssembly integrations", "PWAs", "container queries", "AI-assisted UX",
	},
	"backend": {
		"Node.js (12–20)", "Express.js", "Fastify", "NestJS", "REST APIs", "GraphQL (Apollo Server, Yoga, Mercurius)",
		"gRPC (grpc-node)", "Kafka", "NATS", "RabbitMQ", "JWT", "OAuth2", "OpenID Connect", "Auth0", "Passport.js",
	},
	"databases": {"PostgreSQL", "MySQL", "MongoDB", "Redis", "DynamoDB", "Elasticsearch"},
	"testing": {
		"Jest", "Mocha/Chai", "Supertest", "Pact (contract testing)", "React Testing Library", "Cypress",
		"Playwright", "RSpec", "Postman", "unit/integration/e2e tests", "TDD", "BDD",
	},
	"cloud_platforms": {
		"AWS (EKS, Lambda, ECS, S3, RDS, CloudWatch, API Gateway)", "Azure (AKS, Cosmos DB, Functions)",
		"GCP (Cloud Run, Pub/Sub, Firestore)", "Vercel",
	},
	"devops_infrastructure": {
		"Docker", "Kubernetes", "Terraform", "Pulumi", "GitHub Actions", "GitLab CI/CD", "Azure DevOps", "Jenkins",
		"ArgoCD", "GitOps pipelines", "feature flags (LaunchDarkly, Unleash)", "canary/blue-green deployments",
	},
	"development_tools":        {"ESLint", "Prettier", "Husky", "Lerna", "NX monorepos", "Storybook"},
	"observability_monitoring": {"OpenTelemetry", "Winston", "Pino", "Prometheus", "Grafana"},
	"workflow_automation":      {"n8n", "Zapier integration"},
	"leadership_collaboration": {
		"Agile/Scrum", "Jira", "Confluence", "Code Reviews", "Mentorship", "Sprint Planning", "Roadmap Shaping",
	},
}

// Normalize replaces nil slices and maps with empty ones so the record
// always serializes with every field present.
func (r *ResumeRecord) Normalize() {
	if r.Skills == nil {
		r.Skills = map[string][]string{}
	}
	for k, v := range r.Skills {
		if v == nil {
			r.Skills[k] = []string{}
		}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	for i := range r.Experience {
		if r.Experience[i].Details == nil {
			r.Experience[i].Details = []string{}
		}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
}

// Clone returns a deep copy.
func (r *ResumeRecord) Clone() *ResumeRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Skills != nil {
		out.Skills = make(map[string][]string, len(r.Skills))
		for k, v := range r.Skills {
			out.Skills[k] = copyStrings(v)
		}
	}
	if r.Experience != nil {
		out.Experience = make([]Experience, len(r.Experience))
		for i, e := range r.Experience {
			e.Details = copyStrings(e.Details)
			out.Experience[i] = e
		}
	}
	if r.Education != nil {
		out.Education = make([]Education, len(r.Education))
		copy(out.Education, r.Education)
	}
	return &out
}

func copyStrings(v []string) []string {
	out := make([]string, len(v))
	copy(out, v)
	return out
}
