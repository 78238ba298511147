package skills

// Group is a named category of skill keywords, ordered as authored.
type Group struct {
	Name   string   `json:"group_name"`
	Skills []string `json:"skills"`
}

// Taxonomy is the static keyword reference used for lexical skill matching.
// It is built once at startup and read concurrently; never mutate it afterwards.
type Taxonomy struct {
	technical []Group
	soft      []Group
}

// DefaultTaxonomy returns the built-in technical and soft skill tables.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		technical: []Group{
			{Name: "Programming Languages", Skills: []string{
				"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust",
				"php", "ruby", "swift", "kotlin", "scala", "r", "matlab", "perl",
			}},
			{Name: "Web Technologies", Skills: []string{
				"html", "css", "react", "angular", "vue.js", "node.js", "express.js",
				"django", "flask", "spring boot", "laravel", "asp.net", "bootstrap",
			}},
			{Name: "Databases", Skills: []string{
				"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle",
				"sql server", "cassandra", "elasticsearch", "neo4j",
			}},
			{Name: "Cloud Platforms", Skills: []string{
				"aws", "azure", "google cloud", "gcp", "heroku", "digitalocean",
				"kubernetes", "docker", "terraform", "ansible",
			}},
			{Name: "Data Science & Analytics", Skills: []string{
				"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "keras",
				"tableau", "power bi", "jupyter", "spark", "hadoop",
			}},
			{Name: "Development Tools", Skills: []string{
				"git", "github", "gitlab", "jira", "confluence", "jenkins", "ci/cd",
				"visual studio", "intellij", "eclipse", "postman", "swagger",
			}},
			{Name: "Testing", Skills: []string{
				"junit", "pytest", "selenium", "cypress", "jest", "mocha",
				"unit testing", "integration testing", "automation testing",
			}},
			{Name: "Mobile Development", Skills: []string{
				"android", "ios", "react native", "flutter", "xamarin", "cordova",
			}},
		},
		soft: []Group{
			{Name: "Communication", Skills: []string{
				"communication", "presentation", "public speaking", "writing",
				"documentation", "storytelling", "active listening",
			}},
			{Name: "Leadership", Skills: []string{
				"leadership", "team management", "mentoring", "coaching",
				"delegation", "decision making", "strategic thinking",
			}},
			{Name: "Collaboration", Skills: []string{
				"teamwork", "collaboration", "cross-functional", "stakeholder management",
				"conflict resolution", "negotiation", "interpersonal skills",
			}},
			{Name: "Problem Solving", Skills: []string{
				"problem solving", "analytical thinking", "critical thinking",
				"troubleshooting", "debugging", "innovation", "creativity",
			}},
			{Name: "Project Management", Skills: []string{
				"project management", "agile", "scrum", "kanban", "waterfall",
				"planning", "organization", "time management", "prioritization",
			}},
			{Name: "Adaptability", Skills: []string{
				"adaptability", "flexibility", "learning agility", "resilience",
				"change management", "continuous learning",
			}},
		},
	}
}

// allKeywords yields every keyword in taxonomy order, technical groups first.
func (t *Taxonomy) allKeywords() []string {
	var keywords []string
	for _, g := range t.technical {
		keywords = append(keywords, g.Skills...)
	}
	for _, g := range t.soft {
		keywords = append(keywords, g.Skills...)
	}
	return keywords
}
