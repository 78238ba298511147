// Package resume defines the canonical structured-resume record and the
// generative extractor that produces it from raw resume text.
package resume

// Details is the canonical structured representation of a resume. Every list
// field defaults to an empty slice rather than null so downstream consumers
// and API clients never need nil checks.
type Details struct {
	PersonalInfo     PersonalInfo      `json:"personal_info"`
	Educations       []Education       `json:"educations"`
	WorkExperiences  []WorkExperience  `json:"work_experiences"`
	Projects         []Project         `json:"projects"`
	Skills           []SkillGroup      `json:"skills"`
	Achievements     []Achievement     `json:"achievements"`
	Certifications   []Certification   `json:"certifications"`
	Languages        []Language        `json:"languages"`
	Publications     []Publication     `json:"publications"`
	Extracurriculars []Extracurricular `json:"extracurriculars"`
}

type PersonalInfo struct {
	Name                string      `json:"name"`
	ContactInfo         ContactInfo `json:"contact_info"`
	ProfessionalSummary string      `json:"professional_summary"`
}

type ContactInfo struct {
	Email       string      `json:"email"`
	Mobile      string      `json:"mobile"`
	Location    string      `json:"location"`
	SocialLinks SocialLinks `json:"social_links"`
}

type SocialLinks struct {
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
}

// DateRange holds the date strings as written in the resume; original
// formats are preserved, "Present" included.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Education struct {
	InstituteName      string    `json:"institute_name"`
	Degree             string    `json:"degree"`
	Specialisation     string    `json:"specialisation"`
	Dates              DateRange `json:"dates"`
	Location           string    `json:"location"`
	GPA                string    `json:"gpa"`
	RelevantCoursework []string  `json:"relevant_coursework"`
}

type WorkExperience struct {
	CompanyName  string    `json:"company_name"`
	JobTitle     string    `json:"job_title"`
	Date         DateRange `json:"date"`
	Location     string    `json:"location"`
	BulletPoints []string  `json:"bullet_points"`
}

type Project struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ProjectLink      string    `json:"project_link"`
	Date             DateRange `json:"date"`
	Location         string    `json:"location"`
	Organization     string    `json:"organization"`
	BulletPoints     []string  `json:"bullet_points"`
	TechnologiesUsed []string  `json:"technologies_used"`
}

type SkillGroup struct {
	SkillGroup string   `json:"skill_group"`
	Skills     []string `json:"skills"`
}

type Achievement struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DateAchieved string `json:"date_achieved"`
	Organization string `json:"organization"`
}

type Certification struct {
	CertificateName     string `json:"certificate_name"`
	IssuingOrganization string `json:"issuing_organization"`
	DateIssued          string `json:"date_issued"`
	ExpiryDate          string `json:"expiry_date"`
	Description         string `json:"description"`
}

type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

type Publication struct {
	PublicationName   string   `json:"publication_name"`
	Authors           []string `json:"authors"`
	PublicationDate   string   `json:"publication_date"`
	JournalConference string   `json:"journal_conference"`
	Description       string   `json:"description"`
}

type Extracurricular struct {
	Title            string    `json:"title"`
	OrganizationName string    `json:"organization_name"`
	Role             string    `json:"role"`
	Date             DateRange `json:"date"`
	BulletPoints     []string  `json:"bullet_points"`
}

// EmptyDetails returns the zero-value resume with all list fields
// initialized, the shape used when extraction degrades.
func EmptyDetails() Details {
	d := Details{}
	d.ensureDefaults()
	return d
}

// ensureDefaults replaces nil slices with empty ones, recursively.
func (d *Details) ensureDefaults() {
	if d.Educations == nil {
		d.Educations = []Education{}
	}
	for i := range d.Educations {
		if d.Educations[i].RelevantCoursework == nil {
			d.Educations[i].RelevantCoursework = []string{}
		}
	}
	if d.WorkExperiences == nil {
		d.WorkExperiences = []WorkExperience{}
	}
	for i := range d.WorkExperiences {
		if d.WorkExperiences[i].BulletPoints == nil {
			d.WorkExperiences[i].BulletPoints = []string{}
		}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	for i := range d.Projects {
		if d.Projects[i].BulletPoints == nil {
			d.Projects[i].BulletPoints = []string{}
		}
		if d.Projects[i].TechnologiesUsed == nil {
			d.Projects[i].TechnologiesUsed = []string{}
		}
	}
	if d.Skills == nil {
		d.Skills = []SkillGroup{}
	}
	for i := range d.Skills {
		if d.Skills[i].Skills == nil {
			d.Skills[i].Skills = []string{}
		}
	}
	if d.Achievements == nil {
		d.Achievements = []Achievement{}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	if d.Languages == nil {
		d.Languages = []Language{}
	}
	if d.Publications == nil {
		d.Publications = []Publication{}
	}
	for i := range d.Publications {
		if d.Publications[i].Authors == nil {
			d.Publications[i].Authors = []string{}
		}
	}
	if d.Extracurriculars == nil {
		d.Extracurriculars = []Extracurricular{}
	}
	for i := range d.Extracurriculars {
		if d.Extracurriculars[i].BulletPoints == nil {
			d.Extracurriculars[i].BulletPoints = []string{}
		}
	}
}
