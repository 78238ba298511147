package resume

// Known field-name drift produced by the model, mapped to canonical keys.
// Normalization happens on the decoded JSON maps before the payload is bound
// to the typed schema, so a drifting response is repaired instead of dropped.
var sectionSynonyms = map[string]map[string]string{
	"educations": {
		"institution":      "institute_name",
		"institution_name": "institute_name",
		"institute":        "institute_name",
		"date":             "dates",
		"specialization":   "specialisation",
		"coursework":       "relevant_coursework",
	},
	"work_experiences": {
		"company":  "company_name",
		"employer": "company_name",
		"title":    "job_title",
		"position": "job_title",
		"role":     "job_title",
		"dates":    "date",
		"bullets":  "bullet_points",
	},
	"projects": {
		"name":         "title",
		"project_name": "title",
		"dates":        "date",
		"link":         "project_link",
		"url":          "project_link",
		"technologies": "technologies_used",
		"tech_stack":   "technologies_used",
		"bullets":      "bullet_points",
	},
	"skills": {
		"group":      "skill_group",
		"group_name": "skill_group",
		"category":   "skill_group",
	},
	"achievements": {
		"name": "title",
		"date": "date_achieved",
	},
	"certifications": {
		"name":               "certificate_name",
		"certification_name": "certificate_name",
		"organization":       "issuing_organization",
		"issuer":             "issuing_organization",
		"date":               "date_issued",
	},
	"languages": {
		"name":  "language",
		"level": "proficiency",
	},
	"publications": {
		"title":   "publication_name",
		"name":    "publication_name",
		"date":    "publication_date",
		"journal": "journal_conference",
	},
	"extracurriculars": {
		"organization": "organization_name",
		"activity":     "title",
		"dates":        "date",
		"bullets":      "bullet_points",
	},
}

// normalizeDetailsMap rewrites synonym keys in a decoded resume payload to
// their canonical names. Unknown keys are left alone; the typed unmarshal
// simply ignores them.
func normalizeDetailsMap(details map[string]any) {
	for section, synonyms := range sectionSynonyms {
		entries, ok := details[section].([]any)
		if !ok {
			continue
		}
		for _, entry := range entries {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			normalizeEntry(m, synonyms)
		}
	}

	if pi, ok := details["personal_info"].(map[string]any); ok {
		normalizeEntry(pi, map[string]string{
			"full_name": "name",
			"summary":   "professional_summary",
			"objective": "professional_summary",
			"contact":   "contact_info",
		})
		if ci, ok := pi["contact_info"].(map[string]any); ok {
			normalizeEntry(ci, map[string]string{
				"phone":        "mobile",
				"phone_number": "mobile",
				"address":      "location",
				"links":        "social_links",
			})
		}
	}
}

// normalizeEntry renames drifting keys in place. A synonym never overwrites
// a canonical key the model already emitted.
func normalizeEntry(m map[string]any, synonyms map[string]string) {
	for from, to := range synonyms {
		value, ok := m[from]
		if !ok {
			continue
		}
		if _, exists := m[to]; !exists {
			m[to] = value
		}
		delete(m, from)
	}
}
