package resume

import "fmt"

// parserPrompt asks the model for a JSON-only response matching the
// canonical schema. The schema is spelled out in full; models follow an
// explicit example far more reliably than a prose description.
func parserPrompt(text string) string {
	return fmt.Sprintf(`EXTRACT RESUME DATA TO JSON ONLY.
CRITICAL: Return ONLY the JSON object. No explanations, no markdown, no additional text. Start with { and end with }.

JSON SCHEMA:
{
  "resume_details": {
    "personal_info": {
      "name": "candidate full name",
      "contact_info": {
        "email": "email address",
        "mobile": "phone number",
        "location": "city, state/country",
        "social_links": {
          "linkedin": "linkedin profile url",
          "github": "github profile url",
          "portfolio": "portfolio website url"
        }
      },
      "professional_summary": "professional summary or objective statement"
    },
    "educations": [
      {
        "institute_name": "university/college name",
        "degree": "degree type (B.Tech, B.Sc, M.Sc, etc.)",
        "specialisation": "field of study",
        "dates": { "start": "start date", "end": "end date or 'Present'" },
        "location": "institute location",
        "gpa": "GPA/percentage if mentioned",
        "relevant_coursework": ["course1", "course2"]
      }
    ],
    "work_experiences": [
      {
        "company_name": "company name",
        "job_title": "position title",
        "date": { "start": "start date", "end": "end date or 'Present'" },
        "location": "work location",
        "bullet_points": ["responsibility/achievement 1", "responsibility/achievement 2"]
      }
    ],
    "projects": [
      {
        "title": "project name",
        "description": "brief project description",
        "project_link": "project url if available",
        "date": { "start": "start date", "end": "end date" },
        "location": "project location if applicable",
        "organization": "associated organization if any",
        "bullet_points": ["key point 1", "key point 2"],
        "technologies_used": ["tech1", "tech2"]
      }
    ],
    "skills": [
      { "skill_group": "Programming Languages", "skills": ["Python", "Java"] },
      { "skill_group": "Databases", "skills": ["MySQL", "PostgreSQL"] }
    ],
    "achievements": [
      {
        "title": "achievement title",
        "description": "achievement description",
        "date_achieved": "date of achievement",
        "organization": "awarding organization"
      }
    ],
    "certifications": [
      {
        "certificate_name": "certification name",
        "issuing_organization": "issuing body",
        "date_issued": "issue date",
        "expiry_date": "expiry date if applicable",
        "description": "certification description"
      }
    ],
    "languages": [
      { "language": "language name", "proficiency": "Native, Fluent, Intermediate or Basic" }
    ],
    "publications": [
      {
        "publication_name": "publication title",
        "authors": ["author1", "author2"],
        "publication_date": "publication date",
        "journal_conference": "journal or conference name",
        "description": "brief description"
      }
    ],
    "extracurriculars": [
      {
        "title": "activity title",
        "organization_name": "organization name",
        "role": "role/position held",
        "date": { "start": "start date", "end": "end date" },
        "bullet_points": ["activity detail 1", "activity detail 2"]
      }
    ]
  }
}

PARSING RULES:
1. Extract information only if explicitly mentioned in the resume
2. Use empty arrays [] for missing list fields
3. Use empty strings "" for missing string fields
4. Preserve original date formats when possible
5. Group skills logically by category
6. Include all bullet points as separate array elements
7. Extract URLs exactly as written

RESUME TEXT:
%s`, text)
}
