package analysis

import "fmt"

// Prompt budgets. Inputs are truncated before interpolation so a very long
// resume cannot blow past the model's context window.
const (
	overallResumeLimit = 3000
	overallJDLimit     = 500
	overallMaxTokens   = 800
	overallTemp        = 0.7

	sectionMaxTokens = 1500
	sectionTemp      = 0.7

	atsResumeLimit = 2000
	atsJDLimit     = 500
	atsMaxTokens   = 200
	atsTemp        = 0.3
)

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func overallPrompt(resumeText, targetRole, jobDescription string) string {
	return fmt.Sprintf(`You are an expert resume reviewer. Analyze the resume below for the target role and return ONLY a JSON object with this exact structure:
{
  "strengths": ["..."],
  "improvements": ["..."],
  "ats_suggestions": ["..."],
  "job_fit": {"score": 0-100, "notes": "..."},
  "recommendation_score": 0-100,
  "summary": "2-3 sentence overall assessment"
}

Target role: %s

Job description:
%s

Resume:
%s

Return only the JSON object, no markdown, no commentary.`,
		targetRole, truncate(jobDescription, overallJDLimit), truncate(resumeText, overallResumeLimit))
}

func sectionPrompt(resumeText, targetRole string) string {
	return fmt.Sprintf(`You are an expert resume reviewer. Review each major section of the resume below (for example: summary, education, work_experience, projects, skills) for the target role "%s". Return ONLY a JSON object mapping section names to reviews:
{
  "<section_name>": {
    "description": "what this section contains",
    "good": ["..."],
    "bad": ["..."],
    "improvements": ["..."],
    "overall_review": "excellent" | "good" | "needs_improvement" | "poor"
  }
}

Resume:
%s

Return only the JSON object, no markdown, no commentary.`,
		targetRole, truncate(resumeText, overallResumeLimit))
}

func atsPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are an ATS (applicant tracking system) simulator. Score the resume below against the job description and return ONLY a JSON object:
{"ats_score": 0-100, "format_compliance": 0-100, "keyword_optimization": 0-100, "readability": 0-100}

Job description:
%s

Resume:
%s

Return only the JSON object.`,
		truncate(jobDescription, atsJDLimit), truncate(resumeText, atsResumeLimit))
}
