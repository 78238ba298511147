package skills

import (
	"math"
	"strings"
)

// MatchResult compares the skills a job description mentions with the resume.
type MatchResult struct {
	Matched      []string `json:"matched_skills"`
	Missing      []string `json:"missing_skills"`
	MatchPercent float64  `json:"match_percent"`
}

// DetectGroups scans the resume text and returns the technical and soft skill
// groups whose keywords appear in it. Groups without a single hit are omitted.
// Matching is a case-insensitive substring test, so output is deterministic for
// identical input.
func (t *Taxonomy) DetectGroups(text string) (technical, soft []Group) {
	lower := strings.ToLower(text)
	technical = detectIn(lower, t.technical)
	soft = detectIn(lower, t.soft)
	return technical, soft
}

// Detect returns the flat technical and soft skill keyword lists found in
// the text, in taxonomy order.
func (t *Taxonomy) Detect(text string) (technical, soft []string) {
	techGroups, softGroups := t.DetectGroups(text)
	return flatten(techGroups), flatten(softGroups)
}

func flatten(groups []Group) []string {
	out := []string{}
	for _, g := range groups {
		out = append(out, g.Skills...)
	}
	return out
}

func detectIn(lowerText string, groups []Group) []Group {
	found := make([]Group, 0, len(groups))
	for _, g := range groups {
		var hits []string
		for _, skill := range g.Skills {
			if strings.Contains(lowerText, skill) {
				hits = append(hits, skill)
			}
		}
		if len(hits) > 0 {
			found = append(found, Group{Name: g.Name, Skills: hits})
		}
	}
	return found
}

// MatchJobDescription determines which taxonomy keywords the job description
// mentions, then splits them into matched (also present in the resume) and
// missing (absent from the resume). MatchPercent is matched over mentioned,
// times 100, rounded to two decimals; it is 0 when the job description
// mentions no recognized skill. Slices keep taxonomy order.
func (t *Taxonomy) MatchJobDescription(resumeText, jobDescription string) MatchResult {
	result := MatchResult{
		Matched: []string{},
		Missing: []string{},
	}
	if strings.TrimSpace(jobDescription) == "" {
		return result
	}

	resumeLower := strings.ToLower(resumeText)
	jdLower := strings.ToLower(jobDescription)

	mentioned := 0
	for _, skill := range t.allKeywords() {
		if !strings.Contains(jdLower, skill) {
			continue
		}
		mentioned++
		if strings.Contains(resumeLower, skill) {
			result.Matched = append(result.Matched, skill)
		} else {
			result.Missing = append(result.Missing, skill)
		}
	}

	if mentioned > 0 {
		result.MatchPercent = round2(float64(len(result.Matched)) / float64(mentioned) * 100)
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
