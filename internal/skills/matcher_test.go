package skills

import (
	"reflect"
	"testing"
)

func miniTaxonomy() *Taxonomy {
	return &Taxonomy{
		technical: []Group{
			{Name: "Programming", Skills: []string{"python", "react", "sql"}},
		},
	}
}

func TestMatchJobDescriptionSplitsMatchedAndMissing(t *testing.T) {
	tax := miniTaxonomy()

	got := tax.MatchJobDescription("python react", "python sql")

	if !reflect.DeepEqual(got.Matched, []string{"python"}) {
		t.Fatalf("matched = %v, want [python]", got.Matched)
	}
	if !reflect.DeepEqual(got.Missing, []string{"sql"}) {
		t.Fatalf("missing = %v, want [sql]", got.Missing)
	}
	if got.MatchPercent != 50.0 {
		t.Fatalf("match percent = %v, want 50.0", got.MatchPercent)
	}
}

func TestMatchJobDescriptionEmptyJD(t *testing.T) {
	tax := DefaultTaxonomy()

	for _, jd := range []string{"", "   ", "\n\t"} {
		got := tax.MatchJobDescription("python java docker", jd)
		if got.MatchPercent != 0.0 {
			t.Fatalf("jd %q: match percent = %v, want 0", jd, got.MatchPercent)
		}
		if len(got.Matched) != 0 || len(got.Missing) != 0 {
			t.Fatalf("jd %q: expected empty slices, got %+v", jd, got)
		}
		if got.Matched == nil || got.Missing == nil {
			t.Fatalf("jd %q: slices must be non-nil for JSON encoding", jd)
		}
	}
}

func TestMatchJobDescriptionNoRecognizedSkills(t *testing.T) {
	tax := DefaultTaxonomy()

	got := tax.MatchJobDescription("python developer", "we expect punctuality only")
	if got.MatchPercent != 0.0 {
		t.Fatalf("match percent = %v, want 0", got.MatchPercent)
	}
	if len(got.Matched) != 0 || len(got.Missing) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestMatchJobDescriptionBounds(t *testing.T) {
	tax := DefaultTaxonomy()

	cases := []struct{ resume, jd string }{
		{"python", "python"},
		{"", "python mysql docker aws linux"},
		{"python mysql docker aws", "python mysql docker aws"},
		{"kotlin", "python mysql"},
	}
	for _, tc := range cases {
		got := tax.MatchJobDescription(tc.resume, tc.jd)
		if got.MatchPercent < 0 || got.MatchPercent > 100 {
			t.Fatalf("resume %q jd %q: percent %v out of range", tc.resume, tc.jd, got.MatchPercent)
		}
	}
}

func TestMatchJobDescriptionDeterministic(t *testing.T) {
	tax := DefaultTaxonomy()
	resume := "Senior engineer: python, go, postgresql, docker, kubernetes, teamwork"
	jd := "Looking for python plus postgresql and terraform experience, scrum a bonus"

	first := tax.MatchJobDescription(resume, jd)
	for i := 0; i < 5; i++ {
		again := tax.MatchJobDescription(resume, jd)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestMatchJobDescriptionCaseInsensitive(t *testing.T) {
	tax := DefaultTaxonomy()

	got := tax.MatchJobDescription("PYTHON", "Python")
	if !reflect.DeepEqual(got.Matched, []string{"python"}) {
		t.Fatalf("matched = %v, want [python]", got.Matched)
	}
	if got.MatchPercent != 100.0 {
		t.Fatalf("match percent = %v, want 100", got.MatchPercent)
	}
}

func TestMatchPercentRounding(t *testing.T) {
	tax := &Taxonomy{
		technical: []Group{
			{Name: "Programming", Skills: []string{"python", "sql", "kotlin"}},
		},
	}

	// one of three mentioned skills matched: 33.333... rounds to 33.33
	got := tax.MatchJobDescription("python", "python sql kotlin")
	if got.MatchPercent != 33.33 {
		t.Fatalf("match percent = %v, want 33.33", got.MatchPercent)
	}
}

func TestDetectGroups(t *testing.T) {
	tax := DefaultTaxonomy()
	text := "Built services in python and go, deployed with docker on aws. Strong teamwork and mentoring."

	technical, soft := tax.DetectGroups(text)

	var techNames []string
	for _, g := range technical {
		techNames = append(techNames, g.Name)
	}
	if !reflect.DeepEqual(techNames, []string{"Programming Languages", "Cloud Platforms"}) {
		t.Fatalf("technical groups = %v", techNames)
	}

	foundMentoring := false
	for _, g := range soft {
		if g.Name == "Leadership" {
			for _, s := range g.Skills {
				if s == "mentoring" {
					foundMentoring = true
				}
			}
		}
	}
	if !foundMentoring {
		t.Fatalf("expected mentoring under Leadership, got %+v", soft)
	}
}

func TestDetectGroupsEmptyText(t *testing.T) {
	tax := DefaultTaxonomy()

	technical, soft := tax.DetectGroups("")
	if len(technical) != 0 || len(soft) != 0 {
		t.Fatalf("expected no groups, got %v / %v", technical, soft)
	}
	if technical == nil || soft == nil {
		t.Fatal("group slices must be non-nil for JSON encoding")
	}
}
