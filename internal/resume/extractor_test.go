package resume

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"cvlens/internal/llm"
)

// fakeLLM returns scripted responses in order, then repeats the last one.
type fakeLLM struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	idx := f.calls
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	return f.responses[idx], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const validResponse = "```json\n" + `{
  "resume_details": {
    "personal_info": {
      "name": "Ada Lovelace",
      "contact_info": {
        "email": "ada@example.com",
        "mobile": "+44 123",
        "location": "London",
        "social_links": {"linkedin": "", "github": "", "portfolio": ""}
      },
      "professional_summary": "Engineer."
    },
    "educations": [
      {
        "institute_name": "University of London",
        "degree": "B.Sc",
        "specialisation": "Mathematics",
        "dates": {"start": "1833", "end": "1835"},
        "location": "London",
        "gpa": "",
        "relevant_coursework": []
      }
    ],
    "work_experiences": [],
    "projects": [],
    "skills": [{"skill_group": "Programming Languages", "skills": ["Python"]}],
    "achievements": [],
    "certifications": [],
    "languages": [],
    "publications": [],
    "extracurriculars": []
  }
}` + "\n```"

func TestExtractValidResponse(t *testing.T) {
	fake := &fakeLLM{responses: []string{validResponse}}
	e := NewExtractor(fake, testLogger())

	details, err := e.Extract(context.Background(), "Ada Lovelace. Engineer. Python.")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if details.PersonalInfo.Name != "Ada Lovelace" {
		t.Fatalf("name: got %q", details.PersonalInfo.Name)
	}
	if len(details.Educations) != 1 || details.Educations[0].InstituteName != "University of London" {
		t.Fatalf("educations: %+v", details.Educations)
	}
	if details.WorkExperiences == nil || details.Projects == nil {
		t.Fatal("list fields must default to empty, not nil")
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", fake.calls)
	}
}

func TestExtractNormalizesSynonyms(t *testing.T) {
	// "date" instead of the canonical "dates" for education, "company" and
	// "title" for work experience: observed drift that must be repaired.
	drifted := `{
	  "resume_details": {
	    "personal_info": {"full_name": "Ada", "contact": {"phone": "1", "email": "", "location": "", "social_links": {}}, "summary": "x"},
	    "educations": [{"institution": "MIT", "degree": "M.Sc", "date": {"start": "2020", "end": "2022"}}],
	    "work_experiences": [{"company": "Acme", "title": "Engineer", "dates": {"start": "2022", "end": "Present"}}]
	  }
	}`
	fake := &fakeLLM{responses: []string{drifted}}
	e := NewExtractor(fake, testLogger())

	details, err := e.Extract(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if details.PersonalInfo.Name != "Ada" {
		t.Fatalf("full_name synonym not applied: %+v", details.PersonalInfo)
	}
	if details.PersonalInfo.ContactInfo.Mobile != "1" {
		t.Fatalf("phone synonym not applied: %+v", details.PersonalInfo.ContactInfo)
	}
	if len(details.Educations) != 1 || details.Educations[0].InstituteName != "MIT" {
		t.Fatalf("institution synonym not applied: %+v", details.Educations)
	}
	if details.Educations[0].Dates.Start != "2020" {
		t.Fatalf("date->dates synonym not applied: %+v", details.Educations[0])
	}
	if len(details.WorkExperiences) != 1 {
		t.Fatalf("work experiences: %+v", details.WorkExperiences)
	}
	we := details.WorkExperiences[0]
	if we.CompanyName != "Acme" || we.JobTitle != "Engineer" || we.Date.End != "Present" {
		t.Fatalf("work experience synonyms not applied: %+v", we)
	}
}

func TestExtractRetriesOnceThenDefaults(t *testing.T) {
	fake := &fakeLLM{responses: []string{"complete garbage, no json", "still no json"}}
	e := NewExtractor(fake, testLogger())

	details, err := e.Extract(context.Background(), "text")
	if err == nil {
		t.Fatal("expected an error after both attempts failed")
	}
	if fake.calls != 2 {
		t.Fatalf("expected exactly 2 model calls, got %d", fake.calls)
	}
	if details.Educations == nil || details.Skills == nil {
		t.Fatal("fallback details must have empty, non-nil lists")
	}
	if details.PersonalInfo.Name != "" {
		t.Fatalf("fallback details must be empty, got %+v", details.PersonalInfo)
	}
}

func TestExtractSecondAttemptSucceeds(t *testing.T) {
	fake := &fakeLLM{responses: []string{"not json at all", validResponse}}
	e := NewExtractor(fake, testLogger())

	details, err := e.Extract(context.Background(), "text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if details.PersonalInfo.Name != "Ada Lovelace" {
		t.Fatalf("name: got %q", details.PersonalInfo.Name)
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 model calls, got %d", fake.calls)
	}
}

func TestExtractModelFailureNoRetry(t *testing.T) {
	fake := &fakeLLM{responses: []string{""}, errs: []error{errors.New("upstream 500")}}
	e := NewExtractor(fake, testLogger())

	details, err := e.Extract(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if fake.calls != 1 {
		t.Fatalf("call failure must not be retried here, got %d calls", fake.calls)
	}
	if details.Educations == nil {
		t.Fatal("fallback details must have empty lists")
	}
}

func TestParserPromptContainsResumeText(t *testing.T) {
	fake := &fakeLLM{responses: []string{validResponse}}
	e := NewExtractor(fake, testLogger())
	if _, err := e.Extract(context.Background(), "UNIQUE-MARKER-42"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(fake.prompts[0], "UNIQUE-MARKER-42") {
		t.Fatal("prompt must embed the resume text")
	}
	if !strings.Contains(fake.prompts[0], "JSON SCHEMA") {
		t.Fatal("prompt must describe the schema")
	}
}
