package similarity

import "testing"

func TestScoreEmptyInputs(t *testing.T) {
	if got := Score("go developer", ""); got != 0.0 {
		t.Fatalf("empty jd: got %v want 0", got)
	}
	if got := Score("", "go developer"); got != 0.0 {
		t.Fatalf("empty resume: got %v want 0", got)
	}
	if got := Score("   ", "the and of"); got != 0.0 {
		t.Fatalf("stop words only: got %v want 0", got)
	}
}

func TestScoreIdenticalTexts(t *testing.T) {
	text := "senior go developer with postgres redis and kubernetes experience"
	got := Score(text, text)
	if got != 100.0 {
		t.Fatalf("identical texts: got %v want 100", got)
	}
}

func TestScoreDisjointTexts(t *testing.T) {
	got := Score(
		"pastry chef croissant baking sourdough",
		"kernel driver embedded firmware verilog",
	)
	if got != 0.0 {
		t.Fatalf("disjoint texts: got %v want 0", got)
	}
}

func TestScoreBounds(t *testing.T) {
	resume := "python developer building django services on aws with postgres"
	jd := "looking for a python engineer, django and aws preferred"
	got := Score(resume, jd)
	if got <= 0 || got >= 100 {
		t.Fatalf("partial overlap: got %v, want a value strictly inside (0,100)", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	resume := "java spring boot microservices kafka"
	jd := "java engineer with kafka and spring experience"
	first := Score(resume, jd)
	for i := 0; i < 5; i++ {
		if got := Score(resume, jd); got != first {
			t.Fatalf("run %d: got %v want %v", i, got, first)
		}
	}
}

func TestScoreOrderSensitivity(t *testing.T) {
	// More shared vocabulary must not lower the score.
	resume := "go developer, docker, kubernetes, terraform"
	close := Score(resume, "go developer with docker and kubernetes")
	far := Score(resume, "go developer")
	if close < far {
		t.Fatalf("closer jd scored lower: close=%v far=%v", close, far)
	}
}
