package llm

import (
	"strings"
	"testing"

	"github.com/avashisth/buddy-backend/internal/domain"
)

func TestMoodClosingPromptListsAllLabels(t *testing.T) {
	prompt := MoodClosingPrompt()
	for _, m := range domain.Moods {
		if !strings.Contains(prompt, `"`+string(m)+`"`) {
			t.Errorf("closing prompt missing label %q", m)
		}
	}
	if !strings.Contains(prompt, `"mood"`) || !strings.Contains(prompt, `"reason"`) {
		t.Error("closing prompt must request mood and reason fields")
	}
}

func TestFeasibilityPromptNumbersDescriptions(t *testing.T) {
	prompt := FeasibilityPrompt("autism", []string{"first job", "second job"})
	if !strings.Contains(prompt, "0. first job") || !strings.Contains(prompt, "1. second job") {
		t.Errorf("feasibility prompt should number descriptions from zero:\n%s", prompt)
	}
	if !strings.Contains(prompt, "autism") {
		t.Error("feasibility prompt should carry the disability descriptor")
	}
}

func TestTailorPromptCarriesProfile(t *testing.T) {
	p := &domain.Profile{
		Skills:  []string{"plating", "inventory"},
		Summary: "seasoned line cook",
		WorkExperience: []domain.WorkExperience{
			{Company: "Diner", Title: "Cook", Points: []string{"ran the grill"}},
		},
	}
	prompt := TailorPrompt("sous chef opening", p)
	for _, want := range []string{"sous chef opening", "plating", "ran the grill", `"work_experience"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("tailor prompt missing %q", want)
		}
	}
}
