package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avashisth/buddy-backend/internal/domain"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Complete(context.Context, []domain.ChatMessage) (string, error) {
	return f.reply, f.err
}

func (f *fakeLLM) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("not used")
}

func testProfile() *domain.Profile {
	return &domain.Profile{
		ID:                "emp-1",
		Name:              "Jordan Pace",
		CurrentOccupation: "barista",
		Disability:        "low vision",
		Skills:            []string{"customer service", "espresso"},
		Summary:           "Friendly barista with three years of experience.",
		State:             "GA",
		Country:           "USA",
		WorkExperience: []domain.WorkExperience{
			{Company: "Corner Cafe", Title: "Barista", Period: "2022-2025", Points: []string{"served customers", "managed inventory"}},
			{Company: "Book Nook", Title: "Clerk", Period: "2020-2022", Points: []string{"shelved stock"}},
		},
	}
}

func TestTailorProfileAppliesResult(t *testing.T) {
	client := &fakeLLM{reply: `{
		"summary": "Detail-oriented barista seeking a cafe lead role.",
		"skills": ["latte art", "team leadership"],
		"work_experience": [["led morning rush service"], ["organised weekly stock counts"]]
	}`}

	p := testProfile()
	got, err := NewTailor(client).TailorProfile(context.Background(), p, "Cafe lead wanted")
	if err != nil {
		t.Fatalf("TailorProfile failed: %v", err)
	}

	if got.Summary != "Detail-oriented barista seeking a cafe lead role." {
		t.Errorf("summary not applied: %q", got.Summary)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "latte art" {
		t.Errorf("skills not applied: %v", got.Skills)
	}
	if got.WorkExperience[0].Points[0] != "led morning rush service" {
		t.Errorf("first job points not applied: %v", got.WorkExperience[0].Points)
	}
	if got.WorkExperience[1].Company != "Book Nook" {
		t.Errorf("job identity lost: %+v", got.WorkExperience[1])
	}

	// The input profile must be untouched.
	if p.Summary != "Friendly barista with three years of experience." {
		t.Errorf("input profile mutated: %q", p.Summary)
	}
	if p.WorkExperience[0].Points[0] != "served customers" {
		t.Errorf("input profile points mutated: %v", p.WorkExperience[0].Points)
	}
}

func TestTailorProfileFencedReply(t *testing.T) {
	client := &fakeLLM{reply: "```json\n{\"summary\": \"s\", \"skills\": [\"a\"], \"work_experience\": [[\"x\"], [\"y\"]]}\n```"}

	got, err := NewTailor(client).TailorProfile(context.Background(), testProfile(), "jd")
	if err != nil {
		t.Fatalf("TailorProfile failed: %v", err)
	}
	if got.Summary != "s" {
		t.Errorf("summary = %q", got.Summary)
	}
}

func TestTailorProfileRejectsMalformedReplies(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  error
	}{
		{"not json", "sure, here is the resume", domain.ErrMalformedInferenceResult},
		{"extra field", `{"summary": "s", "skills": ["a"], "work_experience": [["x"], ["y"]], "note": "hi"}`, domain.ErrMalformedInferenceResult},
		{"empty summary", `{"summary": "", "skills": ["a"], "work_experience": [["x"], ["y"]]}`, domain.ErrMalformedInferenceResult},
		{"trailing content", `{"summary": "s", "skills": ["a"], "work_experience": [["x"], ["y"]]} done`, domain.ErrMalformedInferenceResult},
		{"wrong job count", `{"summary": "s", "skills": ["a"], "work_experience": [["x"]]}`, domain.ErrContractViolation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTailor(&fakeLLM{reply: tc.reply}).TailorProfile(context.Background(), testProfile(), "jd")
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRenderIncludesSections(t *testing.T) {
	doc, err := Render(testProfile())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	text := string(doc)
	for _, want := range []string{
		"# Jordan Pace",
		"GA, USA",
		"## Skills",
		"- espresso",
		"### Barista, Corner Cafe (2022-2025)",
		"- shelved stock",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered resume missing %q:\n%s", want, text)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(filepath.Join(dir, "out"), testProfile())
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if filepath.Base(path) != "emp-1_resume.md" {
		t.Errorf("unexpected file name %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("resume not written: %v", err)
	}
}
