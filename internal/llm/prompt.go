package llm

import (
	"fmt"
	"strings"

	"github.com/avashisth/buddy-backend/internal/domain"
)

// SystemPrompt is the instruction installed at index 0 of every employee
// session. Profile context is spliced onto it once, on the first real turn.
const SystemPrompt = `You are an empathetic and supportive assistant engaging in natural conversation with an employee.
Your primary goal is to provide a comforting and uplifting interaction while subtly gathering insight into their emotional state after work.

Approach:
Ease into conversations organically, discussing their work, interests, or routine to make them feel comfortable.
Offer encouragement and validation, creating a safe space for them to express themselves naturally.
Pay close attention to tone, word choices, and responses to infer their emotional state.
Identify any specific events or interactions that may have influenced their mood without directly asking about their feelings.
Respond with empathy and, when appropriate, cheer them up with positive reinforcement, ensuring they feel heard and supported while allowing their emotions to surface naturally.
Don't ask too many questions if you feel the responses are not engaging.`

// Greeting is the fixed assistant opener for a fresh session.
const Greeting = "Hey buddy, how are you today?"

// MoodClosingPrompt is appended to an ended session's history to request the
// two-field inference result.
func MoodClosingPrompt() string {
	labels := make([]string, len(domain.Moods))
	for i, m := range domain.Moods {
		labels[i] = fmt.Sprintf("%q", string(m))
	}
	return fmt.Sprintf(`Please analyse the above conversation and pick a mood from [%s].
Return exactly one JSON object with two fields and no surrounding text:
{"mood": <the chosen label>, "reason": <relevant reason from the conversation>}`, strings.Join(labels, ", "))
}

// FeasibilityPrompt asks the model which postings the user could perform with
// reasonable accommodation, as a bare JSON array of zero-based indices.
func FeasibilityPrompt(disability string, descriptions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is a person with disability %s. ", disability)
	b.WriteString("You will be given job descriptions in the form of a numbered list. ")
	b.WriteString("Review each description and decide whether the person can perform the described job with a reasonable accommodation. ")
	b.WriteString("Return the zero-based indices of all such jobs as a JSON array of integers and no surrounding text, e.g. [1, 3, 5].\n\n")
	for i, d := range descriptions {
		fmt.Fprintf(&b, "%d. %s\n", i, d)
	}
	return b.String()
}

// EmployeeSummaryPrompt asks for a summary of skills and work history, used
// when a new employee signs up.
func EmployeeSummaryPrompt(skills, workHistory string) string {
	return fmt.Sprintf("Summarise the below skills and work experience of an employee.\nHere are the skills: %s\nHere is the work experience: %s", skills, workHistory)
}

// ResumeSummaryPrompt asks for a short resume summary for a profile.
func ResumeSummaryPrompt(p *domain.Profile) string {
	var jobs []string
	for _, w := range p.WorkExperience {
		jobs = append(jobs, fmt.Sprintf("%s at %s: %s", w.Title, w.Company, strings.Join(w.Points, "; ")))
	}
	return fmt.Sprintf("Provide a two to three line summary based on the below details for a resume.\nSkills: %s\nWork experience: %s\nCurrent summary: %s",
		strings.Join(p.Skills, ", "), strings.Join(jobs, "\n"), p.Summary)
}

// TailorPrompt asks the model to tailor a profile to a job description. The
// reply must be a single JSON object so it can be parsed strictly.
func TailorPrompt(jobDescription string, p *domain.Profile) string {
	var jobs []string
	for _, w := range p.WorkExperience {
		jobs = append(jobs, fmt.Sprintf("%s at %s: %s", w.Title, w.Company, strings.Join(w.Points, "; ")))
	}
	return fmt.Sprintf(`Here is a job description: %s
Here is a user profile:
Skills: %s
Work experience: %s
Summary: %s

Tailor the resume to the job description. Make sure it is curated, not generic.
Return exactly one JSON object and no surrounding text, shaped like:
{"summary": <tailored summary>, "skills": [<skill>, ...], "work_experience": [[<job 1 point>, ...], [<job 2 point>, ...]]}
The outer work_experience array must contain one inner array per job, in the same order as the profile.`,
		jobDescription, strings.Join(p.Skills, ", "), strings.Join(jobs, "\n"), p.Summary)
}
