package domain

import (
	"fmt"
	"strings"
	"time"
)

// WorkExperience is one position in an employee's work history.
type WorkExperience struct {
	Company string   `json:"company" firestore:"company"`
	Title   string   `json:"title" firestore:"title"`
	Period  string   `json:"period,omitempty" firestore:"period"`
	Points  []string `json:"points" firestore:"points"`
}

// Profile is the per-employee record kept in the document store. It is read
// at session start to personalize the system prompt and by the job ranker for
// the comparison summary.
type Profile struct {
	ID                string           `json:"id" firestore:"id"`
	Name              string           `json:"name" firestore:"name"`
	CurrentOccupation string           `json:"current_occupation" firestore:"current_occupation"`
	Disability        string           `json:"disability" firestore:"disability"`
	Skills            []string         `json:"skills" firestore:"skills"`
	WorkExperience    []WorkExperience `json:"work_experience" firestore:"work_experience"`
	Summary           string           `json:"summary" firestore:"summary"`
	State             string           `json:"state,omitempty" firestore:"state"`
	Country           string           `json:"country,omitempty" firestore:"country"`
	Phone             string           `json:"phone,omitempty" firestore:"phone"`
	UpdatedAt         time.Time        `json:"updated_at" firestore:"updated_at"`
}

// Context returns the one-line profile summary spliced into the system
// instruction on the first real turn.
func (p *Profile) Context() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s", p.Name, p.CurrentOccupation)
	if p.Disability != "" {
		fmt.Fprintf(&b, " with %s", p.Disability)
	}
	b.WriteString(".")
	return b.String()
}

// Employee is the relational record created on login.
type Employee struct {
	ID          int64     `json:"id,omitempty"`
	Name        string    `json:"Name"`
	Role        string    `json:"Role"`
	Skills      string    `json:"Skills"`
	WorkHistory string    `json:"WorkHistory"`
	Summary     string    `json:"summary,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
