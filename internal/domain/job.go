package domain

import (
	"strings"
)

// Highlight is a free-text section of a job posting, e.g. "Qualifications"
// with its bullet items.
type Highlight struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Listing is a single job posting retrieved from an external job source,
// augmented in place with a computed similarity score.
type Listing struct {
	Title       string      `json:"title"`
	CompanyName string      `json:"company_name"`
	Location    string      `json:"location"`
	Via         string      `json:"via,omitempty"`
	Description string      `json:"description,omitempty"`
	Highlights  []Highlight `json:"job_highlights"`

	// Score is the dot product of the posting's description embedding with
	// the user's summary embedding, or the sentinel low score when the
	// posting was rejected by the accommodation filter.
	Score float64 `json:"user_sim_score"`
}

// DescriptionText flattens the highlight sections into a single description
// string: each section's title followed by its items, one per line.
func (l *Listing) DescriptionText() string {
	var b strings.Builder
	for _, h := range l.Highlights {
		if len(h.Items) == 0 {
			continue
		}
		b.WriteString(h.Title)
		b.WriteString(": ")
		b.WriteString(strings.Join(h.Items, "\n"))
		b.WriteString("\n\n")
	}
	if b.Len() == 0 {
		return l.Description
	}
	return b.String()
}
