package catalog

import (
	"errors"
	"strings"
)

// Program is one study program listed on the portal. University is the display
// name of the offering institution; InstitutionID is the owning institution's
// user id and is the real foreign key. Seed programs predate registration and
// carry no InstitutionID.
type Program struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	University     string   `json:"university"`
	InstitutionID  string   `json:"institutionId,omitempty"`
	Location       string   `json:"location"`
	Discipline     string   `json:"discipline"`
	Degree         string   `json:"degree"`
	Duration       string   `json:"duration"`
	Tuition        string   `json:"tuition"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"imageUrl"`
	Deadline       string   `json:"deadline,omitempty"`
	Language       string   `json:"language,omitempty"`
	Requirements   []string `json:"requirements,omitempty"`
	ApplicationFee string   `json:"applicationFee,omitempty"`
	Scholarships   bool     `json:"scholarships"`
	Ranking        int      `json:"ranking,omitempty"`
}

// Country returns the first comma-delimited token of Location, the value the
// browse filter groups by.
func (p Program) Country() string {
	country, _, _ := strings.Cut(p.Location, ",")
	return strings.TrimSpace(country)
}

// ErrInvalidInput marks an Add call missing one of the caller-required fields.
var ErrInvalidInput = errors.New("catalog: invalid input")
