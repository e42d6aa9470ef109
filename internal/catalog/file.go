package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/smartmatch/internal/matching"
	"gopkg.in/yaml.v3"
)

// File is a catalog document. YAML and JSON are both accepted.
//
//	internships:
//	  - id: int-001
//	    title: Backend Intern
//	    company: Acme
//	    domain: Software Development
//	    application_deadline: "2026-12-01"
//	    requirements: {min_cgpa: 7, min_experience_years: 0, min_certifications: 1}
//	    importance: {domain: 1, cgpa: 0.8, experience: 0.5, certifications: 0.3}
type File struct {
	Internships []Entry `yaml:"internships" json:"internships"`
}

// entryNamespace seeds the IDs of entries that do not carry one.
var entryNamespace = uuid.MustParse("3b0f6a52-4c1e-5d7a-9e2b-8f1c6d4a0e57")

// Entry is a single internship of a catalog file.
type Entry struct {
	ID             string       `yaml:"id" json:"id"`
	Title          string       `yaml:"title" json:"title"`
	Company        string       `yaml:"company" json:"company"`
	Description    string       `yaml:"description" json:"description"`
	Domain         string       `yaml:"domain" json:"domain"`
	Location       string       `yaml:"location" json:"location"`
	DurationMonths int          `yaml:"duration_months" json:"duration_months"`
	Stipend        float64      `yaml:"stipend" json:"stipend"`
	Deadline       string       `yaml:"application_deadline" json:"application_deadline"`
	Active         *bool        `yaml:"active" json:"active"`
	Requirements   Requirements `yaml:"requirements" json:"requirements"`
	Importance     Importance   `yaml:"importance" json:"importance"`
}

type Requirements struct {
	MinCGPA            float64 `yaml:"min_cgpa" json:"min_cgpa"`
	MinExperienceYears float64 `yaml:"min_experience_years" json:"min_experience_years"`
	MinCertifications  float64 `yaml:"min_certifications" json:"min_certifications"`
}

// Importance holds the weights of an entry. Omitted weights default to 1.
type Importance struct {
	Domain         *float64 `yaml:"domain" json:"domain"`
	CGPA           *float64 `yaml:"cgpa" json:"cgpa"`
	Experience     *float64 `yaml:"experience" json:"experience"`
	Certifications *float64 `yaml:"certifications" json:"certifications"`
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every entry and reports all problems at once.
func (f *File) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(f.Internships))
	for i, e := range f.Internships {
		label := fmt.Sprintf("internships[%d]", i)
		if strings.TrimSpace(e.Title) == "" {
			errs = append(errs, fmt.Errorf("%s: title is required", label))
		}
		key := e.Key()
		if seen[key] {
			if e.ID != "" {
				errs = append(errs, fmt.Errorf("%s: duplicate id %q", label, e.ID))
			} else {
				errs = append(errs, fmt.Errorf("%s: duplicate entry %q at %q without an id", label, e.Title, e.Company))
			}
		}
		seen[key] = true
		r := e.Requirements
		if r.MinCGPA < 0 || r.MinExperienceYears < 0 || r.MinCertifications < 0 {
			errs = append(errs, fmt.Errorf("%s: requirements must be non-negative", label))
		}
		weights := []struct {
			name  string
			value *float64
		}{
			{"domain", e.Importance.Domain},
			{"cgpa", e.Importance.CGPA},
			{"experience", e.Importance.Experience},
			{"certifications", e.Importance.Certifications},
		}
		for _, w := range weights {
			if w.value != nil && *w.value < 0 {
				errs = append(errs, fmt.Errorf("%s: importance.%s must be non-negative", label, w.name))
			}
		}
		if e.Deadline != "" {
			if _, err := time.Parse(time.DateOnly, e.Deadline); err != nil {
				errs = append(errs, fmt.Errorf("%s: application_deadline must be YYYY-MM-DD", label))
			}
		}
	}
	return errors.Join(errs...)
}

// Key returns the entry's id, or for entries without one a UUIDv5 of the
// case-folded title and company. The same posting keeps its key across files
// and reorderings.
func (e Entry) Key() string {
	if e.ID != "" {
		return e.ID
	}
	name := strings.ToLower(strings.TrimSpace(e.Title)) + "|" + strings.ToLower(strings.TrimSpace(e.Company))
	return uuid.NewSHA1(entryNamespace, []byte(name)).String()
}

// Opportunities converts the active entries, keeping file order.
func (f *File) Opportunities() []matching.Opportunity {
	opps := make([]matching.Opportunity, 0, len(f.Internships))
	for _, e := range f.Internships {
		if e.Active != nil && !*e.Active {
			continue
		}
		opps = append(opps, e.opportunity())
	}
	return opps
}

func (e Entry) opportunity() matching.Opportunity {
	id := e.Key()
	var deadline *time.Time
	if d, err := time.Parse(time.DateOnly, e.Deadline); err == nil {
		deadline = &d
	}
	return matching.Opportunity{
		ID:             id,
		Title:          e.Title,
		Organization:   e.Company,
		Description:    e.Description,
		Location:       e.Location,
		DurationMonths: e.DurationMonths,
		Stipend:        e.Stipend,
		Deadline:       deadline,
		RequiredDomain: e.Domain,
		Thresholds: matching.Thresholds{
			MinGPA:                e.Requirements.MinCGPA,
			MinExperienceYears:    e.Requirements.MinExperienceYears,
			MinCertificationCount: e.Requirements.MinCertifications,
		},
		Weights: matching.Weights{
			Domain:         weightOrDefault(e.Importance.Domain),
			GPA:            weightOrDefault(e.Importance.CGPA),
			Experience:     weightOrDefault(e.Importance.Experience),
			Certifications: weightOrDefault(e.Importance.Certifications),
		},
	}
}

func weightOrDefault(w *float64) float64 {
	if w == nil {
		return 1
	}
	return *w
}

// FileProvider serves a catalog file.
type FileProvider struct {
	file *File
}

// NewFileProvider returns a Provider for f.
func NewFileProvider(f *File) *FileProvider {
	return &FileProvider{file: f}
}

// ActiveOpportunities returns the active entries of the file.
func (p *FileProvider) ActiveOpportunities(context.Context) ([]matching.Opportunity, error) {
	return p.file.Opportunities(), nil
}
