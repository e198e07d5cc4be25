package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Section identifies one of the fixed site sections.
type Section string

const (
	SectionHero         Section = "hero"
	SectionAbout        Section = "about"
	SectionExperience   Section = "experience"
	SectionProjects     Section = "projects"
	SectionSkills       Section = "skills"
	SectionBlog         Section = "blog"
	SectionTestimonials Section = "testimonials"
	SectionContact      Section = "contact"
)

// Sections returns every section in page order.
func Sections() []Section {
	return []Section{
		SectionHero,
		SectionAbout,
		SectionExperience,
		SectionProjects,
		SectionSkills,
		SectionBlog,
		SectionTestimonials,
		SectionContact,
	}
}

// SectionVisibility records which sections are rendered. It always carries
// exactly one flag per Section; decoding rejects missing or unknown keys.
type SectionVisibility struct {
	Hero         bool `json:"hero"`
	About        bool `json:"about"`
	Experience   bool `json:"experience"`
	Projects     bool `json:"projects"`
	Skills       bool `json:"skills"`
	Blog         bool `json:"blog"`
	Testimonials bool `json:"testimonials"`
	Contact      bool `json:"contact"`
}

// AllVisible returns a SectionVisibility with every section shown.
func AllVisible() SectionVisibility {
	return SectionVisibility{
		Hero: true, About: true, Experience: true, Projects: true,
		Skills: true, Blog: true, Testimonials: true, Contact: true,
	}
}

// Get reports whether s is visible. Unknown sections are never visible.
func (v SectionVisibility) Get(s Section) bool {
	if f := v.field(s); f != nil {
		return *f
	}
	return false
}

// With returns a copy of v with the flag for s replaced.
func (v SectionVisibility) With(s Section, visible bool) (SectionVisibility, error) {
	f := v.field(s)
	if f == nil {
		return v, fmt.Errorf("unknown section %q", s)
	}
	*f = visible
	return v, nil
}

func (v *SectionVisibility) field(s Section) *bool {
	switch s {
	case SectionHero:
		return &v.Hero
	case SectionAbout:
		return &v.About
	case SectionExperience:
		return &v.Experience
	case SectionProjects:
		return &v.Projects
	case SectionSkills:
		return &v.Skills
	case SectionBlog:
		return &v.Blog
	case SectionTestimonials:
		return &v.Testimonials
	case SectionContact:
		return &v.Contact
	default:
		return nil
	}
}

// UnmarshalJSON decodes the visibility map, requiring exactly the eight
// section keys.
func (v *SectionVisibility) UnmarshalJSON(data []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("section visibility: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("section visibility: must be an object")
	}

	var missing, unknown []string
	var out SectionVisibility
	for _, s := range Sections() {
		visible, ok := raw[string(s)]
		if !ok {
			missing = append(missing, string(s))
			continue
		}
		*out.field(s) = visible
	}
	for key := range raw {
		if out.field(Section(key)) == nil {
			unknown = append(unknown, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("section visibility: missing keys %s", strings.Join(missing, ", "))
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("section visibility: unknown keys %s", strings.Join(unknown, ", "))
	}

	*v = out
	return nil
}
