package model

// PortfolioPatch is a partial update of PortfolioData. Nil fields are left
// untouched; non-nil fields replace the whole top-level value, nested objects
// included. Decoding a JSON object into a PortfolioPatch leaves absent keys nil.
type PortfolioPatch struct {
	Theme             *ThemeConfig       `json:"theme,omitempty"`
	Hero              *Hero              `json:"hero,omitempty"`
	About             *About             `json:"about,omitempty"`
	Experience        *[]Experience      `json:"experience,omitempty"`
	Projects          *[]Project         `json:"projects,omitempty"`
	Skills            *[]SkillCategory   `json:"skills,omitempty"`
	Blog              *[]BlogPost        `json:"blog,omitempty"`
	Testimonials      *[]Testimonial     `json:"testimonials,omitempty"`
	Contact           *Contact           `json:"contact,omitempty"`
	SectionVisibility *SectionVisibility `json:"sectionVisibility,omitempty"`
}

// FullPatch returns a patch that replaces every top-level field with the
// corresponding value from d.
func FullPatch(d PortfolioData) PortfolioPatch {
	d = d.Clone()
	return PortfolioPatch{
		Theme:             &d.Theme,
		Hero:              &d.Hero,
		About:             &d.About,
		Experience:        &d.Experience,
		Projects:          &d.Projects,
		Skills:            &d.Skills,
		Blog:              &d.Blog,
		Testimonials:      &d.Testimonials,
		Contact:           &d.Contact,
		SectionVisibility: &d.SectionVisibility,
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p PortfolioPatch) IsEmpty() bool {
	return p.Theme == nil && p.Hero == nil && p.About == nil &&
		p.Experience == nil && p.Projects == nil && p.Skills == nil &&
		p.Blog == nil && p.Testimonials == nil && p.Contact == nil &&
		p.SectionVisibility == nil
}

// Apply returns a copy of d with the patch merged in at top-level granularity.
// d is not modified.
func (p PortfolioPatch) Apply(d PortfolioData) PortfolioData {
	out := d.Clone()

	if p.Theme != nil {
		out.Theme = *p.Theme
	}
	if p.Hero != nil {
		out.Hero = *p.Hero
	}
	if p.About != nil {
		out.About = *p.About
	}
	if p.Experience != nil {
		out.Experience = *p.Experience
	}
	if p.Projects != nil {
		out.Projects = *p.Projects
	}
	if p.Skills != nil {
		out.Skills = *p.Skills
	}
	if p.Blog != nil {
		out.Blog = *p.Blog
	}
	if p.Testimonials != nil {
		out.Testimonials = *p.Testimonials
	}
	if p.Contact != nil {
		out.Contact = *p.Contact
	}
	if p.SectionVisibility != nil {
		out.SectionVisibility = *p.SectionVisibility
	}

	// Detach patch-supplied slices from the caller.
	return out.Clone()
}
