package model

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// PortfolioData is the aggregate root holding all site content and the
// section visibility flags. JSON field names match the published data.json so
// blobs written by earlier versions of the site decode unchanged.
type PortfolioData struct {
	Theme             ThemeConfig       `json:"theme"`
	Hero              Hero              `json:"hero"`
	About             About             `json:"about"`
	Experience        []Experience      `json:"experience"`
	Projects          []Project         `json:"projects"`
	Skills            []SkillCategory   `json:"skills"`
	Blog              []BlogPost        `json:"blog"`
	Testimonials      []Testimonial     `json:"testimonials"`
	Contact           Contact           `json:"contact"`
	SectionVisibility SectionVisibility `json:"sectionVisibility"`
}

// ThemeConfig holds the site colour palette and font.
type ThemeConfig struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	FontFamily      string `json:"fontFamily"`
}

// Hero is the landing banner.
type Hero struct {
	Name            string `json:"name"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	CTAText         string `json:"ctaText"`
	CTALink         string `json:"ctaLink"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

// About is the biography section.
type About struct {
	Title      string   `json:"title"`
	Bio        string   `json:"bio"`
	Image      string   `json:"image,omitempty"`
	ResumeLink string   `json:"resumeLink,omitempty"`
	Highlights []string `json:"highlights"`
}

// Experience is a single position held.
type Experience struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Logo         string   `json:"logo,omitempty"`
}

// Project is a showcased piece of work.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags"`
	DemoLink    string   `json:"demoLink,omitempty"`
	GitHubLink  string   `json:"githubLink,omitempty"`
	Featured    bool     `json:"featured"`
}

// SkillCategory groups skills under a heading, in display order.
type SkillCategory struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Skills   []Skill `json:"skills"`
}

// Skill is a named proficiency. Level ranges from 0 to 100.
type Skill struct {
	Name  string  `json:"name"`
	Level float64 `json:"level"`
	Icon  string  `json:"icon,omitempty"`
}

// BlogPost is a single article.
type BlogPost struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	Image    string   `json:"image,omitempty"`
	ReadTime string   `json:"readTime"`
}

// Testimonial is a quote from a colleague or client. Rating ranges from 0 to 5.
type Testimonial struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Company  string  `json:"company"`
	Content  string  `json:"content"`
	Image    string  `json:"image,omitempty"`
	Rating   float64 `json:"rating"`
}

// Contact holds contact details and social links.
type Contact struct {
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Social      []SocialLink `json:"social"`
	FormEnabled bool         `json:"formEnabled"`
}

// SocialLink is a profile on an external network.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

// NewEntityID returns a fresh identifier for a list entity (experience,
// project, skill category, blog post, testimonial).
func NewEntityID() string {
	return uuid.NewString()
}

// WithEntityIDs returns a copy of d in which every list entity with a blank id
// has been given a NewEntityID, along with the number of ids assigned.
func (d PortfolioData) WithEntityIDs() (PortfolioData, int) {
	out := d.Clone()
	assigned := 0
	fill := func(id *string) {
		if strings.TrimSpace(*id) == "" {
			*id = NewEntityID()
			assigned++
		}
	}

	for i := range out.Experience {
		fill(&out.Experience[i].ID)
	}
	for i := range out.Projects {
		fill(&out.Projects[i].ID)
	}
	for i := range out.Skills {
		fill(&out.Skills[i].ID)
	}
	for i := range out.Blog {
		fill(&out.Blog[i].ID)
	}
	for i := range out.Testimonials {
		fill(&out.Testimonials[i].ID)
	}
	return out, assigned
}

// Clone returns a deep copy of d. Slices in the copy never alias d.
func (d PortfolioData) Clone() PortfolioData {
	out := d
	out.About.Highlights = slices.Clone(d.About.Highlights)

	if d.Experience != nil {
		out.Experience = make([]Experience, len(d.Experience))
		for i, e := range d.Experience {
			e.Achievements = slices.Clone(e.Achievements)
			out.Experience[i] = e
		}
	}

	if d.Projects != nil {
		out.Projects = make([]Project, len(d.Projects))
		for i, p := range d.Projects {
			p.Tags = slices.Clone(p.Tags)
			out.Projects[i] = p
		}
	}

	if d.Skills != nil {
		out.Skills = make([]SkillCategory, len(d.Skills))
		for i, c := range d.Skills {
			c.Skills = slices.Clone(c.Skills)
			out.Skills[i] = c
		}
	}

	if d.Blog != nil {
		out.Blog = make([]BlogPost, len(d.Blog))
		for i, b := range d.Blog {
			b.Tags = slices.Clone(b.Tags)
			out.Blog[i] = b
		}
	}

	out.Testimonials = slices.Clone(d.Testimonials)
	out.Contact.Social = slices.Clone(d.Contact.Social)

	return out
}
