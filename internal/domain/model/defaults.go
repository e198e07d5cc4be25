package model

import "encoding/json"

// DefaultPortfolio returns the canonical default content. Every call returns
// a fresh value, so callers may mutate it freely.
func DefaultPortfolio() PortfolioData {
	return PortfolioData{
		Theme: ThemeConfig{
			PrimaryColor:    "#2563eb",
			SecondaryColor:  "#7c3aed",
			AccentColor:     "#f59e0b",
			BackgroundColor: "#ffffff",
			TextColor:       "#1f2937",
			FontFamily:      "Inter, system-ui, sans-serif",
		},
		Hero: Hero{
			Name:     "Your Name",
			Title:    "Software Engineer",
			Subtitle: "I build reliable systems and friendly interfaces.",
			CTAText:  "View my work",
			CTALink:  "#projects",
		},
		About: About{
			Title: "About Me",
			Bio:   "Write a short introduction about yourself, your background and what you enjoy working on.",
			Highlights: []string{
				"5+ years of professional experience",
				"Open source contributor",
				"Comfortable across the stack",
			},
		},
		Experience: []Experience{
			{
				ID:           "exp-1",
				Company:      "Example Corp",
				Position:     "Senior Engineer",
				Location:     "Remote",
				StartDate:    "2021-01",
				EndDate:      "Present",
				Description:  "Leading development of the core platform.",
				Achievements: []string{"Shipped the v2 API", "Mentored three engineers"},
			},
		},
		Projects: []Project{
			{
				ID:          "proj-1",
				Title:       "Sample Project",
				Description: "A short description of something you built.",
				Tags:        []string{"Go", "SQLite"},
				GitHubLink:  "https://github.com/username/sample",
				Featured:    true,
			},
		},
		Skills: []SkillCategory{
			{
				ID:       "skills-1",
				Category: "Backend",
				Skills: []Skill{
					{Name: "Go", Level: 90},
					{Name: "SQL", Level: 80},
				},
			},
			{
				ID:       "skills-2",
				Category: "Frontend",
				Skills: []Skill{
					{Name: "TypeScript", Level: 75},
					{Name: "CSS", Level: 70},
				},
			},
		},
		Blog: []BlogPost{
			{
				ID:       "post-1",
				Title:    "Hello, world",
				Excerpt:  "The first post on this site.",
				Content:  "Welcome to my site. More posts coming soon.",
				Date:     "2024-01-01",
				Tags:     []string{"meta"},
				ReadTime: "1 min read",
			},
		},
		Testimonials: []Testimonial{
			{
				ID:       "testimonial-1",
				Name:     "Jane Doe",
				Position: "Engineering Manager",
				Company:  "Example Corp",
				Content:  "A pleasure to work with.",
				Rating:   5,
			},
		},
		Contact: Contact{
			Title:    "Get in Touch",
			Subtitle: "Have a question or want to work together?",
			Email:    "hello@example.com",
			Social: []SocialLink{
				{Platform: "GitHub", URL: "https://github.com/username", Icon: "github"},
				{Platform: "LinkedIn", URL: "https://linkedin.com/in/username", Icon: "linkedin"},
			},
			FormEnabled: true,
		},
		SectionVisibility: AllVisible(),
	}
}

// seedPlaceholderKey marks the data.json shipped with the application before
// real content has been published.
const seedPlaceholderKey = "_placeholder"

// IsSeedPlaceholder reports whether raw is the placeholder seed document
// rather than real content.
func IsSeedPlaceholder(raw []byte) bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	marker, ok := doc[seedPlaceholderKey]
	if !ok {
		return false
	}
	var flag bool
	return json.Unmarshal(marker, &flag) == nil && flag
}
