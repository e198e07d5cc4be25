package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// portfolioKeys lists the top-level keys every PortfolioData document must carry.
var portfolioKeys = []string{
	"theme", "hero", "about", "experience", "projects",
	"skills", "blog", "testimonials", "contact", "sectionVisibility",
}

// DecodePortfolio parses raw as a PortfolioData document and validates it.
// Unknown fields, missing top-level keys and invalid entities are rejected with
// an error wrapping ErrInvalidPortfolio. Syntax errors are returned as-is so
// callers can tell malformed JSON from a wrong shape.
func DecodePortfolio(raw []byte) (PortfolioData, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return PortfolioData{}, err
		}
		return PortfolioData{}, fmt.Errorf("%w: %w", ErrInvalidPortfolio, err)
	}
	if top == nil {
		return PortfolioData{}, fmt.Errorf("%w: document must be an object", ErrInvalidPortfolio)
	}

	var missing []string
	for _, key := range portfolioKeys {
		if _, ok := top[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return PortfolioData{}, fmt.Errorf("%w: missing keys %s", ErrInvalidPortfolio, strings.Join(missing, ", "))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var data PortfolioData
	if err := dec.Decode(&data); err != nil {
		return PortfolioData{}, fmt.Errorf("%w: %w", ErrInvalidPortfolio, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return PortfolioData{}, fmt.Errorf("%w: trailing data after document", ErrInvalidPortfolio)
	}

	if err := data.Validate(); err != nil {
		return PortfolioData{}, err
	}

	return data, nil
}

// Validate checks the entity-level invariants: every list entity has a
// non-empty id unique within its list, skill levels lie in [0, 100] and
// testimonial ratings in [0, 5].
func (d PortfolioData) Validate() error {
	var problems []string

	checkIDs := func(list string, ids []string) {
		seen := make(map[string]struct{}, len(ids))
		for i, id := range ids {
			if strings.TrimSpace(id) == "" {
				problems = append(problems, fmt.Sprintf("%s[%d]: empty id", list, i))
				continue
			}
			if _, dup := seen[id]; dup {
				problems = append(problems, fmt.Sprintf("%s[%d]: duplicate id %q", list, i, id))
			}
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(d.Experience))
	for _, e := range d.Experience {
		ids = append(ids, e.ID)
	}
	checkIDs("experience", ids)

	ids = ids[:0]
	for _, p := range d.Projects {
		ids = append(ids, p.ID)
	}
	checkIDs("projects", ids)

	ids = ids[:0]
	for i, c := range d.Skills {
		ids = append(ids, c.ID)
		for j, s := range c.Skills {
			if s.Level < 0 || s.Level > 100 {
				problems = append(problems, fmt.Sprintf("skills[%d].skills[%d]: level %g out of range 0-100", i, j, s.Level))
			}
		}
	}
	checkIDs("skills", ids)

	ids = ids[:0]
	for _, b := range d.Blog {
		ids = append(ids, b.ID)
	}
	checkIDs("blog", ids)

	ids = ids[:0]
	for i, t := range d.Testimonials {
		ids = append(ids, t.ID)
		if t.Rating < 0 || t.Rating > 5 {
			problems = append(problems, fmt.Sprintf("testimonials[%d]: rating %g out of range 0-5", i, t.Rating))
		}
	}
	checkIDs("testimonials", ids)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPortfolio, strings.Join(problems, "; "))
	}
	return nil
}
