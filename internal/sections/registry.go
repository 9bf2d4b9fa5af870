package sections

import (
	"fmt"
	"strings"
)

// Group lists the header phrases that open one canonical section.
type Group struct {
	Section string
	Phrases []string
}

// Registry holds header phrases in registration order and resolves a matched
// phrase to its canonical section. A phrase registered under several sections
// resolves to the last one.
type Registry struct {
	phrases  []string
	sections map[string]string
}

// NewRegistry builds a registry from groups. Blank phrases are skipped and
// repeated phrases keep their first position.
func NewRegistry(groups ...Group) (*Registry, error) {
	r := &Registry{sections: make(map[string]string)}

	for _, g := range groups {
		section := strings.TrimSpace(g.Section)
		if section == "" {
			return nil, fmt.Errorf("section name is required for phrases %v", g.Phrases)
		}
		for _, p := range g.Phrases {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			key := strings.ToLower(p)
			if _, seen := r.sections[key]; !seen {
				r.phrases = append(r.phrases, p)
			}
			r.sections[key] = section
		}
	}

	return r, nil
}

// Phrases returns the candidate list offered to the oracle.
func (r *Registry) Phrases() []string {
	out := make([]string, len(r.phrases))
	copy(out, r.phrases)
	return out
}

// Resolve maps a registered phrase to its section.
func (r *Registry) Resolve(phrase string) (string, bool) {
	section, ok := r.sections[strings.ToLower(strings.TrimSpace(phrase))]
	return section, ok
}

// Sections returns the distinct canonical sections in registration order.
func (r *Registry) Sections() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range r.phrases {
		s := r.sections[strings.ToLower(p)]
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func mustRegistry(groups ...Group) *Registry {
	r, err := NewRegistry(groups...)
	if err != nil {
		panic(err)
	}
	return r
}
