// Package gate decides whether a question is in scope by plain substring
// matching against a fixed set of identifiers. It does not tokenize and
// does not look at document content.
package gate

import "strings"

type Gate struct {
	identifiers []string
}

// New builds a gate for identifiers. Identifiers are lower-cased, empty ones
// are dropped and duplicates keep their first position.
func New(identifiers ...string) *Gate {
	seen := make(map[string]bool, len(identifiers))
	g := &Gate{identifiers: make([]string, 0, len(identifiers))}

	for _, id := range identifiers {
		id = strings.ToLower(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		g.identifiers = append(g.identifiers, id)
	}
	return g
}

func (g *Gate) Identifiers() []string {
	out := make([]string, len(g.identifiers))
	copy(out, g.identifiers)
	return out
}

// Match returns the identifiers contained in the lower-cased question.
func (g *Gate) Match(question string) []string {
	q := strings.ToLower(question)

	var matched []string
	for _, id := range g.identifiers {
		if strings.Contains(q, id) {
			matched = append(matched, id)
		}
	}
	return matched
}

func (g *Gate) Relevant(question string) bool {
	return len(g.Match(question)) > 0
}
