package safety

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher decides whether a raw ingredient line contains a restriction term.
type Matcher interface {
	Matches(ingredient, term string) bool
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(ingredient, term string) bool

func (f MatcherFunc) Matches(ingredient, term string) bool {
	return f(ingredient, term)
}

// SubstringMatcher matches when the case-folded term is contained in the
// case-folded ingredient. Blank terms never match.
type SubstringMatcher struct{}

func (SubstringMatcher) Matches(ingredient, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	// cases.Caser is stateful, so each call gets its own.
	return strings.Contains(cases.Fold().String(ingredient), cases.Fold().String(term))
}

// DefaultMatcher is the matcher used when none is configured.
var DefaultMatcher Matcher = SubstringMatcher{}
