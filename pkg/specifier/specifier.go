// Package specifier implements the glob-specifier grammar: module
// references of the form "glob:<pattern>" or "glob[<tag>]:<pattern>".
//
// The tag is a free-form annotation interpreted by the resolver (for
// example selecting a file-path-list output shape); the grammar itself
// only carries it through.
package specifier

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultPrefix is the scheme prefix recognized out of the box.
const DefaultPrefix = "glob"

var prefixPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Specifier is a parsed glob module reference.
type Specifier struct {
	Raw     string // the full original specifier text
	Tag     string // annotation between brackets, empty when absent
	Pattern string // the glob expression after the colon
}

// Grammar recognizes and parses glob specifiers for one configured
// prefix.
type Grammar struct {
	prefix string
	re     *regexp.Regexp
}

// NewGrammar builds a Grammar for the given scheme prefix.
func NewGrammar(prefix string) (*Grammar, error) {
	if !prefixPattern.MatchString(prefix) {
		return nil, fmt.Errorf("invalid specifier prefix %q", prefix)
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(?:\[([^\]]*)\])?:(.+)$`)
	return &Grammar{prefix: prefix, re: re}, nil
}

// Default returns the Grammar for the standard "glob" prefix.
func Default() *Grammar {
	g, err := NewGrammar(DefaultPrefix)
	if err != nil {
		panic(err)
	}
	return g
}

// Prefix returns the configured scheme prefix.
func (g *Grammar) Prefix() string { return g.prefix }

// Match reports whether s is a glob specifier under this grammar.
func (g *Grammar) Match(s string) bool {
	return g.re.MatchString(s)
}

// Parse splits a glob specifier into its tag and pattern. The second
// return value is false when s does not satisfy the grammar.
func (g *Grammar) Parse(s string) (Specifier, bool) {
	m := g.re.FindStringSubmatch(s)
	if m == nil {
		return Specifier{}, false
	}
	return Specifier{Raw: s, Tag: m[1], Pattern: m[2]}, true
}

// HasCandidate reports whether text contains any substring that could
// begin a glob specifier. It is a cheap pre-check that lets callers
// skip lexing entirely; a positive result says nothing about whether a
// grammar-level match exists.
func (g *Grammar) HasCandidate(text string) bool {
	return strings.Contains(text, g.prefix+":") || strings.Contains(text, g.prefix+"[")
}
