// Package scanner locates import/export declarations whose module
// specifier is a glob expression.
//
// The scanner lexes the file's text rather than pattern-matching raw
// bytes: comments, string literals, template literals, and regex
// literals are skipped, so glob-like text inside them can never
// produce a match. Four declaration shapes are recognized, all of them
// valid only at module top level:
//
//	import ... from "spec"        (including bare `import "spec"`)
//	export { ... } from "spec"
//	export default from "spec"
//	export * from "spec"
//
// Matches are produced in strictly ascending offset order; callers
// rely on that for single-pass splicing.
package scanner

import (
	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/logging"
	"github.com/globmod/globmod/pkg/specifier"
	"github.com/globmod/globmod/pkg/types"
	"github.com/rs/zerolog"
)

// Scanner finds glob-specifier declarations in module source text.
type Scanner struct {
	grammar *specifier.Grammar
	logger  zerolog.Logger
}

// New creates a Scanner for the given specifier grammar.
func New(grammar *specifier.Grammar) *Scanner {
	return &Scanner{
		grammar: grammar,
		logger:  logging.GetLogger("scanner"),
	}
}

// Scan returns one Match per import/export declaration whose specifier
// satisfies the glob grammar, ordered by ascending start offset. Files
// containing no candidate substring are never lexed. A lexical error
// (unterminated string, comment, or template) fails the whole scan.
func (s *Scanner) Scan(text string) ([]types.Match, error) {
	if !s.grammar.HasCandidate(text) {
		return nil, nil
	}

	l := &lexer{src: text, grammar: s.grammar}
	if err := l.run(); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("matches", len(l.matches)).
		Int("bytes", len(text)).
		Msg("Scan complete")

	return l.matches, nil
}

// lexer walks the source text once, tracking enough lexical state to
// tell declarations apart from comment and literal text.
type lexer struct {
	src      string
	pos      int
	depth    int    // curly-brace nesting; declarations only match at depth 0
	prev     byte   // last significant (non-trivia) byte consumed
	prevWord string // last identifier/keyword consumed, reset by any other token
	grammar  *specifier.Grammar
	matches  []types.Match
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '/':
			if err := l.slash(); err != nil {
				return err
			}
		case c == '\'' || c == '"':
			if _, _, err := l.skipString(c); err != nil {
				return err
			}
		case c == '`':
			if err := l.skipTemplate(); err != nil {
				return err
			}
		case c == '{':
			l.depth++
			l.advance()
		case c == '}':
			if l.depth > 0 {
				l.depth--
			}
			l.advance()
		case isIdentStart(c):
			prev := l.prev
			word := l.readWord()
			l.prev = word[len(word)-1]
			l.prevWord = word
			if l.depth == 0 && prev != '.' {
				switch word {
				case "import":
					if err := l.scanImport(); err != nil {
						return err
					}
				case "export":
					if err := l.scanExport(); err != nil {
						return err
					}
				}
			}
		default:
			l.advance()
		}
	}
	return nil
}

// advance consumes one significant byte.
func (l *lexer) advance() {
	if !isSpace(l.src[l.pos]) {
		l.prev = l.src[l.pos]
		l.prevWord = ""
	}
	l.pos++
}

// slash handles '/', which begins a comment, a regex literal, or is a
// plain division operator.
func (l *lexer) slash() error {
	if l.pos+1 < len(l.src) {
		switch l.src[l.pos+1] {
		case '/':
			l.skipLineComment()
			return nil
		case '*':
			return l.skipBlockComment()
		}
	}
	if l.regexPossible() {
		return l.skipRegex()
	}
	l.advance()
	return nil
}

// regexPossible reports whether a '/' at the current position can begin
// a regex literal. After an operand (identifier, literal, closing
// bracket) a '/' is division; after an operator or a keyword that
// expects an expression it is a regex.
func (l *lexer) regexPossible() bool {
	switch l.prev {
	case 0, '=', '(', ',', ':', '[', '!', '&', '|', '?', '{', '}', ';', '\n', '+', '-', '*', '%', '<', '>':
		return true
	}
	switch l.prevWord {
	case "return", "typeof", "case", "do", "else", "in", "of", "void",
		"delete", "instanceof", "new", "throw", "yield":
		return true
	}
	return false
}

func (l *lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) skipBlockComment() error {
	start := l.pos
	l.pos += 2
	for l.pos+1 < len(l.src) {
		if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
			l.pos += 2
			return nil
		}
		l.pos++
	}
	return errors.Newf(errors.ErrParse, "unterminated block comment at offset %d", start)
}

func (l *lexer) skipRegex() error {
	start := l.pos
	l.pos++ // opening slash
	inClass := false
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				l.pos++
				// trailing flags
				for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
					l.pos++
				}
				l.prev = ')' // treat like a completed operand
				l.prevWord = ""
				return nil
			}
		case '\n':
			return errors.Newf(errors.ErrParse, "unterminated regular expression at offset %d", start)
		}
		l.pos++
	}
	return errors.Newf(errors.ErrParse, "unterminated regular expression at offset %d", start)
}

// skipString consumes a single- or double-quoted string literal and
// returns the span including both quotes.
func (l *lexer) skipString(quote byte) (start, end int, err error) {
	start = l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case quote:
			l.pos++
			l.prev = quote
			l.prevWord = ""
			return start, l.pos, nil
		case '\n', '\r':
			return 0, 0, errors.Newf(errors.ErrParse, "unterminated string literal at offset %d", start)
		}
		l.pos++
	}
	return 0, 0, errors.Newf(errors.ErrParse, "unterminated string literal at offset %d", start)
}

func (l *lexer) skipTemplate() error {
	start := l.pos
	l.pos++ // opening backtick
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case '`':
			l.pos++
			l.prev = '`'
			l.prevWord = ""
			return nil
		case '$':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '{' {
				l.pos += 2
				if err := l.skipSubstitution(); err != nil {
					return err
				}
			} else {
				l.pos++
			}
		default:
			l.pos++
		}
	}
	return errors.Newf(errors.ErrParse, "unterminated template literal at offset %d", start)
}

// skipSubstitution consumes a ${...} template substitution body
// through its matching closing brace, including any nested literals.
func (l *lexer) skipSubstitution() error {
	depth := 1
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; c {
		case '\'', '"':
			if _, _, err := l.skipString(c); err != nil {
				return err
			}
		case '`':
			if err := l.skipTemplate(); err != nil {
				return err
			}
		case '/':
			if err := l.slash(); err != nil {
				return err
			}
		case '{':
			depth++
			l.pos++
		case '}':
			depth--
			l.pos++
			if depth == 0 {
				return nil
			}
		default:
			l.pos++
		}
	}
	return errors.New(errors.ErrParse, "unterminated template substitution")
}

func (l *lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

// skipTrivia consumes whitespace and comments between declaration
// tokens.
func (l *lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			l.skipLineComment()
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// scanImport runs with the "import" keyword already consumed. It walks
// the import clause to the specifier string, or backs off for forms
// that are not static import declarations (dynamic import calls and
// import.meta).
func (l *lexer) scanImport() error {
	if err := l.skipTrivia(); err != nil {
		return err
	}
	if l.pos >= len(l.src) {
		return errors.New(errors.ErrParse, "unexpected end of file in import declaration")
	}

	switch c := l.src[l.pos]; c {
	case '(', '.':
		// dynamic import() or import.meta; handled as plain expression text
		return nil
	case '\'', '"':
		// side-effect import: import "spec"
		return l.specifierLiteral(c)
	}

	// import clause: default binding, namespace, named list, or a
	// combination, then `from`.
	for l.pos < len(l.src) {
		if err := l.skipTrivia(); err != nil {
			return err
		}
		if l.pos >= len(l.src) {
			break
		}
		switch c := l.src[l.pos]; {
		case c == '{':
			if err := l.skipBracedList(); err != nil {
				return err
			}
		case c == ',' || c == '*':
			l.pos++
		case c == '\'' || c == '"':
			// `from` elided is invalid, but a string here is
			// unambiguous enough to lex through
			return l.specifierLiteral(c)
		case isIdentStart(c):
			word := l.readWord()
			if word == "from" {
				if err := l.skipTrivia(); err != nil {
					return err
				}
				if l.pos >= len(l.src) || (l.src[l.pos] != '\'' && l.src[l.pos] != '"') {
					return errors.Newf(errors.ErrParse, "expected module specifier after 'from' at offset %d", l.pos)
				}
				return l.specifierLiteral(l.src[l.pos])
			}
		default:
			// not a shape this scanner understands (e.g. TypeScript
			// `import x = require(...)`); leave the rest to the host
			return nil
		}
	}
	return errors.New(errors.ErrParse, "unexpected end of file in import declaration")
}

// scanExport runs with the "export" keyword already consumed. Only the
// re-export forms carry a module specifier; everything else is left to
// the main loop.
func (l *lexer) scanExport() error {
	if err := l.skipTrivia(); err != nil {
		return err
	}
	if l.pos >= len(l.src) {
		return nil
	}

	switch c := l.src[l.pos]; {
	case c == '*':
		// export * from "spec"  |  export * as ns from "spec"
		l.pos++
		return l.expectFromClause()
	case c == '{':
		if err := l.skipBracedList(); err != nil {
			return err
		}
		return l.optionalFromClause()
	case isIdentStart(c):
		save := l.pos
		if l.readWord() == "default" {
			// export default from "spec" re-export form; any other
			// token after `default` is an ordinary default export
			return l.optionalFromClause()
		}
		l.pos = save
		return nil
	}
	return nil
}

// skipBracedList consumes a `{ ... }` import/export name list,
// including string-named bindings such as `{ "dash-name" as x }`.
func (l *lexer) skipBracedList() error {
	start := l.pos
	l.pos++ // opening brace
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; c {
		case '}':
			l.pos++
			return nil
		case '\'', '"':
			if _, _, err := l.skipString(c); err != nil {
				return err
			}
		default:
			l.pos++
		}
	}
	return errors.Newf(errors.ErrParse, "unterminated binding list at offset %d", start)
}

// expectFromClause requires `[as ns] from "spec"` to follow.
func (l *lexer) expectFromClause() error {
	for l.pos < len(l.src) {
		if err := l.skipTrivia(); err != nil {
			return err
		}
		if l.pos >= len(l.src) {
			break
		}
		if !isIdentStart(l.src[l.pos]) {
			return errors.Newf(errors.ErrParse, "expected 'from' clause at offset %d", l.pos)
		}
		word := l.readWord()
		if word == "from" {
			if err := l.skipTrivia(); err != nil {
				return err
			}
			if l.pos >= len(l.src) || (l.src[l.pos] != '\'' && l.src[l.pos] != '"') {
				return errors.Newf(errors.ErrParse, "expected module specifier after 'from' at offset %d", l.pos)
			}
			return l.specifierLiteral(l.src[l.pos])
		}
		// `as` and its alias identifier
	}
	return errors.New(errors.ErrParse, "unexpected end of file in export declaration")
}

// optionalFromClause consumes `from "spec"` when present; otherwise it
// restores position and lets the main loop continue.
func (l *lexer) optionalFromClause() error {
	save := l.pos
	if err := l.skipTrivia(); err != nil {
		return err
	}
	if l.pos < len(l.src) && isIdentStart(l.src[l.pos]) {
		word := l.readWord()
		if word == "from" {
			if err := l.skipTrivia(); err != nil {
				return err
			}
			if l.pos >= len(l.src) || (l.src[l.pos] != '\'' && l.src[l.pos] != '"') {
				return errors.Newf(errors.ErrParse, "expected module specifier after 'from' at offset %d", l.pos)
			}
			return l.specifierLiteral(l.src[l.pos])
		}
	}
	l.pos = save
	return nil
}

// specifierLiteral consumes the quoted specifier and records a Match
// when the text between the quotes satisfies the glob grammar.
func (l *lexer) specifierLiteral(quote byte) error {
	start, end, err := l.skipString(quote)
	if err != nil {
		return err
	}
	source := l.src[start+1 : end-1]
	if l.grammar.Match(source) {
		l.matches = append(l.matches, types.Match{Start: start, End: end, Source: source})
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
