// Package analyzer provides text analysis for query preparation. The
// default English policy lower-cases input, splits on non-alphanumeric
// boundaries, removes stop-words, and applies a simple suffix-based stemmer.
package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnsupportedPolicy is returned by New when a Policy cannot be honoured.
var ErrUnsupportedPolicy = errors.New("unsupported analyzer policy")

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {},
}

// suffixRules are tried in order; the first rule whose result keeps at least
// minLen bytes wins.
var suffixRules = []struct {
	suffix      string
	replacement string
	minLen      int
}{
	{"ational", "ate", 2},
	{"tional", "tion", 2},
	{"encies", "ence", 2},
	{"ances", "ance", 2},
	{"ments", "ment", 2},
	{"izing", "ize", 2},
	{"ating", "ate", 2},
	{"iness", "y", 2},
	{"ously", "ous", 2},
	{"ively", "ive", 2},
	{"eness", "ene", 2},
	{"tion", "t", 3},
	{"sion", "s", 3},
	{"ying", "y", 2},
	{"ling", "l", 3},
	{"ies", "y", 2},
	{"ing", "", 3},
	{"ers", "er", 2},
	{"est", "", 3},
	{"ful", "", 3},
	{"ous", "", 3},
	{"ess", "", 3},
	{"ble", "", 3},
	{"ed", "", 3},
	{"er", "", 3},
	{"ly", "", 3},
	{"es", "", 3},
	{"ss", "ss", 2},
	{"s", "", 3},
}

// Policy selects how text is normalised.
type Policy struct {
	Language       string
	Lowercase      bool
	StopWords      bool
	Stemming       bool
	MinTokenLength int
}

// DefaultPolicy is the English policy used when callers supply nothing.
func DefaultPolicy() Policy {
	return Policy{
		Language:       "english",
		Lowercase:      true,
		StopWords:      true,
		Stemming:       true,
		MinTokenLength: 2,
	}
}

// Token represents a single normalised term and its position in the
// analyzed token stream.
type Token struct {
	Term     string
	Position int
}

// Analyzer applies a fixed Policy. It holds no mutable state and is safe for
// concurrent use.
type Analyzer struct {
	policy Policy
}

// New validates the policy and returns an Analyzer for it.
func New(policy Policy) (*Analyzer, error) {
	switch strings.ToLower(policy.Language) {
	case "", "en", "english":
		policy.Language = "english"
	default:
		return nil, fmt.Errorf("%w: language %q", ErrUnsupportedPolicy, policy.Language)
	}
	if policy.MinTokenLength < 0 {
		return nil, fmt.Errorf("%w: minimum token length %d", ErrUnsupportedPolicy, policy.MinTokenLength)
	}
	return &Analyzer{policy: policy}, nil
}

// Policy returns the normalised policy the analyzer runs with.
func (a *Analyzer) Policy() Policy {
	return a.policy
}

// Analyze returns the normalised terms of text in the order they occur.
func (a *Analyzer) Analyze(text string) ([]string, error) {
	tokens := a.Tokens(text)
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok.Term
	}
	return terms, nil
}

// Tokens breaks text into positioned Tokens according to the policy.
func (a *Analyzer) Tokens(text string) []Token {
	if a.policy.Lowercase {
		text = strings.ToLower(text)
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]Token, 0, len(words)/2)
	pos := 0
	for _, word := range words {
		if len(word) < a.policy.MinTokenLength {
			continue
		}
		if a.policy.StopWords {
			if _, isStop := stopWords[strings.ToLower(word)]; isStop {
				continue
			}
		}
		if a.policy.Stemming {
			word = stem(word)
		}
		if word == "" {
			continue
		}
		tokens = append(tokens, Token{
			Term:     word,
			Position: pos,
		})
		pos++
	}
	return tokens
}

// stem applies a simple suffix-stripping stemmer to the given word.
func stem(word string) string {
	for _, rule := range suffixRules {
		if strings.HasSuffix(word, rule.suffix) {
			newWord := word[:len(word)-len(rule.suffix)] + rule.replacement
			if len(newWord) >= rule.minLen {
				return newWord
			}
		}
	}
	return word
}
